// Package api exposes the recommendation engine over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/store"
)

// Server routes HTTP requests to the engine and the evaluation store. The
// knowledge handle is read per request, so /admin/kb/reload takes effect
// without a restart.
type Server struct {
	kb     *kb.Handle
	store  store.Store
	kbPath string
}

// NewServer wires the HTTP surface. kbPath is the file /admin/kb/reload
// re-reads.
func NewServer(handle *kb.Handle, st store.Store, kbPath string) *Server {
	return &Server{kb: handle, store: st, kbPath: kbPath}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/locations", s.handleLocations)
		r.Get("/tariff", s.handleTariff)
		r.Post("/evaluate", s.handleEvaluate)
		r.Get("/evaluations", s.handleListEvaluations)
		r.Get("/evaluations/{id}", s.handleGetEvaluation)
	})

	r.Post("/admin/kb/reload", s.handleReload)

	return r
}

// requestLogger logs one line per request after it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
