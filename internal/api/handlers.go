package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/engine"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"locations": len(s.kb.Current().Regions),
	})
}

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request) {
	k := s.kb.Current()
	type locationInfo struct {
		Name             string  `json:"name"`
		SunHoursPerDay   float64 `json:"sun_hours_per_day"`
		UncertaintyHours float64 `json:"uncertainty_hours"`
	}
	names := k.Locations()
	out := make([]locationInfo, 0, len(names))
	for _, name := range names {
		r, _ := k.Region(name)
		out = append(out, locationInfo{Name: name, SunHoursPerDay: r.SunHours, UncertaintyHours: r.Uncertainty})
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": out})
}

func (s *Server) handleTariff(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("monthly_kwh")
	monthly, err := strconv.ParseFloat(raw, 64)
	if err != nil || monthly < 0 {
		writeError(w, http.StatusBadRequest, "monthly_kwh must be a non-negative number")
		return
	}

	total, blended := engine.ComputeTariff(monthly, s.kb.Current().Tariffs)
	writeJSON(w, http.StatusOK, map[string]any{
		"monthly_kwh":          monthly,
		"total_bill_lkr":       total,
		"blended_rate_lkr_kwh": blended,
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var profile model.SiteProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := engine.New(s.kb.Current()).Evaluate(profile)
	if err != nil {
		s.writeEvaluateError(w, err)
		return
	}

	ev, err := s.store.CreateEvaluation(r.Context(), *rec)
	if err != nil {
		zap.L().Error("persist evaluation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist evaluation")
		return
	}

	writeJSON(w, http.StatusCreated, ev)
}

// writeEvaluateError maps engine errors onto status codes: bad input is the
// caller's fault, a broken knowledge base is ours.
func (s *Server) writeEvaluateError(w http.ResponseWriter, err error) {
	var cfgErr *kb.ConfigurationError
	switch {
	case engine.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &cfgErr):
		zap.L().Error("knowledge base misconfigured", zap.Strings("problems", cfgErr.Problems))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:    "knowledge base misconfigured",
			Problems: cfgErr.Problems,
		})
	default:
		zap.L().Error("evaluate failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "evaluation failed")
	}
}

func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ev, err := s.store.GetEvaluation(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "evaluation not found")
			return
		}
		zap.L().Error("get evaluation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load evaluation")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.EvaluationFilter{
		Category: model.Category(q.Get("category")),
		Location: q.Get("location"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		filter.Offset = offset
	}

	evals, err := s.store.ListEvaluations(r.Context(), filter)
	if err != nil {
		zap.L().Error("list evaluations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list evaluations")
		return
	}
	if evals == nil {
		evals = []model.Evaluation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"evaluations": evals})
}

func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	if err := s.kb.Reload(s.kbPath); err != nil {
		var cfgErr *kb.ConfigurationError
		if errors.As(err, &cfgErr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:    "knowledge base rejected, previous version still active",
				Problems: cfgErr.Problems,
			})
			return
		}
		zap.L().Error("reload knowledge base", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reload failed, previous version still active")
		return
	}

	k := s.kb.Current()
	zap.L().Info("knowledge base reloaded",
		zap.String("path", s.kbPath),
		zap.Int("locations", len(k.Regions)),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "reloaded",
		"locations": len(k.Regions),
	})
}
