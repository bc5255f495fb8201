package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS evaluations (
	id             TEXT PRIMARY KEY,
	location       TEXT NOT NULL,
	category       TEXT NOT NULL,
	profile        TEXT NOT NULL,
	recommendation TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_evaluations_category ON evaluations(category);
CREATE INDEX IF NOT EXISTS idx_evaluations_location ON evaluations(location);
CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateEvaluation(ctx context.Context, rec model.Recommendation) (*model.Evaluation, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal profile")
	}
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal recommendation")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, location, category, profile, recommendation, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, rec.Profile.Location, string(rec.Category), string(profileJSON), string(recJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert evaluation")
	}

	return &model.Evaluation{
		ID:             id,
		Profile:        rec.Profile,
		Recommendation: rec,
		Category:       rec.Category,
		CreatedAt:      now,
	}, nil
}

func (s *SQLiteStore) GetEvaluation(ctx context.Context, id string) (*model.Evaluation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, profile, recommendation, created_at FROM evaluations WHERE id = ?`,
		id,
	)
	return scanEvaluation(row.Scan)
}

func (s *SQLiteStore) ListEvaluations(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, error) {
	query := `SELECT id, category, profile, recommendation, created_at FROM evaluations WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.Location != "" {
		query += ` AND location = ?`
		args = append(args, filter.Location)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// OFFSET is only valid after LIMIT; -1 means unbounded.
		query += ` LIMIT -1`
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list evaluations")
	}
	defer rows.Close()

	var evals []model.Evaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows.Scan)
		if err != nil {
			return nil, err
		}
		evals = append(evals, *ev)
	}
	return evals, eris.Wrap(rows.Err(), "sqlite: iterate evaluations")
}

// scanEvaluation decodes one evaluation row from either backend.
func scanEvaluation(scan func(dest ...any) error) (*model.Evaluation, error) {
	var ev model.Evaluation
	var category, profileJSON, recJSON string
	if err := scan(&ev.ID, &category, &profileJSON, &recJSON, &ev.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "store: scan evaluation")
	}
	ev.Category = model.Category(category)
	if err := json.Unmarshal([]byte(profileJSON), &ev.Profile); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal profile")
	}
	if err := json.Unmarshal([]byte(recJSON), &ev.Recommendation); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal recommendation")
	}
	return &ev, nil
}

// ErrNotFound reports a missing evaluation id.
var ErrNotFound = eris.New("store: evaluation not found")
