package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using jackc/pgx.
type PostgresStore struct {
	pool Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// NewPostgresFromURL connects to the given database URL.
func NewPostgresFromURL(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS evaluations (
	id             UUID PRIMARY KEY,
	location       TEXT NOT NULL,
	category       TEXT NOT NULL,
	profile        JSONB NOT NULL,
	recommendation JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_evaluations_category ON evaluations(category);
CREATE INDEX IF NOT EXISTS idx_evaluations_location ON evaluations(location);
CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateEvaluation(ctx context.Context, rec model.Recommendation) (*model.Evaluation, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal profile")
	}
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal recommendation")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO evaluations (id, location, category, profile, recommendation, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, rec.Profile.Location, string(rec.Category), profileJSON, recJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert evaluation")
	}

	return &model.Evaluation{
		ID:             id,
		Profile:        rec.Profile,
		Recommendation: rec,
		Category:       rec.Category,
		CreatedAt:      now,
	}, nil
}

func (s *PostgresStore) GetEvaluation(ctx context.Context, id string) (*model.Evaluation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, category, profile, recommendation, created_at FROM evaluations WHERE id = $1`,
		id,
	)
	ev, err := scanPgEvaluation(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, error) {
	query := `SELECT id, category, profile, recommendation, created_at FROM evaluations WHERE 1=1`
	var args []any

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		query += ` AND location = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list evaluations")
	}
	defer rows.Close()

	var evals []model.Evaluation
	for rows.Next() {
		ev, err := scanPgEvaluation(rows.Scan)
		if err != nil {
			return nil, err
		}
		evals = append(evals, *ev)
	}
	return evals, eris.Wrap(rows.Err(), "postgres: iterate evaluations")
}

// scanPgEvaluation decodes one row; profile and recommendation arrive as
// JSONB bytes.
func scanPgEvaluation(scan func(dest ...any) error) (*model.Evaluation, error) {
	var ev model.Evaluation
	var category string
	var profileJSON, recJSON []byte
	if err := scan(&ev.ID, &category, &profileJSON, &recJSON, &ev.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, eris.Wrap(err, "postgres: scan evaluation")
	}
	ev.Category = model.Category(category)
	if err := json.Unmarshal(profileJSON, &ev.Profile); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal profile")
	}
	if err := json.Unmarshal(recJSON, &ev.Recommendation); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal recommendation")
	}
	return &ev, nil
}
