// Package store persists evaluation history. Two backends are provided:
// SQLite for single-machine use and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// EvaluationFilter specifies criteria for listing evaluations.
type EvaluationFilter struct {
	Category model.Category `json:"category,omitempty"`
	Location string         `json:"location,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for evaluation records.
type Store interface {
	CreateEvaluation(ctx context.Context, rec model.Recommendation) (*model.Evaluation, error)
	GetEvaluation(ctx context.Context, id string) (*model.Evaluation, error)
	ListEvaluations(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, error)

	Migrate(ctx context.Context) error
	Close() error
}
