package storage

import (
	"context"

	"fraudlab/internal/domain"
)

// ArtifactStore provides access to trained model artifact storage.
// Save is an upsert: retraining a model type replaces its artifact.
type ArtifactStore interface {
	// Save persists an artifact, replacing any existing artifact with
	// the same name.
	Save(ctx context.Context, a *domain.Artifact) error

	// Get retrieves an artifact by name. Returns ErrNotFound if not exists.
	Get(ctx context.Context, name string) (*domain.Artifact, error)

	// List retrieves all stored artifacts, ordered by name ASC.
	List(ctx context.Context) ([]*domain.Artifact, error)

	// Delete removes an artifact by name. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, name string) error
}

// ClaimStore provides access to labeled claim dataset storage.
// Append-only: claims are never updated once inserted.
type ClaimStore interface {
	// Insert adds a new claim. Returns ErrDuplicateKey if claim_id exists.
	Insert(ctx context.Context, c *domain.ClaimRecord) error

	// InsertBulk adds multiple claims atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, claims []*domain.ClaimRecord) error

	// GetByID retrieves a claim by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, claimID int64) (*domain.ClaimRecord, error)

	// GetAll retrieves all claims, ordered by claim_id ASC.
	GetAll(ctx context.Context) ([]*domain.ClaimRecord, error)

	// Count returns the number of stored claims.
	Count(ctx context.Context) (int64, error)
}

// PredictionLogStore provides access to the served-prediction audit log.
// Append-only.
type PredictionLogStore interface {
	// Insert adds one served prediction. Returns ErrDuplicateKey if
	// prediction_id exists.
	Insert(ctx context.Context, r *domain.PredictionRecord) error

	// InsertBulk adds multiple records. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.PredictionRecord) error

	// GetByModelType retrieves all records served by one model type,
	// ordered by created_at_ms ASC.
	GetByModelType(ctx context.Context, modelType string) ([]*domain.PredictionRecord, error)

	// Count returns the number of logged predictions.
	Count(ctx context.Context) (int64, error)
}
