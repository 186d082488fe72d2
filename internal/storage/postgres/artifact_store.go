package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fraudlab/internal/domain"
	"fraudlab/internal/storage"
)

// ArtifactStore implements storage.ArtifactStore using PostgreSQL.
type ArtifactStore struct {
	pool *Pool
}

// NewArtifactStore creates a new ArtifactStore.
func NewArtifactStore(pool *Pool) *ArtifactStore {
	return &ArtifactStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ArtifactStore = (*ArtifactStore)(nil)

// Save persists an artifact, replacing any existing artifact with the same name.
func (s *ArtifactStore) Save(ctx context.Context, a *domain.Artifact) error {
	if a == nil || a.Name == "" || len(a.Blob) == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO model_artifacts (name, model_type, checksum, blob, created_at_ms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			model_type = EXCLUDED.model_type,
			checksum = EXCLUDED.checksum,
			blob = EXCLUDED.blob,
			created_at_ms = EXCLUDED.created_at_ms
	`

	_, err := s.pool.Exec(ctx, query,
		a.Name,
		a.ModelType,
		a.Checksum,
		a.Blob,
		a.CreatedAtMs,
	)
	if err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}
	return nil
}

// Get retrieves an artifact by name. Returns ErrNotFound if not exists.
func (s *ArtifactStore) Get(ctx context.Context, name string) (*domain.Artifact, error) {
	query := `
		SELECT name, model_type, checksum, blob, created_at_ms
		FROM model_artifacts
		WHERE name = $1
	`

	row := s.pool.QueryRow(ctx, query, name)
	a, err := scanArtifact(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get artifact by name: %w", err)
	}
	return a, nil
}

// List retrieves all stored artifacts, ordered by name ASC.
func (s *ArtifactStore) List(ctx context.Context) ([]*domain.Artifact, error) {
	query := `
		SELECT name, model_type, checksum, blob, created_at_ms
		FROM model_artifacts
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*domain.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact row: %w", err)
		}
		artifacts = append(artifacts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact rows: %w", err)
	}

	return artifacts, nil
}

// Delete removes an artifact by name. Returns ErrNotFound if not exists.
func (s *ArtifactStore) Delete(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM model_artifacts WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanArtifact scans a single row into an Artifact.
func scanArtifact(row pgx.Row) (*domain.Artifact, error) {
	var a domain.Artifact
	err := row.Scan(
		&a.Name,
		&a.ModelType,
		&a.Checksum,
		&a.Blob,
		&a.CreatedAtMs,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
