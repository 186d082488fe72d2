// Package fs implements artifact storage on the local filesystem: one
// file per artifact under a models directory. This is the default store
// for the train and serve binaries; the database-backed stores are for
// shared deployments.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fraudlab/internal/domain"
	"fraudlab/internal/idhash"
	"fraudlab/internal/storage"
)

const artifactExt = ".gob"

// ArtifactStore persists artifacts as <dir>/<name>.gob files. Metadata
// is derived, not stored: checksum from the blob, timestamp from the
// file mtime, model type from the artifact naming convention.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates a filesystem artifact store rooted at dir,
// creating the directory if needed.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if dir == "" {
		return nil, storage.ErrInvalidInput
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create models directory: %w", err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// Save persists an artifact, replacing any existing file with the same
// name. The write goes through a temp file and rename so a crashed save
// never leaves a truncated artifact behind.
func (s *ArtifactStore) Save(_ context.Context, a *domain.Artifact) error {
	if a == nil || len(a.Blob) == 0 {
		return storage.ErrInvalidInput
	}
	if err := validateName(a.Name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, a.Name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(a.Blob); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write artifact blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp artifact file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(a.Name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename artifact into place: %w", err)
	}
	return nil
}

// Get retrieves an artifact by name. Returns ErrNotFound if not exists.
func (s *ArtifactStore) Get(_ context.Context, name string) (*domain.Artifact, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	path := s.path(name)
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read artifact file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact file: %w", err)
	}

	return &domain.Artifact{
		Name:        name,
		ModelType:   modelTypeFromName(name),
		Checksum:    idhash.ArtifactChecksum(blob),
		Blob:        blob,
		CreatedAtMs: info.ModTime().UnixMilli(),
	}, nil
}

// List retrieves all stored artifacts, ordered by name ASC.
func (s *ArtifactStore) List(ctx context.Context) ([]*domain.Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read models directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), artifactExt))
	}
	sort.Strings(names)

	artifacts := make([]*domain.Artifact, 0, len(names))
	for _, name := range names {
		a, err := s.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// Delete removes an artifact by name. Returns ErrNotFound if not exists.
func (s *ArtifactStore) Delete(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("remove artifact file: %w", err)
	}
	return nil
}

func (s *ArtifactStore) path(name string) string {
	return filepath.Join(s.dir, name+artifactExt)
}

// validateName rejects names that would escape the models directory.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return storage.ErrInvalidInput
	}
	return nil
}

// modelTypeFromName recovers the model type from the artifact naming
// convention ("fraud_model_<type>"). Empty for foreign names.
func modelTypeFromName(name string) string {
	const prefix = "fraud_model_"
	if strings.HasPrefix(name, prefix) {
		return strings.TrimPrefix(name, prefix)
	}
	return ""
}

// Verify interface compliance at compile time.
var _ storage.ArtifactStore = (*ArtifactStore)(nil)
