package memory

import (
	"context"
	"sort"
	"sync"

	"fraudlab/internal/domain"
	"fraudlab/internal/storage"
)

// ArtifactStore is an in-memory implementation of storage.ArtifactStore.
type ArtifactStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Artifact // keyed by artifact name
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		data: make(map[string]*domain.Artifact),
	}
}

// Save persists an artifact, replacing any existing artifact with the same name.
func (s *ArtifactStore) Save(_ context.Context, a *domain.Artifact) error {
	if a == nil || a.Name == "" || len(a.Blob) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[a.Name] = copyArtifact(a)
	return nil
}

// Get retrieves an artifact by name. Returns ErrNotFound if not exists.
func (s *ArtifactStore) Get(_ context.Context, name string) (*domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[name]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyArtifact(a), nil
}

// List retrieves all stored artifacts, ordered by name ASC.
func (s *ArtifactStore) List(_ context.Context) ([]*domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Artifact, 0, len(s.data))
	for _, a := range s.data {
		result = append(result, copyArtifact(a))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Delete removes an artifact by name. Returns ErrNotFound if not exists.
func (s *ArtifactStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[name]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, name)
	return nil
}

// copyArtifact deep-copies an artifact so callers cannot mutate the
// stored blob through the returned slice.
func copyArtifact(a *domain.Artifact) *domain.Artifact {
	artifactCopy := *a
	artifactCopy.Blob = make([]byte, len(a.Blob))
	copy(artifactCopy.Blob, a.Blob)
	return &artifactCopy
}

// Verify interface compliance at compile time.
var _ storage.ArtifactStore = (*ArtifactStore)(nil)
