package memory

import (
	"context"
	"sort"
	"sync"

	"fraudlab/internal/domain"
	"fraudlab/internal/storage"
)

// PredictionLogStore is an in-memory implementation of storage.PredictionLogStore.
type PredictionLogStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PredictionRecord // keyed by prediction_id
}

// NewPredictionLogStore creates a new in-memory prediction log store.
func NewPredictionLogStore() *PredictionLogStore {
	return &PredictionLogStore{
		data: make(map[string]*domain.PredictionRecord),
	}
}

// Insert adds one served prediction. Returns ErrDuplicateKey if prediction_id exists.
func (s *PredictionLogStore) Insert(_ context.Context, r *domain.PredictionRecord) error {
	if r == nil || r.PredictionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.PredictionID]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *r
	s.data[r.PredictionID] = &recordCopy
	return nil
}

// InsertBulk adds multiple records. Fails entire batch on any duplicate.
func (s *PredictionLogStore) InsertBulk(_ context.Context, records []*domain.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.PredictionID == "" {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[r.PredictionID]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[r.PredictionID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.PredictionID] = struct{}{}
	}

	for _, r := range records {
		recordCopy := *r
		s.data[r.PredictionID] = &recordCopy
	}
	return nil
}

// GetByModelType retrieves all records served by one model type,
// ordered by created_at_ms ASC.
func (s *PredictionLogStore) GetByModelType(_ context.Context, modelType string) ([]*domain.PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PredictionRecord
	for _, r := range s.data {
		if r.ModelType == modelType {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAtMs != result[j].CreatedAtMs {
			return result[i].CreatedAtMs < result[j].CreatedAtMs
		}
		return result[i].PredictionID < result[j].PredictionID
	})

	return result, nil
}

// Count returns the number of logged predictions.
func (s *PredictionLogStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

// Verify interface compliance at compile time.
var _ storage.PredictionLogStore = (*PredictionLogStore)(nil)
