package memory

import (
	"context"
	"sort"
	"sync"

	"fraudlab/internal/domain"
	"fraudlab/internal/storage"
)

// ClaimStore is an in-memory implementation of storage.ClaimStore.
type ClaimStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.ClaimRecord // keyed by claim_id
}

// NewClaimStore creates a new in-memory claim store.
func NewClaimStore() *ClaimStore {
	return &ClaimStore{
		data: make(map[int64]*domain.ClaimRecord),
	}
}

// Insert adds a new claim. Returns ErrDuplicateKey if claim_id exists.
func (s *ClaimStore) Insert(_ context.Context, c *domain.ClaimRecord) error {
	if c == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(c)
}

// InsertBulk adds multiple claims atomically. Fails entire batch on any duplicate.
func (s *ClaimStore) InsertBulk(_ context.Context, claims []*domain.ClaimRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching the map.
	seen := make(map[int64]struct{}, len(claims))
	for _, c := range claims {
		if c == nil {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[c.ClaimID]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[c.ClaimID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[c.ClaimID] = struct{}{}
	}

	for _, c := range claims {
		if err := s.insertLocked(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClaimStore) insertLocked(c *domain.ClaimRecord) error {
	if _, exists := s.data[c.ClaimID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	claimCopy := *c
	s.data[c.ClaimID] = &claimCopy
	return nil
}

// GetByID retrieves a claim by its ID. Returns ErrNotFound if not exists.
func (s *ClaimStore) GetByID(_ context.Context, claimID int64) (*domain.ClaimRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[claimID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	claimCopy := *c
	return &claimCopy, nil
}

// GetAll retrieves all claims, ordered by claim_id ASC.
func (s *ClaimStore) GetAll(_ context.Context) ([]*domain.ClaimRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ClaimRecord, 0, len(s.data))
	for _, c := range s.data {
		claimCopy := *c
		result = append(result, &claimCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ClaimID < result[j].ClaimID
	})

	return result, nil
}

// Count returns the number of stored claims.
func (s *ClaimStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

// Verify interface compliance at compile time.
var _ storage.ClaimStore = (*ClaimStore)(nil)
