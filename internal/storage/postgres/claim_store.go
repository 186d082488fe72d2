package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fraudlab/internal/domain"
	"fraudlab/internal/storage"
)

// ClaimStore implements storage.ClaimStore using PostgreSQL.
type ClaimStore struct {
	pool *Pool
}

// NewClaimStore creates a new ClaimStore.
func NewClaimStore(pool *Pool) *ClaimStore {
	return &ClaimStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ClaimStore = (*ClaimStore)(nil)

const claimColumns = `
	claim_id, claim_amount, days_to_submit, previous_claims_count,
	customer_tenure, location_risk_score, claim_type, is_fraud
`

// Insert adds a new claim. Returns ErrDuplicateKey if claim_id exists.
func (s *ClaimStore) Insert(ctx context.Context, c *domain.ClaimRecord) error {
	if c == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		c.ClaimID,
		c.ClaimAmount,
		c.DaysToSubmit,
		c.PreviousClaimsCount,
		c.CustomerTenure,
		c.LocationRiskScore,
		c.ClaimType,
		c.IsFraud,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

// InsertBulk adds multiple claims atomically. Fails entire batch on any duplicate.
func (s *ClaimStore) InsertBulk(ctx context.Context, claims []*domain.ClaimRecord) error {
	if len(claims) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, c := range claims {
		if c == nil {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			c.ClaimID,
			c.ClaimAmount,
			c.DaysToSubmit,
			c.PreviousClaimsCount,
			c.CustomerTenure,
			c.LocationRiskScore,
			c.ClaimType,
			c.IsFraud,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert claim %d: %w", c.ClaimID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit claim batch: %w", err)
	}
	return nil
}

// GetByID retrieves a claim by its ID. Returns ErrNotFound if not exists.
func (s *ClaimStore) GetByID(ctx context.Context, claimID int64) (*domain.ClaimRecord, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE claim_id = $1`

	row := s.pool.QueryRow(ctx, query, claimID)
	c, err := scanClaim(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get claim by id: %w", err)
	}
	return c, nil
}

// GetAll retrieves all claims, ordered by claim_id ASC.
func (s *ClaimStore) GetAll(ctx context.Context) ([]*domain.ClaimRecord, error) {
	query := `SELECT ` + claimColumns + ` FROM claims ORDER BY claim_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all claims: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

// Count returns the number of stored claims.
func (s *ClaimStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM claims`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return count, nil
}

// scanClaim scans a single row into a ClaimRecord.
func scanClaim(row pgx.Row) (*domain.ClaimRecord, error) {
	var c domain.ClaimRecord
	err := row.Scan(
		&c.ClaimID,
		&c.ClaimAmount,
		&c.DaysToSubmit,
		&c.PreviousClaimsCount,
		&c.CustomerTenure,
		&c.LocationRiskScore,
		&c.ClaimType,
		&c.IsFraud,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanClaims scans multiple rows into a slice of ClaimRecord.
func scanClaims(rows pgx.Rows) ([]*domain.ClaimRecord, error) {
	var claims []*domain.ClaimRecord

	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim row: %w", err)
		}
		claims = append(claims, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claim rows: %w", err)
	}

	return claims, nil
}
