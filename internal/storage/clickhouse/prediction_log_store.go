package clickhouse

import (
	"context"
	"fmt"

	"fraudlab/internal/domain"
	"fraudlab/internal/storage"
)

// PredictionLogStore implements storage.PredictionLogStore using ClickHouse.
type PredictionLogStore struct {
	conn *Conn
}

// NewPredictionLogStore creates a new PredictionLogStore.
func NewPredictionLogStore(conn *Conn) *PredictionLogStore {
	return &PredictionLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PredictionLogStore = (*PredictionLogStore)(nil)

// Insert adds one served prediction. Returns ErrDuplicateKey if
// prediction_id exists.
func (s *PredictionLogStore) Insert(ctx context.Context, r *domain.PredictionRecord) error {
	if r == nil || r.PredictionID == "" {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.PredictionRecord{r})
}

// InsertBulk adds multiple records. Fails entire batch on any duplicate.
// MergeTree does not enforce uniqueness at insert time, so duplicates
// are checked explicitly before the batch is sent.
func (s *PredictionLogStore) InsertBulk(ctx context.Context, records []*domain.PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.PredictionID == "" {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[r.PredictionID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[r.PredictionID] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, r := range records {
		exists, err := s.exists(ctx, r.PredictionID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO fraud_predictions (
			prediction_id, model_type, claim_amount, days_to_submit,
			previous_claims_count, customer_tenure, location_risk_score,
			claim_type, probability, prediction, created_at_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.PredictionID, r.ModelType, r.ClaimAmount, int32(r.DaysToSubmit),
			int32(r.PreviousClaimsCount), r.CustomerTenure, r.LocationRiskScore,
			r.ClaimType, r.Probability, uint8(r.Prediction), uint64(r.CreatedAtMs),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByModelType retrieves all records served by one model type,
// ordered by created_at_ms ASC.
func (s *PredictionLogStore) GetByModelType(ctx context.Context, modelType string) ([]*domain.PredictionRecord, error) {
	query := `
		SELECT prediction_id, model_type, claim_amount, days_to_submit,
			previous_claims_count, customer_tenure, location_risk_score,
			claim_type, probability, prediction, created_at_ms
		FROM fraud_predictions
		WHERE model_type = ?
		ORDER BY created_at_ms ASC, prediction_id ASC
	`

	rows, err := s.conn.Query(ctx, query, modelType)
	if err != nil {
		return nil, fmt.Errorf("query by model type: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// Count returns the number of logged predictions.
func (s *PredictionLogStore) Count(ctx context.Context) (int64, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM fraud_predictions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return int64(count), nil
}

// exists checks if a record with the given prediction_id exists.
func (s *PredictionLogStore) exists(ctx context.Context, predictionID string) (bool, error) {
	query := `SELECT count(*) FROM fraud_predictions WHERE prediction_id = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, predictionID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows is the subset of driver.Rows the scanners need.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanPredictions scans multiple rows.
func scanPredictions(rows chRows) ([]*domain.PredictionRecord, error) {
	var records []*domain.PredictionRecord

	for rows.Next() {
		var r domain.PredictionRecord
		var daysToSubmit, prevClaims int32
		var prediction uint8
		var createdAtMs uint64

		err := rows.Scan(
			&r.PredictionID, &r.ModelType, &r.ClaimAmount, &daysToSubmit,
			&prevClaims, &r.CustomerTenure, &r.LocationRiskScore,
			&r.ClaimType, &r.Probability, &prediction, &createdAtMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prediction row: %w", err)
		}

		r.DaysToSubmit = int(daysToSubmit)
		r.PreviousClaimsCount = int(prevClaims)
		r.Prediction = int(prediction)
		r.CreatedAtMs = int64(createdAtMs)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prediction rows: %w", err)
	}

	return records, nil
}
