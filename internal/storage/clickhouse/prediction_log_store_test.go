package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fraudlab/internal/domain"
	"fraudlab/internal/storage"
)

func testPrediction(id, modelType string, createdAtMs int64) *domain.PredictionRecord {
	return &domain.PredictionRecord{
		PredictionID:        id,
		ModelType:           modelType,
		ClaimAmount:         5100.25,
		DaysToSubmit:        40,
		PreviousClaimsCount: 3,
		CustomerTenure:      2.5,
		LocationRiskScore:   0.85,
		ClaimType:           "Life",
		Probability:         0.943,
		Prediction:          1,
		CreatedAtMs:         createdAtMs,
	}
}

func TestPredictionLogStore_InsertAndQuery(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPredictionLogStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testPrediction("b", "random_forest", 200)))
	require.NoError(t, store.Insert(ctx, testPrediction("a", "random_forest", 100)))
	require.NoError(t, store.Insert(ctx, testPrediction("c", "xgboost", 150)))

	rf, err := store.GetByModelType(ctx, "random_forest")
	require.NoError(t, err)
	require.Len(t, rf, 2)
	require.Equal(t, "a", rf[0].PredictionID)
	require.Equal(t, "b", rf[1].PredictionID)
	require.Equal(t, 0.943, rf[0].Probability)
	require.Equal(t, 1, rf[0].Prediction)
	require.Equal(t, "Life", rf[0].ClaimType)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}

func TestPredictionLogStore_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPredictionLogStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testPrediction("a", "xgboost", 1)))
	require.ErrorIs(t, store.Insert(ctx, testPrediction("a", "xgboost", 2)), storage.ErrDuplicateKey)

	// Intra-batch duplicate fails before anything is sent.
	err := store.InsertBulk(ctx, []*domain.PredictionRecord{
		testPrediction("x", "xgboost", 1),
		testPrediction("x", "xgboost", 2),
	})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestPredictionLogStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPredictionLogStore(conn)
	ctx := context.Background()

	require.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Insert(ctx, &domain.PredictionRecord{}), storage.ErrInvalidInput)
}
