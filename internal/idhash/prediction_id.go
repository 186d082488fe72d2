package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"fraudlab/internal/domain"
)

// ComputePredictionID computes a deterministic prediction_id using SHA256.
// Formula: SHA256(model_type|claim_amount|days_to_submit|previous_claims_count|customer_tenure|location_risk_score|claim_type|created_at_ms)
// Returns hex-encoded hash (64 characters).
//
// Float fields are formatted with %g so the same input bits always produce
// the same id.
func ComputePredictionID(r *domain.PredictionRecord) string {
	data := fmt.Sprintf("%s|%g|%d|%d|%g|%g|%s|%d",
		r.ModelType,
		r.ClaimAmount,
		r.DaysToSubmit,
		r.PreviousClaimsCount,
		r.CustomerTenure,
		r.LocationRiskScore,
		r.ClaimType,
		r.CreatedAtMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
