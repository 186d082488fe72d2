// Package features derives model-ready attributes from raw claim records.
// The same code path runs at training time (on batches) and at inference
// time (on a single record); any divergence would cause train/serve skew.
package features

import "fraudlab/internal/domain"

// Engineer computes the derived feature record for a single claim.
// Pure function: no I/O, no hidden state, input is not mutated.
//
// Formulas:
//   - avg_claim_per_year = claim_amount / customer_tenure
//   - claims_per_year = previous_claims_count / customer_tenure
//   - is_high_risk_region = 1 if location_risk_score > 0.8 else 0
//
// customer_tenure == 0 is NOT guarded: the ratios become ±Inf and propagate
// into the model, matching the behavior the pipeline was validated against.
// Rejecting or clamping here would silently change served probabilities.
func Engineer(c domain.ClaimRecord) domain.FeatureRecord {
	f := domain.FeatureRecord{
		ClaimAmount:         c.ClaimAmount,
		DaysToSubmit:        c.DaysToSubmit,
		PreviousClaimsCount: c.PreviousClaimsCount,
		CustomerTenure:      c.CustomerTenure,
		LocationRiskScore:   c.LocationRiskScore,
		ClaimType:           c.ClaimType,
	}

	f.AvgClaimPerYear = c.ClaimAmount / c.CustomerTenure
	f.ClaimsPerYear = float64(c.PreviousClaimsCount) / c.CustomerTenure
	if c.LocationRiskScore > 0.8 {
		f.IsHighRiskRegion = 1
	}

	return f
}

// EngineerBatch applies Engineer to every record. The claim_id and label
// do not survive into FeatureRecord, so dropping them needs no separate
// step and is a no-op for records that never had them.
func EngineerBatch(claims []domain.ClaimRecord) []domain.FeatureRecord {
	result := make([]domain.FeatureRecord, len(claims))
	for i, c := range claims {
		result[i] = Engineer(c)
	}
	return result
}

// Labels extracts the is_fraud column from a labeled batch.
func Labels(claims []domain.ClaimRecord) []int {
	labels := make([]int, len(claims))
	for i, c := range claims {
		labels[i] = c.IsFraud
	}
	return labels
}
