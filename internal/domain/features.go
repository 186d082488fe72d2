package domain

// FeatureRecord represents the model-ready attributes derived from a
// ClaimRecord. The claim identifier and label are intentionally absent:
// neither may reach the model.
type FeatureRecord struct {
	ClaimAmount         float64
	DaysToSubmit        int
	PreviousClaimsCount int
	CustomerTenure      float64
	LocationRiskScore   float64
	ClaimType           string

	// Derived fields.
	AvgClaimPerYear  float64 // claim_amount / customer_tenure
	ClaimsPerYear    float64 // previous_claims_count / customer_tenure
	IsHighRiskRegion int     // 1 if location_risk_score > 0.8
}

// FeatureConfig names the columns consumed by the preprocessing transform,
// grouped by how each column is transformed. Constructed once per pipeline
// instance; callers must not mutate a config after passing it in.
type FeatureConfig struct {
	NumericFeatures     []string
	CategoricalFeatures []string
	BooleanFeatures     []string
}

// DefaultFeatureConfig returns a fresh FeatureConfig for the claim schema.
// A new slice set is allocated on every call so pipeline instances cannot
// interfere through shared backing arrays.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		NumericFeatures: []string{
			"claim_amount",
			"days_to_submit",
			"customer_tenure",
			"previous_claims_count",
			"location_risk_score",
			"avg_claim_per_year",
			"claims_per_year",
		},
		CategoricalFeatures: []string{"claim_type"},
		BooleanFeatures:     []string{"is_high_risk_region"},
	}
}

// NumericValue returns the named numeric column of a FeatureRecord.
// The mapping is the single source of truth for column extraction so the
// transform and the feature-name list can never disagree on ordering.
func (f *FeatureRecord) NumericValue(name string) (float64, bool) {
	switch name {
	case "claim_amount":
		return f.ClaimAmount, true
	case "days_to_submit":
		return float64(f.DaysToSubmit), true
	case "customer_tenure":
		return f.CustomerTenure, true
	case "previous_claims_count":
		return float64(f.PreviousClaimsCount), true
	case "location_risk_score":
		return f.LocationRiskScore, true
	case "avg_claim_per_year":
		return f.AvgClaimPerYear, true
	case "claims_per_year":
		return f.ClaimsPerYear, true
	default:
		return 0, false
	}
}

// CategoricalValue returns the named categorical column. An empty string
// means the value is missing.
func (f *FeatureRecord) CategoricalValue(name string) (string, bool) {
	if name == "claim_type" {
		return f.ClaimType, true
	}
	return "", false
}

// BooleanValue returns the named boolean flag column as 0 or 1.
func (f *FeatureRecord) BooleanValue(name string) (float64, bool) {
	if name == "is_high_risk_region" {
		return float64(f.IsHighRiskRegion), true
	}
	return 0, false
}
