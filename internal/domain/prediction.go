package domain

// PredictionResult is the outcome of scoring a single claim.
type PredictionResult struct {
	Prediction       int     `json:"prediction"`        // 0 | 1
	FraudProbability float64 `json:"fraud_probability"` // [0,1], rounded to 3 decimals
}

// PredictionRecord represents one served prediction for the audit log.
// Corresponds to the fraud_predictions table in ClickHouse.
type PredictionRecord struct {
	PredictionID        string // deterministic hash, see idhash
	ModelType           string // normalized selector
	ClaimAmount         float64
	DaysToSubmit        int
	PreviousClaimsCount int
	CustomerTenure      float64
	LocationRiskScore   float64
	ClaimType           string
	Probability         float64
	Prediction          int
	CreatedAtMs         int64 // Unix timestamp in milliseconds
}
