package domain

// ClaimRecord represents one raw insurance-claim observation.
// Corresponds to the claims table in PostgreSQL and one CSV row.
type ClaimRecord struct {
	ClaimID             int64   // identifier, dropped before modeling
	ClaimAmount         float64 // currency units
	DaysToSubmit        int     // days between incident and submission
	PreviousClaimsCount int     // count >= 0
	CustomerTenure      float64 // years, expected > 0
	LocationRiskScore   float64 // expected range [0,1], not enforced
	ClaimType           string  // categorical, open set (Health, Property, ...)
	IsFraud             int     // binary label, present only in training data
}

// Known claim types used by the synthetic generator. The categorical
// encoder treats claim_type as an open set and does not depend on this list.
var ClaimTypes = []string{"Health", "Property", "Auto", "Life"}
