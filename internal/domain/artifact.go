package domain

// Artifact represents a persisted trained pipeline: an opaque serialized
// blob keyed by its deterministic name. Retraining the same model type
// replaces the existing artifact under that name.
type Artifact struct {
	Name        string // e.g. "fraud_model_xgboost"
	ModelType   string // normalized model type the blob was trained as
	Checksum    string // base58-encoded SHA256 of Blob
	Blob        []byte
	CreatedAtMs int64 // Unix timestamp in milliseconds
}
