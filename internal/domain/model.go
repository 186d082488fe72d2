package domain

import "strings"

// Model type constants
const (
	ModelTypeRandomForest = "random_forest"
	ModelTypeXGBoost      = "xgboost"
)

// ModelConfig represents classifier configuration parameters.
// Variant-specific parameters are pointers; the factory validates that the
// required ones are present for the selected type.
type ModelConfig struct {
	ModelType string // "random_forest" | "xgboost"
	Seed      int64

	// Common tree parameters
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int

	// xgboost parameters
	LearningRate *float64
}

// DefaultModelConfig returns the configuration used by the training CLI
// for the given model type. Unknown types are passed through unchanged so
// the factory can reject them.
func DefaultModelConfig(modelType string, seed int64) ModelConfig {
	cfg := ModelConfig{
		ModelType:       modelType,
		Seed:            seed,
		NEstimators:     100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
	}
	if modelType == ModelTypeXGBoost {
		lr := 0.1
		cfg.LearningRate = &lr
		cfg.MaxDepth = 3
	}
	return cfg
}

// NormalizeModelType normalizes a user-supplied model type selector:
// lower-cased with spaces replaced by underscores, so "Random Forest"
// resolves the same artifact as "random_forest".
func NormalizeModelType(modelType string) string {
	return strings.ReplaceAll(strings.ToLower(modelType), " ", "_")
}

// ArtifactName constructs the deterministic artifact name for a model type.
func ArtifactName(modelType string) string {
	return "fraud_model_" + NormalizeModelType(modelType)
}
