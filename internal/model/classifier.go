// Package model implements the interchangeable classifier variants behind
// the fraud pipeline: a bagged random forest with class-imbalance weighting
// and a gradient-boosted tree ensemble with a log-loss objective.
package model

import (
	"errors"

	"fraudlab/internal/domain"
)

// Factory errors
var (
	ErrUnknownModelType    = errors.New("unknown model type")
	ErrMissingLearningRate = errors.New("xgboost requires LearningRate")
	ErrNotFitted           = errors.New("classifier not fitted")
	ErrEmptyTrainingSet    = errors.New("cannot fit classifier on empty training set")
)

// Classifier is the capability set every model variant implements.
type Classifier interface {
	// Fit trains the classifier on the design matrix X and binary labels y.
	Fit(X [][]float64, y []int) error

	// PredictProba returns the positive-class probability for each row of X.
	// Returns ErrNotFitted before Fit has completed.
	PredictProba(X [][]float64) ([]float64, error)

	// FeatureImportances returns the normalized split-gain importance of
	// each input column. Returns ErrNotFitted before Fit has completed.
	FeatureImportances() ([]float64, error)

	// Contributions decomposes the raw model output for one row into a base
	// value plus one additive contribution per input column. The raw output
	// is in probability units for the forest and log-odds units for the
	// boosted ensemble.
	Contributions(x []float64) (base float64, contrib []float64, err error)

	// Name returns the model type tag.
	Name() string
}

// FromConfig creates a Classifier from domain.ModelConfig.
// Fails closed on unrecognized model types before any fitting work, and
// validates required variant parameters.
func FromConfig(cfg domain.ModelConfig) (Classifier, error) {
	switch domain.NormalizeModelType(cfg.ModelType) {
	case domain.ModelTypeRandomForest:
		return NewRandomForest(cfg), nil
	case domain.ModelTypeXGBoost:
		if cfg.LearningRate == nil {
			return nil, ErrMissingLearningRate
		}
		return NewGradientBoosting(cfg), nil
	default:
		return nil, ErrUnknownModelType
	}
}
