// Package pipeline orchestrates training: feature engineering, stratified
// splitting, the column-wise preprocessing transform, classifier fitting,
// evaluation and explanation. The fitted transform and classifier form one
// composed unit: transform statistics are frozen from training data only
// and never refit at inference time.
package pipeline

import (
	"errors"
	"fmt"
	"math"

	"fraudlab/internal/domain"
	"fraudlab/internal/features"
	"fraudlab/internal/metrics"
	"fraudlab/internal/model"
	"fraudlab/internal/preprocess"
)

// ErrNotTrained is returned when Evaluate, Explain, Predict or
// PredictProba is called before Train has completed. A programmer error:
// fail immediately rather than produce garbage output.
var ErrNotTrained = errors.New("pipeline not trained yet")

// Config holds per-instance pipeline configuration. Constructed once per
// pipeline; two concurrently trained pipelines share no state.
type Config struct {
	TestSize  float64
	Seed      int64
	Threshold float64
	Features  domain.FeatureConfig

	// Model overrides the default hyperparameters for the chosen model
	// type when non-nil. Its ModelType and Seed are taken from the
	// pipeline, not the override.
	Model *domain.ModelConfig
}

// DefaultConfig returns the standard training configuration: 80/20 split,
// 0.5 decision threshold.
func DefaultConfig() Config {
	return Config{
		TestSize:  0.2,
		Seed:      42,
		Threshold: 0.5,
		Features:  domain.DefaultFeatureConfig(),
	}
}

// Pipeline is the composed (preprocessing transform + classifier) unit.
// Exported fields so a trained pipeline serializes into an artifact blob.
type Pipeline struct {
	Config      Config
	ModelType   string // normalized
	Transformer *preprocess.ColumnTransformer
	Classifier  model.Classifier
	Trained     bool
}

// New constructs an untrained pipeline for the given model type.
// Unsupported model types fail here, before any data is touched.
func New(modelType string, cfg Config) (*Pipeline, error) {
	normalized := domain.NormalizeModelType(modelType)

	modelCfg := domain.DefaultModelConfig(normalized, cfg.Seed)
	if cfg.Model != nil {
		modelCfg = *cfg.Model
		modelCfg.ModelType = normalized
		modelCfg.Seed = cfg.Seed
	}

	clf, err := model.FromConfig(modelCfg)
	if err != nil {
		return nil, fmt.Errorf("model type %q: %w", modelType, err)
	}

	return &Pipeline{
		Config:      cfg,
		ModelType:   normalized,
		Transformer: preprocess.NewColumnTransformer(cfg.Features),
		Classifier:  clf,
	}, nil
}

// Train engineers features for the labeled dataset, performs the
// stratified split, fits the transform on the training partition only,
// then fits the classifier on the transformed matrix. Returns the split so
// the caller can evaluate and explain on the same partitions.
func (p *Pipeline) Train(claims []domain.ClaimRecord) (*Split, error) {
	feats := features.EngineerBatch(claims)
	labels := features.Labels(claims)

	split, err := StratifiedSplit(feats, labels, p.Config.TestSize, p.Config.Seed)
	if err != nil {
		return nil, fmt.Errorf("train/test split: %w", err)
	}

	if err := p.Transformer.Fit(split.TrainFeatures); err != nil {
		return nil, fmt.Errorf("fit preprocessing transform: %w", err)
	}

	X, err := p.Transformer.Transform(split.TrainFeatures)
	if err != nil {
		return nil, fmt.Errorf("transform training partition: %w", err)
	}

	if err := p.Classifier.Fit(X, split.TrainLabels); err != nil {
		return nil, fmt.Errorf("fit %s classifier: %w", p.ModelType, err)
	}

	p.Trained = true
	return split, nil
}

// PredictProba returns the positive-class probability for each feature
// record, running it through the frozen transform and the fitted
// classifier.
func (p *Pipeline) PredictProba(feats []domain.FeatureRecord) ([]float64, error) {
	if !p.Trained {
		return nil, ErrNotTrained
	}

	X, err := p.Transformer.Transform(feats)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	return p.Classifier.PredictProba(X)
}

// Predict thresholds PredictProba at Config.Threshold.
func (p *Pipeline) Predict(feats []domain.FeatureRecord) ([]int, error) {
	probs, err := p.PredictProba(feats)
	if err != nil {
		return nil, err
	}

	preds := make([]int, len(probs))
	for i, prob := range probs {
		if prob >= p.Config.Threshold {
			preds[i] = 1
		}
	}
	return preds, nil
}

// Evaluate computes the evaluation report on a labeled partition.
// Pure reporting: no side effects on the pipeline.
func (p *Pipeline) Evaluate(testFeats []domain.FeatureRecord, testLabels []int) (*domain.EvaluationReport, error) {
	if !p.Trained {
		return nil, ErrNotTrained
	}

	probs, err := p.PredictProba(testFeats)
	if err != nil {
		return nil, err
	}
	preds := make([]int, len(probs))
	for i, prob := range probs {
		if prob >= p.Config.Threshold {
			preds[i] = 1
		}
	}

	return metrics.Compute(testLabels, preds, probs, p.ModelType, p.Config.Threshold)
}

// Explain derives additive per-prediction feature attributions over the
// post-transform matrix, aggregated to mean |contribution| per feature.
// The post-encoding feature names come from the fitted transform, since
// the one-hot names are not known until fit time.
func (p *Pipeline) Explain(sample []domain.FeatureRecord) (*domain.Explanation, error) {
	if !p.Trained {
		return nil, ErrNotTrained
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("cannot explain an empty sample")
	}

	names, err := p.Transformer.OutputFeatureNames()
	if err != nil {
		return nil, fmt.Errorf("output feature names: %w", err)
	}

	X, err := p.Transformer.Transform(sample)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	meanAbs := make([]float64, len(names))
	baseSum := 0.0
	for _, x := range X {
		base, contrib, err := p.Classifier.Contributions(x)
		if err != nil {
			return nil, err
		}
		baseSum += base
		for j, c := range contrib {
			meanAbs[j] += math.Abs(c)
		}
	}

	n := float64(len(X))
	for j := range meanAbs {
		meanAbs[j] /= n
	}

	return &domain.Explanation{
		ModelType:           p.ModelType,
		FeatureNames:        names,
		BaseValue:           baseSum / n,
		MeanAbsContribution: meanAbs,
		Samples:             len(X),
	}, nil
}
