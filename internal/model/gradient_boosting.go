package model

import (
	"math"

	"golang.org/x/exp/rand"

	"fraudlab/internal/domain"
)

// GradientBoosting is a boosted ensemble of shallow CART trees minimizing
// log-loss. Each round fits a tree to the gradient of the loss and takes a
// Newton step per leaf, scaled by the learning rate.
type GradientBoosting struct {
	Config         domain.ModelConfig
	BasePrediction float64 // initial log-odds
	Trees          []*Tree
	NFeatures      int
	Fitted         bool
}

// NewGradientBoosting creates an unfitted boosted ensemble.
func NewGradientBoosting(cfg domain.ModelConfig) *GradientBoosting {
	return &GradientBoosting{Config: cfg}
}

// Name returns the model type tag.
func (gb *GradientBoosting) Name() string {
	return domain.ModelTypeXGBoost
}

// Fit runs Config.NEstimators boosting rounds. Deterministic for a fixed
// Config.Seed.
func (gb *GradientBoosting) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}

	n := len(X)
	rng := rand.New(rand.NewSource(uint64(gb.Config.Seed)))
	lr := *gb.Config.LearningRate

	// Initial prediction: log-odds of the base rate, clamped so a
	// single-class training set does not produce infinite odds.
	pos := 0
	for _, label := range y {
		pos += label
	}
	baseRate := clampRate(float64(pos) / float64(n))
	gb.BasePrediction = math.Log(baseRate / (1 - baseRate))

	params := treeParams{
		maxDepth:        gb.Config.MaxDepth,
		minSamplesSplit: gb.Config.MinSamplesSplit,
	}

	F := make([]float64, n)
	for i := range F {
		F[i] = gb.BasePrediction
	}

	g := make([]float64, n)
	h := make([]float64, n)
	gb.Trees = make([]*Tree, gb.Config.NEstimators)
	for round := 0; round < gb.Config.NEstimators; round++ {
		for i := 0; i < n; i++ {
			p := sigmoid(F[i])
			g[i] = float64(y[i]) - p
			h[i] = p * (1 - p)
		}

		tree := fitTree(X, g, h, params, rng)
		gb.Trees[round] = tree

		for i := 0; i < n; i++ {
			F[i] += lr * tree.Predict(X[i])
		}
	}

	gb.NFeatures = len(X[0])
	gb.Fitted = true
	return nil
}

// PredictProba returns sigmoid of the accumulated log-odds.
func (gb *GradientBoosting) PredictProba(X [][]float64) ([]float64, error) {
	if !gb.Fitted {
		return nil, ErrNotFitted
	}

	lr := *gb.Config.LearningRate
	probs := make([]float64, len(X))
	for i, x := range X {
		score := gb.BasePrediction
		for _, t := range gb.Trees {
			score += lr * t.Predict(x)
		}
		probs[i] = sigmoid(score)
	}
	return probs, nil
}

// FeatureImportances returns normalized split gains summed across rounds.
func (gb *GradientBoosting) FeatureImportances() ([]float64, error) {
	if !gb.Fitted {
		return nil, ErrNotFitted
	}
	return normalizedGains(gb.Trees, gb.NFeatures), nil
}

// Contributions decomposes the log-odds output: base plus the summed
// contributions equals the raw score whose sigmoid is the probability.
func (gb *GradientBoosting) Contributions(x []float64) (float64, []float64, error) {
	if !gb.Fitted {
		return 0, nil, ErrNotFitted
	}

	lr := *gb.Config.LearningRate
	contrib := make([]float64, gb.NFeatures)
	tmp := make([]float64, gb.NFeatures)
	base := gb.BasePrediction
	for _, t := range gb.Trees {
		for j := range tmp {
			tmp[j] = 0
		}
		base += lr * t.Contributions(x, tmp)
		for j := range tmp {
			contrib[j] += lr * tmp[j]
		}
	}
	return base, contrib, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// clampRate keeps a class rate strictly inside (0,1).
func clampRate(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}

// Compile-time interface check.
var _ Classifier = (*GradientBoosting)(nil)
