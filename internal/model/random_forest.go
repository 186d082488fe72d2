package model

import (
	"math"

	"golang.org/x/exp/rand"

	"fraudlab/internal/domain"
)

// RandomForest is a bagged ensemble of CART trees with balanced class
// weighting: each sample is weighted inversely proportional to its class
// frequency, compensating for the rare positive class.
type RandomForest struct {
	Config    domain.ModelConfig
	Trees     []*Tree
	NFeatures int
	Fitted    bool
}

// NewRandomForest creates an unfitted random forest.
func NewRandomForest(cfg domain.ModelConfig) *RandomForest {
	return &RandomForest{Config: cfg}
}

// Name returns the model type tag.
func (f *RandomForest) Name() string {
	return domain.ModelTypeRandomForest
}

// Fit trains Config.NEstimators trees on bootstrap samples with sqrt(p)
// feature subsampling. Deterministic for a fixed Config.Seed.
func (f *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}

	n := len(X)
	nFeatures := len(X[0])
	rng := rand.New(rand.NewSource(uint64(f.Config.Seed)))

	// Balanced class weights: n / (n_classes * class_count).
	classWeight := balancedClassWeights(y)

	params := treeParams{
		maxDepth:        f.Config.MaxDepth,
		minSamplesSplit: f.Config.MinSamplesSplit,
		maxFeatures:     sqrtFeatures(nFeatures),
	}

	f.Trees = make([]*Tree, f.Config.NEstimators)
	for t := 0; t < f.Config.NEstimators; t++ {
		// Bootstrap sample of n rows with replacement.
		Xb := make([][]float64, n)
		g := make([]float64, n)
		h := make([]float64, n)
		for i := 0; i < n; i++ {
			idx := rng.Intn(n)
			w := classWeight[y[idx]]
			Xb[i] = X[idx]
			g[i] = w * float64(y[idx])
			h[i] = w
		}
		f.Trees[t] = fitTree(Xb, g, h, params, rng)
	}

	f.NFeatures = nFeatures
	f.Fitted = true
	return nil
}

// PredictProba averages the per-tree positive-class fractions.
func (f *RandomForest) PredictProba(X [][]float64) ([]float64, error) {
	if !f.Fitted {
		return nil, ErrNotFitted
	}

	probs := make([]float64, len(X))
	for i, x := range X {
		sum := 0.0
		for _, t := range f.Trees {
			sum += t.Predict(x)
		}
		probs[i] = clampProb(sum / float64(len(f.Trees)))
	}
	return probs, nil
}

// FeatureImportances returns normalized split gains summed across trees.
func (f *RandomForest) FeatureImportances() ([]float64, error) {
	if !f.Fitted {
		return nil, ErrNotFitted
	}
	return normalizedGains(f.Trees, f.NFeatures), nil
}

// Contributions averages the per-tree path attributions. Base plus the
// summed contributions equals the predicted probability.
func (f *RandomForest) Contributions(x []float64) (float64, []float64, error) {
	if !f.Fitted {
		return 0, nil, ErrNotFitted
	}

	contrib := make([]float64, f.NFeatures)
	tmp := make([]float64, f.NFeatures)
	base := 0.0
	for _, t := range f.Trees {
		for j := range tmp {
			tmp[j] = 0
		}
		base += t.Contributions(x, tmp)
		for j := range tmp {
			contrib[j] += tmp[j]
		}
	}

	nTrees := float64(len(f.Trees))
	base /= nTrees
	for j := range contrib {
		contrib[j] /= nTrees
	}
	return base, contrib, nil
}

// balancedClassWeights computes n / (n_classes * count_c) per class.
func balancedClassWeights(y []int) [2]float64 {
	counts := [2]int{}
	for _, label := range y {
		counts[label]++
	}

	var weights [2]float64
	n := float64(len(y))
	for c := 0; c < 2; c++ {
		if counts[c] > 0 {
			weights[c] = n / (2 * float64(counts[c]))
		}
	}
	return weights
}

// sqrtFeatures returns floor(sqrt(p)), at least 1.
func sqrtFeatures(p int) int {
	m := int(math.Sqrt(float64(p)))
	if m < 1 {
		m = 1
	}
	return m
}

// normalizedGains sums per-tree split gains and normalizes them to 1.
func normalizedGains(trees []*Tree, nFeatures int) []float64 {
	total := make([]float64, nFeatures)
	sum := 0.0
	for _, t := range trees {
		for j, g := range t.Gains {
			total[j] += g
			sum += g
		}
	}
	if sum > 0 {
		for j := range total {
			total[j] /= sum
		}
	}
	return total
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Compile-time interface check.
var _ Classifier = (*RandomForest)(nil)
