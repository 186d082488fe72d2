package pipeline

import (
	"fmt"

	"golang.org/x/exp/rand"

	"fraudlab/internal/domain"
)

// Split holds the stratified train/test partitions.
type Split struct {
	TrainFeatures []domain.FeatureRecord
	TrainLabels   []int
	TestFeatures  []domain.FeatureRecord
	TestLabels    []int
}

// StratifiedSplit partitions features/labels into train and test so the
// class ratio is preserved in both partitions. The label is imbalanced
// (~5% positive with default generator settings); a plain random split
// risks an empty-minority test fold.
//
// Deterministic for a fixed seed.
func StratifiedSplit(feats []domain.FeatureRecord, labels []int, testSize float64, seed int64) (*Split, error) {
	if len(feats) != len(labels) {
		return nil, fmt.Errorf("feature/label length mismatch: %d vs %d", len(feats), len(labels))
	}
	if len(feats) == 0 {
		return nil, fmt.Errorf("cannot split empty dataset")
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("test size %v outside (0,1)", testSize)
	}

	// Group row indices by class.
	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	rng := rand.New(rand.NewSource(uint64(seed)))
	split := &Split{}

	// Iterate classes in fixed order for determinism.
	for _, class := range []int{0, 1} {
		indices, ok := byClass[class]
		if !ok {
			continue
		}

		rng.Shuffle(len(indices), func(a, b int) {
			indices[a], indices[b] = indices[b], indices[a]
		})

		nTest := int(float64(len(indices))*testSize + 0.5)
		if nTest == 0 && len(indices) > 1 {
			nTest = 1 // never leave a present class out of the test fold
		}

		for k, i := range indices {
			if k < nTest {
				split.TestFeatures = append(split.TestFeatures, feats[i])
				split.TestLabels = append(split.TestLabels, labels[i])
			} else {
				split.TrainFeatures = append(split.TrainFeatures, feats[i])
				split.TrainLabels = append(split.TrainLabels, labels[i])
			}
		}
	}

	if len(split.TrainFeatures) == 0 || len(split.TestFeatures) == 0 {
		return nil, fmt.Errorf("split produced an empty partition (%d train, %d test)",
			len(split.TrainFeatures), len(split.TestFeatures))
	}

	return split, nil
}
