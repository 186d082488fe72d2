package domain

// ClassMetrics holds precision/recall/F1 for one class of the test partition.
type ClassMetrics struct {
	Label     int // 0 = legitimate, 1 = fraud
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ConfusionMatrix is the 2x2 confusion matrix at the decision threshold.
type ConfusionMatrix struct {
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
	TruePositives  int
}

// EvaluationReport represents the full evaluation of a trained pipeline on
// the held-out test partition. Pure data; computing it has no side effects
// on the pipeline.
type EvaluationReport struct {
	ModelType   string
	Threshold   float64
	TestSamples int

	Classes   [2]ClassMetrics // indexed by label
	Confusion ConfusionMatrix
	ROCAUC    float64
	Accuracy  float64
}

// Explanation represents additive per-prediction feature attributions
// aggregated over a sample of the training partition.
type Explanation struct {
	ModelType    string
	FeatureNames []string // post-encoding names, from the fitted transform
	BaseValue    float64  // model output with no feature contributions

	// MeanAbsContribution[i] is the mean absolute additive contribution of
	// FeatureNames[i] across the explained sample, in model output units.
	MeanAbsContribution []float64

	Samples int
}
