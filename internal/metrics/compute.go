// Package metrics computes classification metrics for the held-out test
// partition: per-class precision/recall/F1, the confusion matrix, and the
// area under the ROC curve.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"fraudlab/internal/domain"
)

// Compute builds the evaluation report from true labels, thresholded
// predictions and predicted positive-class probabilities. Pure reporting:
// inputs are not modified.
func Compute(yTrue, yPred []int, proba []float64, modelType string, threshold float64) (*domain.EvaluationReport, error) {
	n := len(yTrue)
	if n == 0 {
		return nil, fmt.Errorf("cannot evaluate on empty test set")
	}
	if len(yPred) != n || len(proba) != n {
		return nil, fmt.Errorf("label/prediction length mismatch: %d true, %d pred, %d proba", n, len(yPred), len(proba))
	}

	cm := confusion(yTrue, yPred)

	report := &domain.EvaluationReport{
		ModelType:   modelType,
		Threshold:   threshold,
		TestSamples: n,
		Confusion:   cm,
		Accuracy:    float64(cm.TrueNegatives+cm.TruePositives) / float64(n),
		ROCAUC:      rocAUC(yTrue, proba),
	}

	// Class 0 (legitimate): "positive" means predicted 0.
	report.Classes[0] = classMetrics(0,
		cm.TrueNegatives,               // correctly predicted 0
		cm.FalseNegatives,              // predicted 0 but was 1
		cm.FalsePositives,              // was 0 but predicted 1
		cm.TrueNegatives+cm.FalsePositives)

	// Class 1 (fraud).
	report.Classes[1] = classMetrics(1,
		cm.TruePositives,
		cm.FalsePositives,
		cm.FalseNegatives,
		cm.TruePositives+cm.FalseNegatives)

	return report, nil
}

// confusion counts the 2x2 confusion matrix.
func confusion(yTrue, yPred []int) domain.ConfusionMatrix {
	var cm domain.ConfusionMatrix
	for i := range yTrue {
		switch {
		case yTrue[i] == 0 && yPred[i] == 0:
			cm.TrueNegatives++
		case yTrue[i] == 0 && yPred[i] == 1:
			cm.FalsePositives++
		case yTrue[i] == 1 && yPred[i] == 0:
			cm.FalseNegatives++
		default:
			cm.TruePositives++
		}
	}
	return cm
}

// classMetrics computes precision/recall/F1 for one class given its
// true-positive, false-positive and false-negative counts.
func classMetrics(label, tp, fp, fn, support int) domain.ClassMetrics {
	m := domain.ClassMetrics{Label: label, Support: support}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// rocAUC computes the area under the ROC curve on probabilities.
// Returns NaN when the test partition contains a single class, where the
// curve is undefined.
func rocAUC(yTrue []int, proba []float64) float64 {
	pos := 0
	for _, label := range yTrue {
		pos += label
	}
	if pos == 0 || pos == len(yTrue) {
		return math.NaN()
	}

	// stat.ROC requires scores sorted ascending with classes aligned.
	type pair struct {
		score float64
		pos   bool
	}
	pairs := make([]pair, len(yTrue))
	for i := range yTrue {
		pairs[i] = pair{score: proba[i], pos: yTrue[i] == 1}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })

	scores := make([]float64, len(pairs))
	classes := make([]bool, len(pairs))
	for i, p := range pairs {
		scores[i] = p.score
		classes[i] = p.pos
	}

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}
