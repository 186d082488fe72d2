// Package decision implements the model deployment gate: a trained model's
// evaluation report is checked against quality floors, and only a GO
// result should let the artifact reach the serving store.
package decision

import (
	"fmt"
	"math"

	"fraudlab/internal/domain"
)

// Evaluator evaluates gate criteria.
type Evaluator struct {
	thresholds Thresholds
}

// NewEvaluator creates a gate evaluator with the given thresholds.
func NewEvaluator(thresholds Thresholds) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// Evaluate produces a GateResult from an evaluation report.
// GO only if ALL criteria pass.
func (e *Evaluator) Evaluate(report *domain.EvaluationReport) *GateResult {
	criteria := e.evaluateCriteria(report)

	decision := DecisionGO
	for _, c := range criteria {
		if !c.Pass {
			decision = DecisionNOGO
			break
		}
	}

	return &GateResult{
		ModelType: report.ModelType,
		Decision:  decision,
		Criteria:  criteria,
	}
}

func (e *Evaluator) evaluateCriteria(report *domain.EvaluationReport) []CriterionResult {
	criteria := make([]CriterionResult, 4)
	fraud := report.Classes[1]

	aucActual := "undefined"
	if !math.IsNaN(report.ROCAUC) {
		aucActual = fmt.Sprintf("%.4f", report.ROCAUC)
	}
	criteria[0] = CriterionResult{
		Name:      "ROC AUC",
		Threshold: fmt.Sprintf(">= %.2f", e.thresholds.MinROCAUC),
		Actual:    aucActual,
		Pass:      !math.IsNaN(report.ROCAUC) && report.ROCAUC >= e.thresholds.MinROCAUC,
	}

	criteria[1] = CriterionResult{
		Name:      "Fraud recall",
		Threshold: fmt.Sprintf(">= %.2f", e.thresholds.MinFraudRecall),
		Actual:    fmt.Sprintf("%.4f", fraud.Recall),
		Pass:      fraud.Recall >= e.thresholds.MinFraudRecall,
	}

	criteria[2] = CriterionResult{
		Name:      "Fraud support",
		Threshold: fmt.Sprintf(">= %d", e.thresholds.MinFraudSupport),
		Actual:    fmt.Sprintf("%d", fraud.Support),
		Pass:      fraud.Support >= e.thresholds.MinFraudSupport,
	}

	criteria[3] = CriterionResult{
		Name:      "Accuracy",
		Threshold: fmt.Sprintf(">= %.2f", e.thresholds.MinAccuracy),
		Actual:    fmt.Sprintf("%.4f", report.Accuracy),
		Pass:      report.Accuracy >= e.thresholds.MinAccuracy,
	}

	return criteria
}
