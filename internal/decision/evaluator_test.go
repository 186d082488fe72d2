package decision

import (
	"math"
	"strings"
	"testing"

	"fraudlab/internal/domain"
)

func passingReport() *domain.EvaluationReport {
	report := &domain.EvaluationReport{
		ModelType:   domain.ModelTypeRandomForest,
		Threshold:   0.5,
		TestSamples: 2000,
		ROCAUC:      0.82,
		Accuracy:    0.95,
	}
	report.Classes[1] = domain.ClassMetrics{Label: 1, Precision: 0.6, Recall: 0.3, F1: 0.4, Support: 100}
	report.Classes[0] = domain.ClassMetrics{Label: 0, Precision: 0.96, Recall: 0.98, F1: 0.97, Support: 1900}
	return report
}

func TestEvaluate_AllCriteriaPassIsGO(t *testing.T) {
	result := NewEvaluator(DefaultThresholds()).Evaluate(passingReport())

	if result.Decision != DecisionGO {
		t.Fatalf("decision: got %s, want GO (criteria: %+v)", result.Decision, result.Criteria)
	}
	if len(result.Criteria) != 4 {
		t.Errorf("criteria count: got %d, want 4", len(result.Criteria))
	}
	for _, c := range result.Criteria {
		if !c.Pass {
			t.Errorf("criterion %q failed on a passing report: actual %s", c.Name, c.Actual)
		}
	}
}

func TestEvaluate_AnyFailureIsNOGO(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.EvaluationReport)
	}{
		{"low AUC", func(r *domain.EvaluationReport) { r.ROCAUC = 0.55 }},
		{"undefined AUC", func(r *domain.EvaluationReport) { r.ROCAUC = math.NaN() }},
		{"zero fraud recall", func(r *domain.EvaluationReport) { r.Classes[1].Recall = 0 }},
		{"thin fraud support", func(r *domain.EvaluationReport) { r.Classes[1].Support = 5 }},
		{"low accuracy", func(r *domain.EvaluationReport) { r.Accuracy = 0.5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := passingReport()
			tc.mutate(report)

			result := NewEvaluator(DefaultThresholds()).Evaluate(report)
			if result.Decision != DecisionNOGO {
				t.Errorf("decision: got %s, want NO-GO", result.Decision)
			}
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	result := NewEvaluator(DefaultThresholds()).Evaluate(passingReport())
	md := RenderMarkdown(result)

	for _, want := range []string{"## Decision: GO", "ROC AUC", "Fraud recall", "4/4 passed", "random_forest"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	report := passingReport()
	report.ROCAUC = 0.1
	md = RenderMarkdown(NewEvaluator(DefaultThresholds()).Evaluate(report))
	if !strings.Contains(md, "NO-GO due to") {
		t.Error("markdown missing NO-GO summary")
	}
}
