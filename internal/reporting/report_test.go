package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fraudlab/internal/decision"
	"fraudlab/internal/domain"
)

func sampleReport() *Report {
	eval := &domain.EvaluationReport{
		ModelType:   domain.ModelTypeXGBoost,
		Threshold:   0.5,
		TestSamples: 2000,
		ROCAUC:      0.79,
		Accuracy:    0.943,
		Confusion:   domain.ConfusionMatrix{TrueNegatives: 1850, FalsePositives: 50, FalseNegatives: 64, TruePositives: 36},
	}
	eval.Classes[0] = domain.ClassMetrics{Label: 0, Precision: 0.966, Recall: 0.974, F1: 0.97, Support: 1900}
	eval.Classes[1] = domain.ClassMetrics{Label: 1, Precision: 0.419, Recall: 0.36, F1: 0.387, Support: 100}

	gate := decision.NewEvaluator(decision.DefaultThresholds()).Evaluate(eval)

	return &Report{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Data: DataSummary{
			TotalClaims:  10000,
			FraudClaims:  500,
			FraudRatio:   0.05,
			TrainSamples: 8000,
			TestSamples:  2000,
		},
		Models: []ModelSection{{
			Evaluation: eval,
			Gate:       gate,
			Explanation: &domain.Explanation{
				ModelType:           domain.ModelTypeXGBoost,
				FeatureNames:        []string{"claim_amount", "location_risk_score"},
				MeanAbsContribution: []float64{0.12, 0.31},
				Samples:             2000,
			},
			TrainDuration: 3 * time.Second,
		}},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleReport())

	for _, want := range []string{
		"# Training Report",
		"| Total Claims | 10000 |",
		"| Fraud Ratio | 0.0500 |",
		"## Model: xgboost",
		"| fraud | 0.4190 | 0.3600 | 0.3870 | 100 |",
		"Accuracy: 0.9430 | ROC AUC: 0.7900",
		"| Actual 1 | 64 | 36 |",
		"Decision: **GO**",
		"### Feature Attributions (2000 samples)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Attributions sorted descending: risk score before amount.
	if strings.Index(md, "location_risk_score") > strings.Index(md, "| claim_amount") {
		t.Error("feature attributions not sorted by magnitude")
	}
}

func TestRenderCSV(t *testing.T) {
	csv := RenderCSV(sampleReport().Models)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("CSV lines: got %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "model_type,threshold,test_samples") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "xgboost,0.50,2000,0.943000,0.790000") {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if wantCols, gotCols := strings.Count(lines[0], ","), strings.Count(lines[1], ","); wantCols != gotCols {
		t.Errorf("column count mismatch: header %d, row %d", wantCols, gotCols)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	if err := WriteFiles(dir, sampleReport()); err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}

	md, err := os.ReadFile(filepath.Join(dir, MarkdownFilename))
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if !strings.Contains(string(md), "# Training Report") {
		t.Error("markdown file missing header")
	}

	csv, err := os.ReadFile(filepath.Join(dir, CSVFilename))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.Contains(string(csv), "xgboost") {
		t.Error("csv file missing model row")
	}
}
