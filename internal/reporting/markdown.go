package reporting

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown renders the training report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Training Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Dataset\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Claims | %d |\n", r.Data.TotalClaims))
	sb.WriteString(fmt.Sprintf("| Fraud Claims | %d |\n", r.Data.FraudClaims))
	sb.WriteString(fmt.Sprintf("| Fraud Ratio | %.4f |\n", r.Data.FraudRatio))
	sb.WriteString(fmt.Sprintf("| Train Samples | %d |\n", r.Data.TrainSamples))
	sb.WriteString(fmt.Sprintf("| Test Samples | %d |\n", r.Data.TestSamples))
	sb.WriteString("\n")

	for _, m := range r.Models {
		renderModelSection(&sb, &m)
	}

	return sb.String()
}

func renderModelSection(sb *strings.Builder, m *ModelSection) {
	e := m.Evaluation
	sb.WriteString(fmt.Sprintf("## Model: %s\n\n", e.ModelType))
	sb.WriteString(fmt.Sprintf("Threshold: %.2f | Training time: %s\n\n", e.Threshold, m.TrainDuration.Round(time.Millisecond)))

	sb.WriteString("### Evaluation\n\n")
	sb.WriteString("| Class | Precision | Recall | F1 | Support |\n")
	sb.WriteString("|-------|-----------|--------|----|--------|\n")
	for _, c := range e.Classes {
		label := "legitimate"
		if c.Label == 1 {
			label = "fraud"
		}
		sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %d |\n",
			label, c.Precision, c.Recall, c.F1, c.Support))
	}
	sb.WriteString("\n")

	auc := "undefined"
	if !math.IsNaN(e.ROCAUC) {
		auc = fmt.Sprintf("%.4f", e.ROCAUC)
	}
	sb.WriteString(fmt.Sprintf("Accuracy: %.4f | ROC AUC: %s\n\n", e.Accuracy, auc))

	sb.WriteString("### Confusion Matrix\n\n")
	sb.WriteString("| | Predicted 0 | Predicted 1 |\n")
	sb.WriteString("|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Actual 0 | %d | %d |\n", e.Confusion.TrueNegatives, e.Confusion.FalsePositives))
	sb.WriteString(fmt.Sprintf("| Actual 1 | %d | %d |\n\n", e.Confusion.FalseNegatives, e.Confusion.TruePositives))

	if m.Gate != nil {
		sb.WriteString("### Quality Gate\n\n")
		sb.WriteString(fmt.Sprintf("Decision: **%s**\n\n", m.Gate.Decision))
		sb.WriteString("| Criterion | Threshold | Actual | Pass |\n")
		sb.WriteString("|-----------|-----------|--------|------|\n")
		for _, c := range m.Gate.Criteria {
			pass := "PASS"
			if !c.Pass {
				pass = "FAIL"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.Name, c.Threshold, c.Actual, pass))
		}
		sb.WriteString("\n")
	}

	if m.Explanation != nil {
		renderExplanation(sb, m)
	}
}

// renderExplanation lists features ranked by mean |contribution| on the
// test partition.
func renderExplanation(sb *strings.Builder, m *ModelSection) {
	exp := m.Explanation

	type ranked struct {
		name  string
		value float64
	}
	rows := make([]ranked, len(exp.FeatureNames))
	for i, name := range exp.FeatureNames {
		rows[i] = ranked{name, exp.MeanAbsContribution[i]}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].value > rows[j].value })

	sb.WriteString(fmt.Sprintf("### Feature Attributions (%d samples)\n\n", exp.Samples))
	sb.WriteString("| Feature | Mean \\|Contribution\\| |\n")
	sb.WriteString("|---------|----------------------|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %.6f |\n", row.name, row.value))
	}
	sb.WriteString("\n")
}
