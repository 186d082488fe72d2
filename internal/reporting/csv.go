package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders per-model evaluation metrics as a CSV string, one
// row per model.
func RenderCSV(models []ModelSection) string {
	var sb strings.Builder

	sb.WriteString("model_type,threshold,test_samples,accuracy,roc_auc,")
	sb.WriteString("precision_legit,recall_legit,f1_legit,support_legit,")
	sb.WriteString("precision_fraud,recall_fraud,f1_fraud,support_fraud,")
	sb.WriteString("tn,fp,fn,tp\n")

	for _, m := range models {
		e := m.Evaluation
		legit, fraud := e.Classes[0], e.Classes[1]
		sb.WriteString(fmt.Sprintf("%s,%.2f,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%.6f,%.6f,%.6f,%d,%d,%d,%d,%d\n",
			e.ModelType,
			e.Threshold,
			e.TestSamples,
			e.Accuracy,
			e.ROCAUC,
			legit.Precision, legit.Recall, legit.F1, legit.Support,
			fraud.Precision, fraud.Recall, fraud.F1, fraud.Support,
			e.Confusion.TrueNegatives, e.Confusion.FalsePositives,
			e.Confusion.FalseNegatives, e.Confusion.TruePositives,
		))
	}

	return sb.String()
}
