// Package reporting assembles and renders the training run report:
// dataset summary, per-model evaluation metrics, quality gate results
// and feature attributions.
package reporting

import (
	"time"

	"fraudlab/internal/decision"
	"fraudlab/internal/domain"
)

// Report represents one training run over one or more model types.
type Report struct {
	GeneratedAt time.Time
	Data        DataSummary
	Models      []ModelSection
}

// DataSummary describes the dataset the run trained on.
type DataSummary struct {
	TotalClaims  int
	FraudClaims  int
	FraudRatio   float64
	TrainSamples int
	TestSamples  int
}

// ModelSection holds everything reported for one trained model.
type ModelSection struct {
	Evaluation    *domain.EvaluationReport
	Gate          *decision.GateResult
	Explanation   *domain.Explanation
	TrainDuration time.Duration
}
