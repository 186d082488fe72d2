package decision

// Decision represents the final deployment gate result.
type Decision string

const (
	DecisionGO   Decision = "GO"
	DecisionNOGO Decision = "NO-GO"
)

// Thresholds are the quality floors a trained model must clear before its
// artifact is considered deployable.
type Thresholds struct {
	// MinROCAUC is the floor on test-set ROC AUC. An undefined AUC
	// (single-class test fold) always fails.
	MinROCAUC float64

	// MinFraudRecall is the floor on fraud-class recall. Missed fraud is
	// the expensive error here.
	MinFraudRecall float64

	// MinFraudSupport is the minimum number of fraud rows in the test
	// fold. Below this the fraud-class metrics are too noisy to gate on.
	MinFraudSupport int

	// MinAccuracy is the floor on overall accuracy.
	MinAccuracy float64
}

// DefaultThresholds returns the standard gate configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinROCAUC:       0.60,
		MinFraudRecall:  0.05,
		MinFraudSupport: 20,
		MinAccuracy:     0.70,
	}
}

// CriterionResult represents pass/fail for one criterion.
type CriterionResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// GateResult contains the final decision with the criterion checklist.
type GateResult struct {
	ModelType string
	Decision  Decision
	Criteria  []CriterionResult
}
