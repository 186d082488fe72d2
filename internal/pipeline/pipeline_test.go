package pipeline

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"fraudlab/internal/domain"
	"fraudlab/internal/features"
	"fraudlab/internal/synth"
)

func generateClaims(t *testing.T, n int) []domain.ClaimRecord {
	t.Helper()

	cfg := synth.DefaultConfig()
	cfg.NSamples = n
	cfg.FraudRatio = 0.2 // enough positives for a stable small-sample test

	return synth.Generate(cfg)
}

func TestNew_UnknownModelTypeFailsFast(t *testing.T) {
	if _, err := New("svm", DefaultConfig()); err == nil {
		t.Error("expected error for unknown model type")
	}
}

func TestNew_NormalizesModelType(t *testing.T) {
	p, err := New("Random Forest", DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.ModelType != domain.ModelTypeRandomForest {
		t.Errorf("ModelType: got %s, want %s", p.ModelType, domain.ModelTypeRandomForest)
	}
}

func TestStratifiedSplit_PreservesClassRatio(t *testing.T) {
	claims := generateClaims(t, 1000)
	feats := features.EngineerBatch(claims)
	labels := features.Labels(claims)

	split, err := StratifiedSplit(feats, labels, 0.2, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit failed: %v", err)
	}

	if got := len(split.TrainFeatures) + len(split.TestFeatures); got != len(feats) {
		t.Fatalf("partition sizes: %d train + %d test != %d total",
			len(split.TrainFeatures), len(split.TestFeatures), len(feats))
	}

	ratio := func(labels []int) float64 {
		pos := 0
		for _, l := range labels {
			pos += l
		}
		return float64(pos) / float64(len(labels))
	}

	overall := ratio(labels)
	if math.Abs(ratio(split.TrainLabels)-overall) > 0.02 {
		t.Errorf("train fraud ratio %v drifted from overall %v", ratio(split.TrainLabels), overall)
	}
	if math.Abs(ratio(split.TestLabels)-overall) > 0.02 {
		t.Errorf("test fraud ratio %v drifted from overall %v", ratio(split.TestLabels), overall)
	}
}

func TestStratifiedSplit_MinorityAlwaysInTestFold(t *testing.T) {
	// 50 rows, 2 positives: a 20% random split could easily miss both.
	feats := make([]domain.FeatureRecord, 50)
	labels := make([]int, 50)
	labels[3] = 1
	labels[17] = 1

	split, err := StratifiedSplit(feats, labels, 0.2, 1)
	if err != nil {
		t.Fatalf("StratifiedSplit failed: %v", err)
	}

	pos := 0
	for _, l := range split.TestLabels {
		pos += l
	}
	if pos == 0 {
		t.Error("minority class absent from test fold")
	}
}

func TestStratifiedSplit_DeterministicForSeed(t *testing.T) {
	claims := generateClaims(t, 300)
	feats := features.EngineerBatch(claims)
	labels := features.Labels(claims)

	a, err := StratifiedSplit(feats, labels, 0.25, 9)
	if err != nil {
		t.Fatalf("StratifiedSplit failed: %v", err)
	}
	b, err := StratifiedSplit(feats, labels, 0.25, 9)
	if err != nil {
		t.Fatalf("StratifiedSplit failed: %v", err)
	}

	if !reflect.DeepEqual(a.TestLabels, b.TestLabels) || !reflect.DeepEqual(a.TrainLabels, b.TrainLabels) {
		t.Error("identical seed produced different partitions")
	}
}

func TestStratifiedSplit_InvalidInputs(t *testing.T) {
	feats := make([]domain.FeatureRecord, 4)
	labels := []int{0, 0, 1, 1}

	if _, err := StratifiedSplit(feats, labels[:3], 0.2, 1); err == nil {
		t.Error("expected error for length mismatch")
	}
	if _, err := StratifiedSplit(nil, nil, 0.2, 1); err == nil {
		t.Error("expected error for empty dataset")
	}
	if _, err := StratifiedSplit(feats, labels, 0, 1); err == nil {
		t.Error("expected error for test size 0")
	}
	if _, err := StratifiedSplit(feats, labels, 1, 1); err == nil {
		t.Error("expected error for test size 1")
	}
}

func TestPipeline_GuardsBeforeTraining(t *testing.T) {
	p, err := New(domain.ModelTypeRandomForest, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	sample := []domain.FeatureRecord{{ClaimType: "Auto", CustomerTenure: 5}}

	if _, err := p.PredictProba(sample); !errors.Is(err, ErrNotTrained) {
		t.Errorf("PredictProba: expected ErrNotTrained, got %v", err)
	}
	if _, err := p.Predict(sample); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Predict: expected ErrNotTrained, got %v", err)
	}
	if _, err := p.Evaluate(sample, []int{0}); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Evaluate: expected ErrNotTrained, got %v", err)
	}
	if _, err := p.Explain(sample); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Explain: expected ErrNotTrained, got %v", err)
	}
}

func trainedPipeline(t *testing.T, modelType string) (*Pipeline, *Split) {
	t.Helper()

	cfg := DefaultConfig()
	// Small ensemble keeps the test fast without losing the signal.
	modelCfg := domain.DefaultModelConfig(modelType, cfg.Seed)
	modelCfg.NEstimators = 20
	cfg.Model = &modelCfg

	p, err := New(modelType, cfg)
	if err != nil {
		t.Fatalf("New(%s): %v", modelType, err)
	}

	split, err := p.Train(generateClaims(t, 800))
	if err != nil {
		t.Fatalf("Train(%s): %v", modelType, err)
	}
	return p, split
}

func TestPipeline_TrainEvaluateBothModels(t *testing.T) {
	for _, mt := range []string{domain.ModelTypeRandomForest, domain.ModelTypeXGBoost} {
		p, split := trainedPipeline(t, mt)

		report, err := p.Evaluate(split.TestFeatures, split.TestLabels)
		if err != nil {
			t.Fatalf("Evaluate(%s): %v", mt, err)
		}

		if report.ModelType != mt {
			t.Errorf("report model type: got %s, want %s", report.ModelType, mt)
		}
		if report.TestSamples != len(split.TestLabels) {
			t.Errorf("report samples: got %d, want %d", report.TestSamples, len(split.TestLabels))
		}
		if report.Threshold != 0.5 {
			t.Errorf("report threshold: got %v, want 0.5", report.Threshold)
		}
		// The synthetic classes overlap but are separable well above chance.
		if !math.IsNaN(report.ROCAUC) && report.ROCAUC < 0.55 {
			t.Errorf("%s: ROC AUC %v barely above chance", mt, report.ROCAUC)
		}
	}
}

func TestPipeline_PredictConsistentWithThreshold(t *testing.T) {
	p, split := trainedPipeline(t, domain.ModelTypeRandomForest)

	probs, err := p.PredictProba(split.TestFeatures)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	preds, err := p.Predict(split.TestFeatures)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	for i := range preds {
		want := 0
		if probs[i] >= p.Config.Threshold {
			want = 1
		}
		if preds[i] != want {
			t.Fatalf("row %d: prediction %d inconsistent with probability %v at threshold %v",
				i, preds[i], probs[i], p.Config.Threshold)
		}
	}
}

func TestPipeline_DeterministicForSeed(t *testing.T) {
	claims := generateClaims(t, 600)

	probs := make([][]float64, 2)
	for run := 0; run < 2; run++ {
		p, err := New(domain.ModelTypeXGBoost, DefaultConfig())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		split, err := p.Train(claims)
		if err != nil {
			t.Fatalf("Train failed: %v", err)
		}
		probs[run], err = p.PredictProba(split.TestFeatures)
		if err != nil {
			t.Fatalf("PredictProba failed: %v", err)
		}
	}

	if !reflect.DeepEqual(probs[0], probs[1]) {
		t.Error("identical seed produced different probabilities")
	}
}

func TestPipeline_Explain(t *testing.T) {
	for _, mt := range []string{domain.ModelTypeRandomForest, domain.ModelTypeXGBoost} {
		p, split := trainedPipeline(t, mt)

		exp, err := p.Explain(split.TestFeatures[:10])
		if err != nil {
			t.Fatalf("Explain(%s): %v", mt, err)
		}

		if exp.ModelType != mt {
			t.Errorf("explanation model type: got %s, want %s", exp.ModelType, mt)
		}
		if exp.Samples != 10 {
			t.Errorf("explanation samples: got %d, want 10", exp.Samples)
		}
		if len(exp.FeatureNames) != len(exp.MeanAbsContribution) {
			t.Fatalf("%s: %d names vs %d contributions", mt, len(exp.FeatureNames), len(exp.MeanAbsContribution))
		}
		for i, c := range exp.MeanAbsContribution {
			if c < 0 {
				t.Errorf("%s: negative mean |contribution| %v for %s", mt, c, exp.FeatureNames[i])
			}
		}
	}

	p, _ := trainedPipeline(t, domain.ModelTypeRandomForest)
	if _, err := p.Explain(nil); err == nil {
		t.Error("expected error for empty explanation sample")
	}
}
