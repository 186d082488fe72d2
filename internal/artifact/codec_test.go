package artifact

import (
	"errors"
	"reflect"
	"testing"

	"fraudlab/internal/domain"
	"fraudlab/internal/pipeline"
	"fraudlab/internal/synth"
)

func trainedPipeline(t *testing.T, modelType string) (*pipeline.Pipeline, *pipeline.Split) {
	t.Helper()

	cfg := synth.DefaultConfig()
	cfg.NSamples = 600
	cfg.FraudRatio = 0.2
	claims := synth.Generate(cfg)

	pcfg := pipeline.DefaultConfig()
	modelCfg := domain.DefaultModelConfig(modelType, pcfg.Seed)
	modelCfg.NEstimators = 15
	pcfg.Model = &modelCfg

	p, err := pipeline.New(modelType, pcfg)
	if err != nil {
		t.Fatalf("New(%s): %v", modelType, err)
	}
	split, err := p.Train(claims)
	if err != nil {
		t.Fatalf("Train(%s): %v", modelType, err)
	}
	return p, split
}

func TestEncodeDecode_RoundTripPredictions(t *testing.T) {
	for _, mt := range []string{domain.ModelTypeRandomForest, domain.ModelTypeXGBoost} {
		p, split := trainedPipeline(t, mt)

		a, err := Encode(p)
		if err != nil {
			t.Fatalf("Encode(%s): %v", mt, err)
		}
		if a.Name != "fraud_model_"+mt {
			t.Errorf("artifact name: got %s", a.Name)
		}
		if a.ModelType != mt || a.Checksum == "" || a.CreatedAtMs == 0 {
			t.Errorf("artifact metadata incomplete: %+v", a)
		}

		restored, err := Decode(a)
		if err != nil {
			t.Fatalf("Decode(%s): %v", mt, err)
		}

		// The decoded pipeline must reproduce the original's output
		// exactly on the same inputs.
		want, err := p.PredictProba(split.TestFeatures)
		if err != nil {
			t.Fatalf("original PredictProba: %v", err)
		}
		got, err := restored.PredictProba(split.TestFeatures)
		if err != nil {
			t.Fatalf("restored PredictProba: %v", err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Errorf("%s: decoded pipeline diverges from original", mt)
		}
	}
}

func TestEncode_RejectsUntrained(t *testing.T) {
	p, err := pipeline.New(domain.ModelTypeRandomForest, pipeline.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := Encode(p); !errors.Is(err, ErrNotTrained) {
		t.Errorf("expected ErrNotTrained, got %v", err)
	}
	if _, err := Encode(nil); !errors.Is(err, ErrNotTrained) {
		t.Errorf("nil pipeline: expected ErrNotTrained, got %v", err)
	}
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	p, _ := trainedPipeline(t, domain.ModelTypeXGBoost)

	a, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	a.Blob[len(a.Blob)/2] ^= 0xFF
	if _, err := Decode(a); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestDecode_EmptyArtifact(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("expected error for nil artifact")
	}
	if _, err := Decode(&domain.Artifact{}); err == nil {
		t.Error("expected error for empty blob")
	}
}
