// Package artifact serializes trained pipelines to and from opaque
// artifact blobs. The blob is a gob stream of the whole pipeline, so the
// frozen preprocessing statistics travel with the fitted ensemble and
// serving can never mix transform and model from different runs.
package artifact

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"fraudlab/internal/domain"
	"fraudlab/internal/idhash"
	"fraudlab/internal/model"
	"fraudlab/internal/pipeline"
)

var (
	// ErrNotTrained is returned when encoding a pipeline that has not
	// been trained.
	ErrNotTrained = errors.New("cannot encode untrained pipeline")

	// ErrChecksumMismatch is returned when a blob fails its integrity
	// check against the stored checksum.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)

// Concrete classifier types behind the model.Classifier interface field.
func init() {
	gob.Register(&model.RandomForest{})
	gob.Register(&model.GradientBoosting{})
}

// Encode serializes a trained pipeline into a named, checksummed artifact.
func Encode(p *pipeline.Pipeline) (*domain.Artifact, error) {
	if p == nil || !p.Trained {
		return nil, ErrNotTrained
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return nil, fmt.Errorf("encode pipeline: %w", err)
	}
	blob := buf.Bytes()

	return &domain.Artifact{
		Name:        domain.ArtifactName(p.ModelType),
		ModelType:   p.ModelType,
		Checksum:    idhash.ArtifactChecksum(blob),
		Blob:        blob,
		CreatedAtMs: time.Now().UnixMilli(),
	}, nil
}

// Decode deserializes an artifact back into a servable pipeline,
// verifying the blob against its checksum first. An empty checksum skips
// verification; the filesystem store recomputes it on read, but foreign
// artifacts may not carry one.
func Decode(a *domain.Artifact) (*pipeline.Pipeline, error) {
	if a == nil || len(a.Blob) == 0 {
		return nil, errors.New("empty artifact")
	}
	if a.Checksum != "" && idhash.ArtifactChecksum(a.Blob) != a.Checksum {
		return nil, ErrChecksumMismatch
	}

	var p pipeline.Pipeline
	if err := gob.NewDecoder(bytes.NewReader(a.Blob)).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	if !p.Trained {
		return nil, fmt.Errorf("decoded pipeline is not trained")
	}

	return &p, nil
}
