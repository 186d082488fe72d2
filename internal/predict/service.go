// Package predict implements the serving path: load the requested model
// artifact, engineer features for the submitted claim, and score it.
//
// Artifacts are loaded from the store on every request rather than
// cached, so a retrain is picked up by the very next prediction.
package predict

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"fraudlab/internal/artifact"
	"fraudlab/internal/domain"
	"fraudlab/internal/features"
	"fraudlab/internal/idhash"
	"fraudlab/internal/observability"
	"fraudlab/internal/pipeline"
	"fraudlab/internal/storage"
)

// ErrModelNotFound is returned when no artifact exists for the requested
// model type.
var ErrModelNotFound = errors.New("model artifact not found")

// Request is a claim submitted for scoring plus the model selector.
type Request struct {
	ModelType           string
	ClaimAmount         float64
	DaysToSubmit        int
	PreviousClaimsCount int
	CustomerTenure      float64
	LocationRiskScore   float64
	ClaimType           string
}

// Service scores claims against stored model artifacts.
type Service struct {
	artifacts     storage.ArtifactStore
	predictionLog storage.PredictionLogStore // nil disables audit logging
	logger        *log.Logger
}

// NewService creates a prediction service. predictionLog may be nil, in
// which case served predictions are not recorded.
func NewService(artifacts storage.ArtifactStore, predictionLog storage.PredictionLogStore) *Service {
	return &Service{
		artifacts:     artifacts,
		predictionLog: predictionLog,
		logger:        log.New(os.Stdout, "[predict] ", log.LstdFlags|log.Lshortfile),
	}
}

// Predict scores one claim with the requested model type.
// Returns ErrModelNotFound when that model has not been trained yet.
func (s *Service) Predict(ctx context.Context, req Request) (*domain.PredictionResult, error) {
	start := time.Now()
	modelType := domain.NormalizeModelType(req.ModelType)

	p, err := s.loadPipeline(ctx, modelType)
	if err != nil {
		return nil, err
	}

	claim := domain.ClaimRecord{
		ClaimAmount:         req.ClaimAmount,
		DaysToSubmit:        req.DaysToSubmit,
		PreviousClaimsCount: req.PreviousClaimsCount,
		CustomerTenure:      req.CustomerTenure,
		LocationRiskScore:   req.LocationRiskScore,
		ClaimType:           req.ClaimType,
	}
	feat := features.Engineer(claim)

	probs, err := p.PredictProba([]domain.FeatureRecord{feat})
	if err != nil {
		return nil, fmt.Errorf("score claim: %w", err)
	}

	prediction := 0
	if probs[0] >= p.Config.Threshold {
		prediction = 1
	}
	probability := round3(probs[0])

	observability.RecordPrediction(modelType, prediction, probability, time.Since(start).Seconds())

	result := &domain.PredictionResult{
		Prediction:       prediction,
		FraudProbability: probability,
	}

	s.logPrediction(ctx, modelType, req, result)
	return result, nil
}

// loadPipeline fetches and decodes the artifact for one model type.
func (s *Service) loadPipeline(ctx context.Context, modelType string) (*pipeline.Pipeline, error) {
	name := domain.ArtifactName(modelType)

	a, err := s.artifacts.Get(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
		observability.RecordArtifactLoadError(modelType)
		return nil, fmt.Errorf("load artifact %s: %w", name, err)
	}

	p, err := artifact.Decode(a)
	if err != nil {
		observability.RecordArtifactLoadError(modelType)
		return nil, fmt.Errorf("decode artifact %s: %w", name, err)
	}

	return p, nil
}

// logPrediction appends the served prediction to the audit log. Failures
// are logged but never surface to the caller: the prediction already
// happened.
func (s *Service) logPrediction(ctx context.Context, modelType string, req Request, result *domain.PredictionResult) {
	if s.predictionLog == nil {
		return
	}

	record := &domain.PredictionRecord{
		ModelType:           modelType,
		ClaimAmount:         req.ClaimAmount,
		DaysToSubmit:        req.DaysToSubmit,
		PreviousClaimsCount: req.PreviousClaimsCount,
		CustomerTenure:      req.CustomerTenure,
		LocationRiskScore:   req.LocationRiskScore,
		ClaimType:           req.ClaimType,
		Probability:         result.FraudProbability,
		Prediction:          result.Prediction,
		CreatedAtMs:         time.Now().UnixMilli(),
	}
	record.PredictionID = idhash.ComputePredictionID(record)

	if err := s.predictionLog.Insert(ctx, record); err != nil {
		s.logger.Printf("WARN: audit log insert failed for %s: %v", record.PredictionID, err)
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
