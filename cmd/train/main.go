// Package main runs the training pipeline end to end: load or generate a
// labeled dataset, train the requested classifiers, evaluate them against
// the quality gate, persist passing artifacts and write the training report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fraudlab/internal/artifact"
	"fraudlab/internal/decision"
	"fraudlab/internal/domain"
	"fraudlab/internal/observability"
	"fraudlab/internal/pipeline"
	"fraudlab/internal/reporting"
	"fraudlab/internal/storage"
	fsstore "fraudlab/internal/storage/fs"
	"fraudlab/internal/storage/migrations"
	pgstore "fraudlab/internal/storage/postgres"
	"fraudlab/internal/synth"
)

// GateReportFilename is the standalone quality-gate report.
const GateReportFilename = "DECISION_GATE.md"

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	dataset := flag.String("dataset", "", "Dataset CSV path (empty generates a synthetic dataset)")
	nSamples := flag.Int("n-samples", 10000, "Synthetic dataset size when generating")
	fraudRatio := flag.Float64("fraud-ratio", 0.05, "Synthetic fraud ratio when generating")
	seed := flag.Int64("seed", 42, "Seed for generation, splitting and model fitting")
	modelType := flag.String("model-type", "both", "Model to train: random_forest, xgboost or both")
	modelsDir := flag.String("models-dir", "models", "Directory for persisted model artifacts")
	outputDir := flag.String("output-dir", "output", "Output directory for reports")
	testSize := flag.Float64("test-size", 0.2, "Held-out test fraction in (0,1)")
	threshold := flag.Float64("threshold", 0.5, "Decision threshold on the fraud probability")
	enforceGate := flag.Bool("enforce-gate", false, "Refuse to persist artifacts that fail the quality gate")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (optional; stores artifacts in PostgreSQL instead of the filesystem)")

	flag.Parse()

	logger := log.New(os.Stdout, "[train] ", log.LstdFlags|log.Lshortfile)

	modelTypes, err := resolveModelTypes(*modelType)
	if err != nil {
		logger.Fatalf("Invalid --model-type: %v", err)
	}

	ctx := context.Background()

	// Artifact store
	store, cleanup, err := createArtifactStore(ctx, *modelsDir, *postgresDSN)
	if err != nil {
		logger.Fatalf("Failed to create artifact store: %v", err)
	}
	defer cleanup()

	// Dataset
	var claims []domain.ClaimRecord
	if *dataset != "" {
		claims, err = synth.ReadCSV(*dataset)
		if err != nil {
			logger.Fatalf("Failed to read dataset: %v", err)
		}
		logger.Printf("Loaded %d claims from %s", len(claims), *dataset)
	} else {
		cfg := synth.Config{NSamples: *nSamples, FraudRatio: *fraudRatio, Seed: uint64(*seed)}
		claims = synth.Generate(cfg)
		observability.DefaultMetrics.ClaimsGenerated.Add(float64(len(claims)))
		logger.Printf("Generated %d claims (fraud ratio %.3f, seed %d)", len(claims), *fraudRatio, *seed)
	}

	fraudClaims := 0
	for _, c := range claims {
		fraudClaims += c.IsFraud
	}

	report := &reporting.Report{
		GeneratedAt: time.Now().UTC(),
		Data: reporting.DataSummary{
			TotalClaims: len(claims),
			FraudClaims: fraudClaims,
			FraudRatio:  float64(fraudClaims) / float64(len(claims)),
		},
	}

	gateEval := decision.NewEvaluator(decision.DefaultThresholds())
	gateFailed := false
	var gateMarkdown strings.Builder

	for _, mt := range modelTypes {
		section, gate, err := trainOne(ctx, mt, claims, *seed, *testSize, *threshold, report, store, *enforceGate, gateEval, logger)
		if err != nil {
			logger.Fatalf("Training %s failed: %v", mt, err)
		}

		report.Models = append(report.Models, *section)
		gateMarkdown.WriteString(decision.RenderMarkdown(gate))
		gateMarkdown.WriteString("\n")
		if gate.Decision != decision.DecisionGO {
			gateFailed = true
		}
	}

	// Reports
	if err := reporting.WriteFiles(*outputDir, report); err != nil {
		logger.Fatalf("Failed to write reports: %v", err)
	}
	gatePath := filepath.Join(*outputDir, GateReportFilename)
	if err := os.WriteFile(gatePath, []byte(gateMarkdown.String()), 0o644); err != nil {
		logger.Fatalf("Failed to write gate report: %v", err)
	}

	logger.Println("Training complete:")
	logger.Printf("  - %s", filepath.Join(*outputDir, reporting.MarkdownFilename))
	logger.Printf("  - %s", filepath.Join(*outputDir, reporting.CSVFilename))
	logger.Printf("  - %s", gatePath)

	if *enforceGate && gateFailed {
		logger.Println("Quality gate failed; failing artifacts were not persisted")
		os.Exit(1)
	}
}

// trainOne trains, evaluates and gates a single model type, persisting its
// artifact unless the gate is enforced and failed.
func trainOne(
	ctx context.Context,
	modelType string,
	claims []domain.ClaimRecord,
	seed int64,
	testSize, threshold float64,
	report *reporting.Report,
	store storage.ArtifactStore,
	enforceGate bool,
	gateEval *decision.Evaluator,
	logger *log.Logger,
) (*reporting.ModelSection, *decision.GateResult, error) {
	cfg := pipeline.DefaultConfig()
	cfg.Seed = seed
	cfg.TestSize = testSize
	cfg.Threshold = threshold

	p, err := pipeline.New(modelType, cfg)
	if err != nil {
		return nil, nil, err
	}

	logger.Printf("Training %s on %d claims...", modelType, len(claims))
	start := time.Now()
	split, err := p.Train(claims)
	duration := time.Since(start)
	if err != nil {
		observability.RecordTrainingRun(modelType, "failure", duration.Seconds())
		return nil, nil, err
	}
	observability.RecordTrainingRun(modelType, "success", duration.Seconds())
	observability.DefaultMetrics.LastSuccessfulTraining.SetToCurrentTime()
	logger.Printf("Trained %s in %s (%d train / %d test samples)",
		modelType, duration.Round(time.Millisecond), len(split.TrainLabels), len(split.TestLabels))

	report.Data.TrainSamples = len(split.TrainLabels)
	report.Data.TestSamples = len(split.TestLabels)

	eval, err := p.Evaluate(split.TestFeatures, split.TestLabels)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate: %w", err)
	}
	logger.Printf("%s: accuracy=%.4f roc_auc=%.4f fraud_recall=%.4f",
		modelType, eval.Accuracy, eval.ROCAUC, eval.Classes[1].Recall)

	expl, err := p.Explain(split.TestFeatures)
	if err != nil {
		return nil, nil, fmt.Errorf("explain: %w", err)
	}

	gate := gateEval.Evaluate(eval)
	logger.Printf("%s: quality gate %s", modelType, gate.Decision)

	if enforceGate && gate.Decision != decision.DecisionGO {
		logger.Printf("%s: skipping artifact persist (gate enforced)", modelType)
	} else {
		a, err := artifact.Encode(p)
		if err != nil {
			return nil, nil, fmt.Errorf("encode artifact: %w", err)
		}
		if err := store.Save(ctx, a); err != nil {
			return nil, nil, fmt.Errorf("save artifact: %w", err)
		}
		logger.Printf("%s: artifact %s saved (checksum %s)", modelType, a.Name, a.Checksum)
	}

	return &reporting.ModelSection{
		Evaluation:    eval,
		Gate:          gate,
		Explanation:   expl,
		TrainDuration: duration,
	}, gate, nil
}

// resolveModelTypes expands the --model-type selector.
func resolveModelTypes(selector string) ([]string, error) {
	switch domain.NormalizeModelType(selector) {
	case "both":
		return []string{domain.ModelTypeRandomForest, domain.ModelTypeXGBoost}, nil
	case domain.ModelTypeRandomForest:
		return []string{domain.ModelTypeRandomForest}, nil
	case domain.ModelTypeXGBoost:
		return []string{domain.ModelTypeXGBoost}, nil
	}
	return nil, fmt.Errorf("unknown selector %q", selector)
}

// createArtifactStore picks PostgreSQL when a DSN is configured, the local
// filesystem otherwise.
func createArtifactStore(ctx context.Context, modelsDir, postgresDSN string) (storage.ArtifactStore, func(), error) {
	if postgresDSN == "" {
		store, err := fsstore.NewArtifactStore(modelsDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return pgstore.NewArtifactStore(pool), pool.Close, nil
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
