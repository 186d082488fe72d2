// Package main generates a labeled synthetic claim dataset and writes it
// to CSV, optionally persisting the same rows to PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"fraudlab/internal/domain"
	"fraudlab/internal/observability"
	"fraudlab/internal/storage/migrations"
	pgstore "fraudlab/internal/storage/postgres"
	"fraudlab/internal/synth"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	nSamples := flag.Int("n-samples", 10000, "Number of claims to generate")
	fraudRatio := flag.Float64("fraud-ratio", 0.05, "Fraction of fraud claims in (0,1)")
	seed := flag.Uint64("seed", 42, "Generator seed (identical seeds reproduce identical datasets)")
	output := flag.String("output", "data/claims.csv", "Output CSV path")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (optional; persists the dataset when set)")

	flag.Parse()

	logger := log.New(os.Stdout, "[generate] ", log.LstdFlags|log.Lshortfile)

	if *nSamples <= 0 {
		logger.Fatal("--n-samples must be positive")
	}
	if *fraudRatio <= 0 || *fraudRatio >= 1 {
		logger.Fatal("--fraud-ratio must be in (0,1)")
	}

	cfg := synth.Config{
		NSamples:   *nSamples,
		FraudRatio: *fraudRatio,
		Seed:       *seed,
	}

	logger.Printf("Generating %d claims (fraud ratio %.3f, seed %d)", cfg.NSamples, cfg.FraudRatio, cfg.Seed)
	records := synth.Generate(cfg)
	observability.DefaultMetrics.ClaimsGenerated.Add(float64(len(records)))

	fraud := 0
	for _, r := range records {
		fraud += r.IsFraud
	}
	logger.Printf("Generated %d claims (%d fraud, %d legitimate)", len(records), fraud, len(records)-fraud)

	if dir := filepath.Dir(*output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatalf("Failed to create output directory: %v", err)
		}
	}
	if err := synth.WriteCSV(*output, records); err != nil {
		logger.Fatalf("Failed to write dataset: %v", err)
	}
	logger.Printf("Dataset written to %s", *output)

	if *postgresDSN != "" {
		if err := persistClaims(context.Background(), *postgresDSN, records); err != nil {
			logger.Fatalf("Failed to persist claims: %v", err)
		}
		logger.Printf("Dataset persisted to PostgreSQL (%d rows)", len(records))
	}
}

// persistClaims inserts the generated rows into the claims table as one
// atomic batch.
func persistClaims(ctx context.Context, dsn string, records []domain.ClaimRecord) error {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	claims := make([]*domain.ClaimRecord, len(records))
	for i := range records {
		claims[i] = &records[i]
	}
	return pgstore.NewClaimStore(pool).InsertBulk(ctx, claims)
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
