// Package main runs the HTTP prediction service. Model artifacts are read
// from the filesystem, PostgreSQL or memory; served predictions are
// optionally appended to a ClickHouse audit log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fraudlab/internal/predict"
	"fraudlab/internal/server"
	"fraudlab/internal/storage"
	chstore "fraudlab/internal/storage/clickhouse"
	fsstore "fraudlab/internal/storage/fs"
	"fraudlab/internal/storage/memory"
	"fraudlab/internal/storage/migrations"
	pgstore "fraudlab/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", ":8000", "HTTP listen address")
	modelsDir := flag.String("models-dir", "models", "Directory holding model artifacts")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (optional; reads artifacts from PostgreSQL instead of the filesystem)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional; enables the prediction audit log)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory artifact storage (mainly for tests; artifacts do not survive restarts)")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	artifacts, cleanup, err := createArtifactStore(ctx, *modelsDir, *postgresDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create artifact store: %v", err)
	}
	defer cleanup()

	var predictionLog storage.PredictionLogStore
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("Failed to run clickhouse migrations: %v", err)
		}
		defer conn.Close()
		predictionLog = chstore.NewPredictionLogStore(conn)
		logger.Println("Prediction audit log enabled (ClickHouse)")
	}

	stored, err := artifacts.List(ctx)
	if err != nil {
		logger.Fatalf("Failed to list artifacts: %v", err)
	}
	if len(stored) == 0 {
		logger.Println("WARNING: no model artifacts found; /predict returns 404 until a model is trained")
	}
	for _, a := range stored {
		logger.Printf("Artifact available: %s (model_type=%s)", a.Name, a.ModelType)
	}

	svc := predict.NewService(artifacts, predictionLog)
	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      server.New(svc).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Fraud Detection API listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createArtifactStore picks the artifact backend: memory, PostgreSQL or
// the local filesystem.
func createArtifactStore(ctx context.Context, modelsDir, postgresDSN string, useMemory bool) (storage.ArtifactStore, func(), error) {
	if useMemory {
		return memory.NewArtifactStore(), func() {}, nil
	}

	if postgresDSN != "" {
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

	store, err := fsstore.NewArtifactStore(modelsDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
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
