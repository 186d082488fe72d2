package fs

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fraudlab/internal/domain"
	"fraudlab/internal/idhash"
	"fraudlab/internal/storage"
)

func newTestStore(t *testing.T) *ArtifactStore {
	t.Helper()

	store, err := NewArtifactStore(filepath.Join(t.TempDir(), "models"))
	if err != nil {
		t.Fatalf("NewArtifactStore failed: %v", err)
	}
	return store
}

func TestArtifactStore_SaveGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	blob := []byte("serialized pipeline bytes")
	err := store.Save(ctx, &domain.Artifact{Name: "fraud_model_xgboost", Blob: blob})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "fraud_model_xgboost")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got.Blob, blob) {
		t.Errorf("blob round-trip mismatch")
	}
	if got.ModelType != "xgboost" {
		t.Errorf("model type from name: got %q, want xgboost", got.ModelType)
	}
	if got.Checksum != idhash.ArtifactChecksum(blob) {
		t.Errorf("checksum mismatch: %s", got.Checksum)
	}
	if got.CreatedAtMs == 0 {
		t.Error("created_at_ms not populated")
	}
}

func TestArtifactStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, blob := range [][]byte{[]byte("v1"), []byte("v2")} {
		if err := store.Save(ctx, &domain.Artifact{Name: "fraud_model_random_forest", Blob: blob}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := store.Get(ctx, "fraud_model_random_forest")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Blob) != "v2" {
		t.Errorf("overwrite not applied: %q", got.Blob)
	}
}

func TestArtifactStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "fraud_model_missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArtifactStore_RejectsPathEscapes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "../evil", "a/b", `a\b`} {
		if err := store.Save(ctx, &domain.Artifact{Name: name, Blob: []byte("x")}); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Save(%q): expected ErrInvalidInput, got %v", name, err)
		}
		if _, err := store.Get(ctx, name); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Get(%q): expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestArtifactStore_ListAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"fraud_model_xgboost", "fraud_model_random_forest"} {
		if err := store.Save(ctx, &domain.Artifact{Name: name, Blob: []byte(name)}); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "fraud_model_random_forest" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := store.Delete(ctx, "fraud_model_xgboost"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "fraud_model_xgboost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}

	list, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List after delete failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list after delete: got %d artifacts, want 1", len(list))
	}
}
