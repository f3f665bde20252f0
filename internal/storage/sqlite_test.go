package storage

import (
	"context"
	"errors"
	"testing"
)

func setupTestDB(t *testing.T) *SQLite {
	db, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func TestSQLite_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	if err := db.Set(ctx, KeyDisasters, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := db.Get(ctx, KeyDisasters)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("expected '[]', got '%s'", got)
	}
}

func TestSQLite_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLite_Overwrite(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	db.Set(ctx, "k", []byte("first"))
	if err := db.Set(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := db.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected 'second', got '%s'", got)
	}
}

func TestSQLite_RemoveAndClear(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	db.Set(ctx, "a", []byte("1"))
	db.Set(ctx, "b", []byte("2"))

	if err := db.Remove(ctx, "a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := db.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}

	if err := db.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := db.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}
}
