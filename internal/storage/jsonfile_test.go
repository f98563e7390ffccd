package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	pub "ytliked/storage"
)

func TestNewJSONFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")

	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore() error = %v", err)
	}
	defer store.Close()

	// File should exist after creation
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("store file was not created")
	}
}

func TestJSONFileStore_SetGet(t *testing.T) {
	store := newTestJSONStore(t)

	if err := store.Set("greeting", "hello"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get("greeting")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("Get() = %q, want hello", got)
	}
}

func TestJSONFileStore_GetMissing(t *testing.T) {
	store := newTestJSONStore(t)

	_, err := store.Get("missing")
	if !errors.Is(err, pub.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestJSONFileStore_SetEmptyKey(t *testing.T) {
	store := newTestJSONStore(t)

	if err := store.Set("", "value"); !errors.Is(err, pub.ErrInvalidInput) {
		t.Errorf("Set() error = %v, want ErrInvalidInput", err)
	}
}

func TestJSONFileStore_Delete(t *testing.T) {
	store := newTestJSONStore(t)

	if err := store.Set("key", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Delete("key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get("key"); !errors.Is(err, pub.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error
	if err := store.Delete("key"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestJSONFileStore_LoadExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")

	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore() error = %v", err)
	}
	if err := store.Set("persisted", "yes"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	store.Close()

	// Reopen and verify
	store2, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore() reopen error = %v", err)
	}
	defer store2.Close()

	got, err := store2.Get("persisted")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "yes" {
		t.Errorf("Get() = %q, want yes", got)
	}
}

func TestJSONFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")

	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err := NewJSONFileStore(path)
	if !errors.Is(err, pub.ErrStorageCorrupt) {
		t.Errorf("NewJSONFileStore() error = %v, want ErrStorageCorrupt", err)
	}
}

func TestJSONFileStore_LockPreventsSecondOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")

	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore() error = %v", err)
	}
	defer store.Close()

	if _, err := NewJSONFileStore(path); !errors.Is(err, pub.ErrLockTimeout) {
		t.Errorf("second open error = %v, want ErrLockTimeout", err)
	}
}

func newTestJSONStore(t *testing.T) *JSONFileStore {
	t.Helper()
	store, err := NewJSONFileStore(filepath.Join(t.TempDir(), "test.json"))
	if err != nil {
		t.Fatalf("NewJSONFileStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
