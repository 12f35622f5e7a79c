package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	key, err := store.Write(ctx, "user-1/doc-1.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "user-1/doc-1.pdf" {
		t.Errorf("key = %q", key)
	}

	data, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, []byte("content")) {
		t.Errorf("data = %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Read(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read after delete err = %v, want ErrNotFound", err)
	}
	// Deleting twice must not be an error.
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, key := range []string{"../escape", "..", "", "   "} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Write(%q) succeeded, want error", key)
		}
	}
}

func TestFileStoreCanceledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "k", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Write err = %v, want context.Canceled", err)
	}
}
