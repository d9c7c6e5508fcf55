package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndSanitize(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	key, err := store.Write(context.Background(), "/generations/abc/01.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "generations/abc/01.png" {
		t.Fatalf("key = %q", key)
	}
	data, err := os.ReadFile(filepath.Join(store.BasePath(), "generations", "abc", "01.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("data = %q", data)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape.png", []byte("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
	if _, err := store.Write(context.Background(), "  ", []byte("x")); err == nil {
		t.Fatal("expected empty key to be rejected")
	}
}
