package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalFileStore_Upload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalFileStore(dir, "http://localhost:8080/uploads/", 1024)
	if err != nil {
		t.Fatalf("NewLocalFileStore() error = %v", err)
	}

	upload, err := store.Upload(context.Background(), "connection-1", "../../essay.txt", strings.NewReader("Task 2 draft"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if upload.Name != "essay.txt" {
		t.Errorf("Name = %s, want essay.txt", upload.Name)
	}
	if upload.Size != int64(len("Task 2 draft")) {
		t.Errorf("Size = %d", upload.Size)
	}
	if !strings.HasPrefix(upload.URL, "http://localhost:8080/uploads/connection-1/") || !strings.HasSuffix(upload.URL, ".txt") {
		t.Errorf("URL = %s", upload.URL)
	}

	stored := filepath.Join(dir, "connection-1", filepath.Base(upload.URL))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "Task 2 draft" {
		t.Errorf("content = %q", data)
	}
}

func TestLocalFileStore_Limits(t *testing.T) {
	store, _ := NewLocalFileStore(t.TempDir(), "/uploads", 4)

	if _, err := store.Upload(context.Background(), "c", "a.txt", strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty upload error = %v, want ErrEmptyFile", err)
	}
	if _, err := store.Upload(context.Background(), "c", "a.txt", strings.NewReader("too long")); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("large upload error = %v, want ErrFileTooLarge", err)
	}
}
