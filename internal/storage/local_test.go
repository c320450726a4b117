package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLocalStorage(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out", "processed")

		storage, err := NewLocalStorage(dir)
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}

		if storage.Dir() != dir {
			t.Errorf("Dir() = %v, want %v", storage.Dir(), dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("existing directory is reused", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := NewLocalStorage(dir); err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "keep.txt")); err != nil {
			t.Errorf("existing file removed: %v", err)
		}
	})

	t.Run("empty directory is rejected", func(t *testing.T) {
		_, err := NewLocalStorage("")
		if !errors.Is(err, ErrNoDestination) {
			t.Errorf("expected ErrNoDestination, got %v", err)
		}
	})
}

func TestLocalStorage_Save(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	t.Run("writes file under its name", func(t *testing.T) {
		obj, err := storage.Save(ctx, "frame_0001.png", bytes.NewReader([]byte("png data")))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		want := filepath.Join(storage.Dir(), "frame_0001.png")
		if obj.Path != want {
			t.Errorf("Path = %v, want %v", obj.Path, want)
		}
		if obj.URL != "" {
			t.Errorf("URL = %q, want empty", obj.URL)
		}

		content, err := os.ReadFile(want)
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}
		if string(content) != "png data" {
			t.Errorf("got %q, want %q", string(content), "png data")
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		if _, err := storage.Save(ctx, "frame_0002.png", bytes.NewReader([]byte("old"))); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		obj, err := storage.Save(ctx, "frame_0002.png", bytes.NewReader([]byte("new")))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		content, _ := os.ReadFile(obj.Path)
		if string(content) != "new" {
			t.Errorf("got %q, want %q", string(content), "new")
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		entries, err := os.ReadDir(storage.Dir())
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".") {
				t.Errorf("unexpected temp file %s", e.Name())
			}
		}
	})

	t.Run("rejects names with directories", func(t *testing.T) {
		for _, name := range []string{"", ".", "..", "../frame_0001.png", "sub/frame_0001.png", `sub\frame_0001.png`} {
			_, err := storage.Save(ctx, name, bytes.NewReader(nil))
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("Save(%q) expected ErrInvalidName, got %v", name, err)
			}
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := storage.Save(ctx, "frame_0003.png", bytes.NewReader([]byte("data")))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(storage.Dir(), "frame_0003.png")); !os.IsNotExist(err) {
			t.Error("file written despite cancellation")
		}
	})
}

func setupTestStorage(t *testing.T) *LocalStorage {
	t.Helper()

	storage, err := NewLocalStorage(filepath.Join(t.TempDir(), "processed"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}
