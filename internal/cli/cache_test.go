package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a", "ab/cd", "ab/ce", "ef/01/02"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := clearCache(dir)
	if err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir should survive: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries left, want 0", len(entries))
	}
}

func TestClearCacheEmpty(t *testing.T) {
	count, err := clearCache(t.TempDir())
	if err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
