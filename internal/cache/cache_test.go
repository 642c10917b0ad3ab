package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := New(filepath.Join(tmpDir, "cache"), time.Hour, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}

	c, err = New("", 0, false)
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "charts")

	if _, err := New(cacheDir, 0, true); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("New() should create cache directory")
	}
}

func TestSetAndGet(t *testing.T) {
	c, err := New(t.TempDir(), 0, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	key := Key("bar", "Grip strength", "45", "40")
	data := []byte("\x89PNG fake image")

	if err := c.Set(key, data); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() returned false for existing key")
	}
	if string(got) != string(data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 1 || stats.TotalSize != int64(len(data)) {
		t.Errorf("GetStats() = %+v, want 1 entry of %d bytes", stats, len(data))
	}
}

func TestGetExpired(t *testing.T) {
	c, err := New(t.TempDir(), time.Minute, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	key := Key("old")
	if err := c.Set(key, []byte("x")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(c.keyPath(key), past, past); err != nil {
		t.Fatalf("Chtimes() error: %v", err)
	}

	if _, ok := c.Get(key); ok {
		t.Error("Get() should miss an expired entry")
	}
	if _, err := os.Stat(c.keyPath(key)); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestDisabledCache(t *testing.T) {
	c, _ := New("", 0, false)
	if err := c.Set("k", []byte("v")); err != nil {
		t.Errorf("Set() on disabled cache: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("disabled cache should never hit")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() on disabled cache: %v", err)
	}
}

func TestKeySeparatesParts(t *testing.T) {
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Key() should depend on part boundaries")
	}
	if len(Key("x")) != 64 {
		t.Errorf("Key() length = %d, want 64", len(Key("x")))
	}
}

func TestInvalidateAndClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	c, _ := New(dir, 0, true)
	_ = c.Set("a", []byte("1"))
	if err := c.Invalidate("a"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("invalidated entry should miss")
	}
	_ = c.Set("b", []byte("2"))
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Clear() should remove the directory")
	}
}
