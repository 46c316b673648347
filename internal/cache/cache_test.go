package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache")

	c, err := New(cacheDir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("New() should create cache directory")
	}

	c, err = New("")
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}

	var nilCache *Cache
	if nilCache.Enabled() {
		t.Error("nil cache should be disabled")
	}
}

func TestSetAndGet(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	src := []byte("package main\n\nfunc main() {}\n")
	hash := HashBytes(src)
	data := []byte(`[{"name":"main"}]`)

	if err := c.Set("main.go", hash, data); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok := c.Get("main.go", hash)
	if !ok {
		t.Fatal("Get() missed an entry stored with the same hash")
	}
	if string(got) != string(data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}

	if _, ok := c.Get("main.go", HashBytes([]byte("package main\n"))); ok {
		t.Error("Get() should miss when the content hash changed")
	}
	if _, ok := c.Get("other.go", hash); ok {
		t.Error("Get() should miss for an unknown key")
	}
}

func TestSetOverwrites(t *testing.T) {
	c, _ := New(t.TempDir())

	if err := c.Set("k", "h1", []byte("one")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Set("k", "h2", []byte("two")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	if _, ok := c.Get("k", "h1"); ok {
		t.Error("stale hash should miss after overwrite")
	}
	if got, ok := c.Get("k", "h2"); !ok || string(got) != "two" {
		t.Errorf("Get() = %q, %v; want two, true", got, ok)
	}
}

func TestCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)

	if err := os.WriteFile(c.keyPath("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("corrupt entry should miss")
	}
}

func TestDisabledCache(t *testing.T) {
	c, _ := New("")

	if err := c.Set("k", "h", []byte("data")); err != nil {
		t.Errorf("Set() on disabled cache error: %v", err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("disabled cache should always miss")
	}
	if err := c.Invalidate("k"); err != nil {
		t.Errorf("Invalidate() error: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() error: %v", err)
	}
}

func TestInvalidateAndClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, _ := New(dir)

	_ = c.Set("a", "h", []byte("1"))
	_ = c.Set("b", "h", []byte("2"))

	if err := c.Invalidate("a"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.Get("a", "h"); ok {
		t.Error("invalidated entry should miss")
	}
	if err := c.Invalidate("a"); err != nil {
		t.Errorf("Invalidate() of a missing entry error: %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Clear() should remove the cache directory")
	}
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("hello"))
	if len(a) != 64 {
		t.Errorf("HashBytes() length = %d, want 64 hex chars", len(a))
	}
	if a != HashBytes([]byte("hello")) {
		t.Error("HashBytes() should be deterministic")
	}
	if a == HashBytes([]byte("world")) {
		t.Error("different input should hash differently")
	}
}

func TestConcurrentSet(t *testing.T) {
	c, _ := New(t.TempDir())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set("shared", "h", []byte("data"))
		}()
	}
	wg.Wait()

	if got, ok := c.Get("shared", "h"); !ok || string(got) != "data" {
		t.Errorf("Get() = %q, %v after concurrent writes", got, ok)
	}
}
