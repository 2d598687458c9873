package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// backendTest exercises the shared Cache contract against a backend.
func backendTest(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("MissOnEmpty", func(t *testing.T) {
		if _, ok, err := c.Get(ctx, "absent"); err != nil || ok {
			t.Errorf("Get(absent) = ok=%v err=%v, want miss", ok, err)
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "k1", []byte("payload"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		data, ok, err := c.Get(ctx, "k1")
		if err != nil || !ok {
			t.Fatalf("Get(k1) = ok=%v err=%v, want hit", ok, err)
		}
		if string(data) != "payload" {
			t.Errorf("Get(k1) = %q, want %q", data, "payload")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := c.Set(ctx, "k1", []byte("updated"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		data, ok, _ := c.Get(ctx, "k1")
		if !ok || string(data) != "updated" {
			t.Errorf("Get(k1) = %q ok=%v, want updated", data, ok)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := c.Delete(ctx, "k1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, ok, _ := c.Get(ctx, "k1"); ok {
			t.Error("Get(k1) hit after Delete")
		}
		if err := c.Delete(ctx, "k1"); err != nil {
			t.Errorf("Delete of absent key: %v", err)
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		if err := c.Set(ctx, "fleeting", []byte("x"), time.Millisecond); err != nil {
			t.Fatalf("Set: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if _, ok, _ := c.Get(ctx, "fleeting"); ok {
			t.Error("Get(fleeting) hit after expiry")
		}
	})
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	backendTest(t, c)
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	backendTest(t, c)
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("data"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := os.WriteFile(c.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("Get = ok=%v err=%v, want silent miss", ok, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestMemoryCacheCopiesData(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	buf := []byte("original")
	if err := c.Set(ctx, "k", buf, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	buf[0] = 'X'

	data, ok, _ := c.Get(ctx, "k")
	if !ok || string(data) != "original" {
		t.Errorf("Get = %q ok=%v, caller mutation leaked into the cache", data, ok)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("x"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("Get = ok=%v err=%v, want permanent miss", ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestLayoutKey(t *testing.T) {
	type opts struct {
		Strategy string  `json:"strategy"`
		Seed     uint64  `json:"seed"`
		Width    float64 `json:"width"`
	}

	circuit := []byte(`{"nodes":[]}`)
	k1 := LayoutKey(circuit, opts{Strategy: "force", Seed: 42, Width: 800})
	k2 := LayoutKey(circuit, opts{Strategy: "force", Seed: 42, Width: 800})
	if k1 != k2 {
		t.Errorf("identical inputs produced different keys:\n%s\n%s", k1, k2)
	}

	if k := LayoutKey(circuit, opts{Strategy: "circular", Seed: 42, Width: 800}); k == k1 {
		t.Error("strategy change did not change the key")
	}
	if k := LayoutKey(circuit, opts{Strategy: "force", Seed: 43, Width: 800}); k == k1 {
		t.Error("seed change did not change the key")
	}
	if k := LayoutKey([]byte(`{"nodes":[{}]}`), opts{Strategy: "force", Seed: 42, Width: 800}); k == k1 {
		t.Error("circuit change did not change the key")
	}
}

func TestHashStable(t *testing.T) {
	// Known SHA-256 of the empty input.
	const emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Hash(nil); got != emptySHA {
		t.Errorf("Hash(nil) = %s, want %s", got, emptySHA)
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("distinct inputs collided")
	}
}
