package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/duccv/student-service/config"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, 60)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v", v, ok)
	}
	if c.Size() != 2 || c.MaxSize() != 2 {
		t.Errorf("Size/MaxSize = %d/%d, want 2/2", c.Size(), c.MaxSize())
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c := NewLRUCache[string](10, 60)
	defer c.Stop()

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Set("default", "x")
	c.SetWithTTL("short", "y", 1)

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("short should have expired")
	}
	if _, ok := c.Get("default"); !ok {
		t.Error("default should still be cached")
	}

	now = now.Add(time.Minute)
	if n := c.sweep(); n != 1 {
		t.Errorf("sweep() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d after sweep", c.Size())
	}
}

func TestLRUCache_DeleteClearStop(t *testing.T) {
	c := NewLRUCache[int](10, 60)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	c.Delete("missing")

	if got := c.Keys(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Keys() = %v, want [b]", got)
	}
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() = %d after Clear", c.Size())
	}
	c.Stop()
	c.Stop()
}

func TestNewCache_Defaults(t *testing.T) {
	c := NewCache[int](config.CacheConfig{})
	defer c.Stop()
	if c.MaxSize() != 1000 {
		t.Errorf("MaxSize() = %d, want 1000", c.MaxSize())
	}
}

func TestMultiLevel_LoadsOnceAndCaches(t *testing.T) {
	mem := NewLRUCache[string](10, 60)
	defer mem.Stop()
	ml := NewMultiLevel[string](mem, nil, "t:", 60)

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context, key string) (string, error) {
		calls.Add(1)
		<-release
		return "value-" + key, nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := ml.Get(context.Background(), "k", load)
			if err != nil {
				t.Errorf("Get: %v", err)
			}
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, v := range results {
		if v != "value-k" {
			t.Fatalf("result = %q", v)
		}
	}

	v, err := ml.Get(context.Background(), "k", func(context.Context, string) (string, error) {
		t.Fatal("loader must not run on a cache hit")
		return "", nil
	})
	if err != nil || v != "value-k" {
		t.Errorf("cached Get = %q, %v", v, err)
	}
	if calls.Load() < 1 {
		t.Error("loader never ran")
	}
}

func TestMultiLevel_ErrorsAreNotCached(t *testing.T) {
	mem := NewLRUCache[string](10, 60)
	defer mem.Stop()
	ml := NewMultiLevel[string](mem, nil, "t:", 60)

	errMissing := errors.New("missing")
	if _, err := ml.Get(context.Background(), "k", func(context.Context, string) (string, error) {
		return "", errMissing
	}); !errors.Is(err, errMissing) {
		t.Fatalf("err = %v, want errMissing", err)
	}

	v, err := ml.Get(context.Background(), "k", func(context.Context, string) (string, error) {
		return "now-present", nil
	})
	if err != nil || v != "now-present" {
		t.Errorf("Get after error = %q, %v", v, err)
	}

	ml.Forget(context.Background(), "k")
	if _, ok := mem.Get("k"); ok {
		t.Error("Forget should drop the in-memory entry")
	}
}
