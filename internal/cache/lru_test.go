package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewLRUCache[string](size, ttl).WithClock(clk.now), clk
}

func TestLRUCacheGetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("a", "1")
	c.Set("a", "2")
	if v, ok := c.Get("a"); !ok || v != "2" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s to be present", k)
		}
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c, clk := newTestCache(5, 30*time.Second)
	c.Set("a", "1")
	clk.advance(10 * time.Second)
	c.Set("b", "2")

	clk.advance(25 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be expired")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to be fresh")
	}

	clk.advance(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCacheDeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(5, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	c.Delete("missing")
	if c.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", c.Size())
	}
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("Size() after purge = %d", c.Size())
	}
	c.Set("c", "3")
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Fatalf("cache unusable after purge: %q %v", v, ok)
	}
}

func TestManager(t *testing.T) {
	c, clk := newTestCache(5, time.Second)
	m := NewManager(nil)
	m.Register(c)

	c.Set("a", "1")
	clk.advance(2 * time.Second)
	if n := m.CleanNow(); n != 1 {
		t.Fatalf("CleanNow() = %d, want 1", n)
	}

	m.StartCleanup(time.Hour)
	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager(nil)
	m.Stop()
}
