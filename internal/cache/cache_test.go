package cache

import "testing"

func TestPutUpdatesExistingEntryWithoutGrowingSize(t *testing.T) {
	c := NewLRUCache[string, int](2)
	c.Put("alpha", 1)
	c.Put("beta", 2)
	c.Put("alpha", 3)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if v, ok := c.Get("alpha"); !ok || v != 3 {
		t.Fatalf("expected updated value 3, got %d %v", v, ok)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string, int](2)
	c.Put("alpha", 1)
	c.Put("beta", 2)

	// Touch alpha so beta becomes the eviction candidate.
	if _, ok := c.Get("alpha"); !ok {
		t.Fatalf("expected alpha to be cached")
	}
	c.Put("gamma", 3)

	if _, ok := c.Get("beta"); ok {
		t.Fatalf("expected beta to be evicted")
	}
	for _, key := range []string{"alpha", "gamma"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("expected %s to remain cached", key)
		}
	}
}

func TestPurge(t *testing.T) {
	c := NewLRUCache[int, []string](4)
	c.Put(1, []string{"a"})
	c.Put(2, nil)
	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Purge, got %d", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Fatalf("expected purged key to miss")
	}

	c.Put(3, []string{"b"})
	if v, ok := c.Get(3); !ok || v[0] != "b" {
		t.Fatalf("expected cache to be usable after Purge")
	}
}

func TestMinimumSize(t *testing.T) {
	c := NewLRUCache[string, string](0)
	c.Put("a", "1")
	c.Put("b", "2")
	if c.Len() != 1 {
		t.Fatalf("expected size floor of one entry, got %d", c.Len())
	}
}
