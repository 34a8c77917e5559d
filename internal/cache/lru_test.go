package cache

import (
	"sync"
	"testing"
)

func TestLRU_EvictsLeastRecent(t *testing.T) {
	c := New[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be present")
	}
	if !c.Add("c", 3) {
		t.Fatal("adding past capacity should evict")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("b was least recently used and should be gone")
	}
	if v, _ := c.Get("a"); v != 1 {
		t.Fatalf("a = %d, want 1", v)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestLRU_UpdateRemovePurge(t *testing.T) {
	c := New[int, string](4)
	c.Add(1, "x")
	c.Add(1, "y")
	if v, _ := c.Get(1); v != "y" {
		t.Fatalf("update lost: %q", v)
	}
	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Fatal("removed key still present")
	}
	c.Add(2, "z")
	c.Purge()
	if c.Len() != 0 {
		t.Fatal("purge left entries behind")
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Add(i%32, g)
				c.Get(i % 32)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Fatalf("Len = %d exceeds capacity", c.Len())
	}
}

func TestNew_PanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New[string, string](0)
}
