package cache

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"desmatamento/internal/filter"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be present")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b was least recently used and should be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := NewLRUCache[string](10, time.Minute)
	c.now = clock.now

	c.Set("x", "1")
	c.Set("y", "2")
	clock.t = clock.t.Add(30 * time.Second)
	c.Set("y", "3")
	clock.t = clock.t.Add(45 * time.Second)

	if _, ok := c.Get("x"); ok {
		t.Error("x should have expired")
	}
	if v, ok := c.Get("y"); !ok || v != "3" {
		t.Errorf("y should survive after its reset TTL, got %q %v", v, ok)
	}

	clock.t = clock.t.Add(time.Hour)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d", c.Size())
	}
}

func TestManager_Sweep(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := NewLRUCache[int](10, time.Second)
	c.now = clock.now
	c.Set("a", 1)

	m := NewManager(nil)
	m.Register(c)
	clock.t = clock.t.Add(2 * time.Second)
	if n := m.Sweep(); n != 1 {
		t.Errorf("Sweep = %d, want 1", n)
	}

	m.StartCleanup(time.Millisecond)
	m.Stop()
	m.Stop()
}

func seed() filter.Selection {
	return filter.NewSelection([]string{"A", "B", "C"}, filter.DefaultBounds(), filter.DefaultDefaults())
}

func TestSessionStore(t *testing.T) {
	s := NewSessionStore(10, time.Minute, seed)

	sel, existed := s.Load("one")
	if existed {
		t.Fatal("new session should not exist yet")
	}
	if !reflect.DeepEqual(sel.Municipalities, []string{"A", "B", "C"}) {
		t.Fatalf("seed selection = %v", sel.Municipalities)
	}

	sel.Toggle("A")
	if again, _ := s.Load("one"); len(again.Municipalities) != 3 {
		t.Fatal("mutating a loaded selection must not change the store")
	}

	updated := s.Update("one", func(sel *filter.Selection) { sel.Toggle("B") })
	if !reflect.DeepEqual(updated.Municipalities, []string{"A", "C"}) {
		t.Fatalf("updated = %v", updated.Municipalities)
	}
	stored, existed := s.Load("one")
	if !existed || !reflect.DeepEqual(stored.Municipalities, []string{"A", "C"}) {
		t.Fatalf("stored = %v existed=%v", stored.Municipalities, existed)
	}

	other, _ := s.Load("two")
	if len(other.Municipalities) != 3 {
		t.Fatal("sessions must be independent")
	}
}

func TestSessionStore_ConcurrentUpdates(t *testing.T) {
	s := NewSessionStore(10, time.Minute, seed)
	names := []string{"D", "E", "F", "G", "H", "I", "J", "K"}

	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			s.Update("s", func(sel *filter.Selection) { sel.Toggle(n) })
		}(n)
	}
	wg.Wait()

	sel, _ := s.Load("s")
	if len(sel.Municipalities) != 3+len(names) {
		t.Fatalf("lost updates: %v", sel.Municipalities)
	}
}
