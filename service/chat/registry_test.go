package chat

import (
	"sync"
	"testing"
)

func newTestClient(connID string) *Client {
	return NewClient(connID, nil, 8)
}

func TestRegisterLookup(t *testing.T) {
	r := NewRegistry()
	c := newTestClient("c1")

	if prev := r.Register("7", c); prev != nil {
		t.Fatalf("unexpected superseded client %v", prev)
	}
	got, ok := r.Lookup("7")
	if !ok || got != c {
		t.Fatalf("Lookup = %v, %v", got, ok)
	}
	if _, ok := r.Lookup("9"); ok {
		t.Fatal("lookup of unregistered identity succeeded")
	}
}

func TestRegisterSupersedes(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")

	r.Register("7", c1)
	prev := r.Register("7", c2)
	if prev != c1 {
		t.Fatalf("superseded = %v, want c1", prev)
	}
	got, ok := r.Lookup("7")
	if !ok || got != c2 {
		t.Fatalf("Lookup after supersede = %v, want c2", got)
	}
	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}
}

func TestDeregisterGuard(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")

	r.Register("7", c1)
	r.Register("7", c2)

	// the superseded connection disconnecting later must not evict c2
	if r.Deregister("7", c1) {
		t.Fatal("stale deregister removed live registration")
	}
	if got, ok := r.Lookup("7"); !ok || got != c2 {
		t.Fatalf("Lookup = %v, %v; want c2", got, ok)
	}

	if !r.Deregister("7", c2) {
		t.Fatal("live deregister reported false")
	}
	if _, ok := r.Lookup("7"); ok {
		t.Fatal("identity still registered after deregister")
	}
}

func TestDeregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	c := newTestClient("c1")
	other := newTestClient("c2")
	r.Register("9", other)

	// never registered: no-op, no error, other entries untouched
	if r.Deregister("7", c) {
		t.Fatal("deregister of absent identity reported true")
	}
	if r.Deregister("7", c) {
		t.Fatal("second deregister reported true")
	}
	if got, ok := r.Lookup("9"); !ok || got != other {
		t.Fatal("unrelated entry affected by deregister")
	}
}

func TestConcurrentRegisters(t *testing.T) {
	r := NewRegistry()
	const workers = 16

	clients := make([]*Client, workers)
	for i := range clients {
		clients[i] = newTestClient("c")
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(c *Client) {
			defer wg.Done()
			r.Register("7", c)
		}(clients[i])
	}
	wg.Wait()

	got, ok := r.Lookup("7")
	if !ok {
		t.Fatal("identity missing after concurrent registers")
	}
	found := false
	for _, c := range clients {
		if c == got {
			found = true
		}
	}
	if !found {
		t.Fatal("lookup returned a client that never registered")
	}
	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}
}
