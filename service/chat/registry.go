package chat

import (
	"sync"
)

// Registry is the process-wide mapping from logical identity to its live
// connection. At most one connection per identity: a later Register for the
// same identity supersedes the earlier one. The superseded connection is
// left alive until it disconnects on its own; it is not closed or notified.
//
// All mutation goes through Register/Deregister. State is memory-only and
// empty after a restart: every identity is offline at boot.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*Client)}
}

// Register inserts or replaces the mapping for userID. Never fails. Returns
// the superseded client, nil if there was none.
func (r *Registry) Register(userID string, c *Client) (superseded *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.byUser[userID]
	r.byUser[userID] = c
	if prev == c {
		return nil
	}
	return prev
}

// Deregister removes the mapping for userID only while it still points at
// c, so a superseded connection's late disconnect cannot evict the live
// registration. No-op and false when absent or already replaced.
func (r *Registry) Deregister(userID string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byUser[userID]; ok && cur == c {
		delete(r.byUser, userID)
		return true
	}
	return false
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	return c, ok
}

// Count reports the number of registered identities (stats/debugging).
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
