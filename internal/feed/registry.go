package feed

import "sync"

// Registry hands out one Feed per profile. Feeds live for the lifetime
// of the process; a profile's first request creates its feed lazily.
type Registry struct {
	mu    sync.Mutex
	feeds map[string]*Feed
}

func NewRegistry() *Registry {
	return &Registry{feeds: make(map[string]*Feed)}
}

// For returns the feed owned by userID, creating it on first use.
func (r *Registry) For(userID string) *Feed {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feeds[userID]
	if !ok {
		f = New()
		r.feeds[userID] = f
	}
	return f
}
