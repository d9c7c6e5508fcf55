// Package feed maintains an in-memory view of recent generations so a
// client can show a placeholder the moment a request is submitted and
// swap it for the finished asset (or an error) when the work resolves.
package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle stage of a feed entry.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Entry is one item in the feed. Entries keep submission order.
type Entry struct {
	LocalID   string    `json:"local_id"`
	Kind      string    `json:"kind"`
	Prompt    string    `json:"prompt"`
	FileURL   string    `json:"file_url,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// Feed is safe for concurrent use. Each submission gets its own local
// id, so overlapping requests resolve independently of each other.
type Feed struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Feed {
	return &Feed{}
}

// Submit appends a pending entry at the end of the feed and returns its
// local id. Later transitions update the entry in place; the feed is
// never reordered.
func (f *Feed) Submit(kind, prompt string) string {
	id := uuid.NewString()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, Entry{
		LocalID:   id,
		Kind:      kind,
		Prompt:    prompt,
		State:     StatePending,
		CreatedAt: time.Now().UTC(),
	})
	return id
}

// Resolve marks a pending entry completed with its final URL. Entries
// already in a terminal state are left untouched.
func (f *Feed) Resolve(localID, fileURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].LocalID == localID && f.entries[i].State == StatePending {
			f.entries[i].State = StateCompleted
			f.entries[i].FileURL = fileURL
			return true
		}
	}
	return false
}

// Fail marks a pending entry failed with a reason.
func (f *Feed) Fail(localID, reason string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].LocalID == localID && f.entries[i].State == StatePending {
			f.entries[i].State = StateFailed
			f.entries[i].Reason = reason
			return true
		}
	}
	return false
}

// Remove drops an entry regardless of state.
func (f *Feed) Remove(localID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].LocalID == localID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current entries in submission order.
func (f *Feed) Snapshot() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}
