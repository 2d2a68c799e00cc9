package journal

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryType represents the lifecycle event an entry describes
type EntryType string

const (
	EntryConnect    EntryType = "connect"
	EntryDisconnect EntryType = "disconnect"
	EntryTeardown   EntryType = "teardown"
	EntryDrop       EntryType = "drop"
)

var ErrNilEntry = errors.New("journal: entry cannot be nil")

// Entry represents a single lifecycle event
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EntryType `json:"type"`
	Registry  string    `json:"registry,omitempty"`
	ConnID    string    `json:"connId,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	Emitter   string    `json:"emitter,omitempty"`
	Receiver  string    `json:"receiver,omitempty"`
	Count     int       `json:"count,omitempty"`
}

// Recorder accepts lifecycle entries
type Recorder interface {
	Record(entry *Entry) error
}

// Journal is a queryable Recorder
type Journal interface {
	Recorder

	// ByConnection returns every entry for a connection, oldest first
	ByConnection(connID string) []*Entry

	// ByEndpoint returns the most recent entries naming the endpoint as
	// emitter or receiver
	ByEndpoint(name string, limit int) []*Entry

	// Stats returns journal statistics
	Stats() *Stats

	// Clear removes entries older than the specified duration
	Clear(olderThan time.Duration) int
}

// Stats represents journal statistics
type Stats struct {
	TotalEntries  int64               `json:"totalEntries"`
	EntriesByType map[EntryType]int64 `json:"entriesByType"`
	Dropped       int64               `json:"dropped"`
	LastEntry     time.Time           `json:"lastEntry"`
}

var _ Journal = (*InMemoryJournal)(nil)

// InMemoryJournal provides an in-memory implementation of Journal
type InMemoryJournal struct {
	entries       []*Entry
	byConnection  map[string][]*Entry
	mu            sync.RWMutex
	maxEntries    int
	rotatePercent float64
}

// Option configures the in-memory journal
type Option func(*InMemoryJournal)

// WithMaxEntries sets the maximum number of entries
func WithMaxEntries(max int) Option {
	return func(j *InMemoryJournal) {
		j.maxEntries = max
	}
}

// WithRotatePercent sets the percentage of entries to remove when max is reached
func WithRotatePercent(percent float64) Option {
	return func(j *InMemoryJournal) {
		j.rotatePercent = percent
	}
}

// NewInMemoryJournal creates a new in-memory journal
func NewInMemoryJournal(opts ...Option) *InMemoryJournal {
	j := &InMemoryJournal{
		entries:       make([]*Entry, 0),
		byConnection:  make(map[string][]*Entry),
		maxEntries:    10000,
		rotatePercent: 0.2,
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Record records an entry, filling in its ID and timestamp when unset
func (j *InMemoryJournal) Record(entry *Entry) error {
	if entry == nil {
		return ErrNilEntry
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.maxEntries > 0 && len(j.entries) >= j.maxEntries {
		j.rotate()
	}

	j.entries = append(j.entries, entry)
	if entry.ConnID != "" {
		j.byConnection[entry.ConnID] = append(j.byConnection[entry.ConnID], entry)
	}

	return nil
}

// ByConnection returns every entry for a connection, oldest first
func (j *InMemoryJournal) ByConnection(connID string) []*Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return copyEntries(j.byConnection[connID])
}

// ByEndpoint returns up to limit of the most recent entries naming the
// endpoint. A limit of zero or less returns all of them.
func (j *InMemoryJournal) ByEndpoint(name string, limit int) []*Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var matched []*Entry
	for _, entry := range j.entries {
		if entry.Emitter == name || entry.Receiver == name {
			matched = append(matched, entry)
		}
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	return copyEntries(matched)
}

// Len returns the number of retained entries
func (j *InMemoryJournal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Stats returns journal statistics
func (j *InMemoryJournal) Stats() *Stats {
	j.mu.RLock()
	defer j.mu.RUnlock()

	stats := &Stats{
		TotalEntries:  int64(len(j.entries)),
		EntriesByType: make(map[EntryType]int64),
	}

	for _, entry := range j.entries {
		stats.EntriesByType[entry.Type]++
		if entry.Type == EntryDrop {
			stats.Dropped += int64(entry.Count)
		}
		if entry.Timestamp.After(stats.LastEntry) {
			stats.LastEntry = entry.Timestamp
		}
	}

	return stats
}

// Clear removes entries older than the specified duration
func (j *InMemoryJournal) Clear(olderThan time.Duration) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	removed := 0

	kept := make([]*Entry, 0, len(j.entries))
	for _, entry := range j.entries {
		if entry.Timestamp.After(cutoff) {
			kept = append(kept, entry)
		} else {
			removed++
		}
	}

	j.entries = kept
	j.rebuildIndex()

	return removed
}

// rotate removes oldest entries when max is reached
func (j *InMemoryJournal) rotate() {
	removeCount := int(float64(j.maxEntries) * j.rotatePercent)
	if removeCount < 1 {
		removeCount = 1
	}
	if removeCount > len(j.entries) {
		removeCount = len(j.entries)
	}

	j.entries = j.entries[removeCount:]
	j.rebuildIndex()
}

func (j *InMemoryJournal) rebuildIndex() {
	j.byConnection = make(map[string][]*Entry)
	for _, entry := range j.entries {
		if entry.ConnID != "" {
			j.byConnection[entry.ConnID] = append(j.byConnection[entry.ConnID], entry)
		}
	}
}

func copyEntries(entries []*Entry) []*Entry {
	result := make([]*Entry, len(entries))
	for i, entry := range entries {
		entryCopy := *entry
		result[i] = &entryCopy
	}
	return result
}
