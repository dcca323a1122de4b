// Package catalog holds the in-memory item catalog: loading raw name/code
// mappings, the immutable snapshot handed to the search engine, and the
// store that swaps snapshots on reload.
package catalog

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/EliJ91/albion-market-history/internal/domain"
)

// Entry is a record together with its lower-cased match keys
type Entry struct {
	Record  domain.CatalogRecord
	NameKey string
	IDKey   string
}

// Catalog is an immutable snapshot of the known items
type Catalog struct {
	entries  []Entry
	byID     map[string]int
	loadedAt time.Time
}

// New builds a snapshot from records, keeping the first record for each
// identifier. Records with an empty identifier or name are skipped.
func New(records []domain.CatalogRecord) *Catalog {
	c := &Catalog{
		entries:  make([]Entry, 0, len(records)),
		byID:     make(map[string]int, len(records)),
		loadedAt: time.Now(),
	}

	for _, rec := range records {
		if rec.Identifier == "" || rec.DisplayName == "" {
			continue
		}
		if _, dup := c.byID[rec.Identifier]; dup {
			continue
		}
		if rec.SearchText == "" {
			rec.SearchText = strings.ToLower(rec.Identifier + " " + rec.DisplayName)
		}
		c.byID[rec.Identifier] = len(c.entries)
		c.entries = append(c.entries, Entry{
			Record:  rec,
			NameKey: strings.ToLower(rec.DisplayName),
			IDKey:   strings.ToLower(rec.Identifier),
		})
	}

	return c
}

// Len returns the number of records; a nil catalog is empty
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns the records with their match keys in catalog order.
// The slice is shared and must not be modified.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Records returns a copy of the records in catalog order
func (c *Catalog) Records() []domain.CatalogRecord {
	if c == nil {
		return nil
	}
	out := make([]domain.CatalogRecord, len(c.entries))
	for i := range c.entries {
		out[i] = c.entries[i].Record
	}
	return out
}

// Lookup finds a record by exact identifier
func (c *Catalog) Lookup(identifier string) (domain.CatalogRecord, bool) {
	if c == nil {
		return domain.CatalogRecord{}, false
	}
	i, ok := c.byID[identifier]
	if !ok {
		return domain.CatalogRecord{}, false
	}
	return c.entries[i].Record, true
}

// LoadedAt returns when the snapshot was built
func (c *Catalog) LoadedAt() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.loadedAt
}

// Store holds the current snapshot. Reloads replace it atomically so readers
// never observe a catalog mid-update.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store, optionally seeded with a snapshot
func NewStore(initial *Catalog) *Store {
	s := &Store{}
	if initial != nil {
		s.current.Store(initial)
	}
	return s
}

// Current returns the installed snapshot, or nil before the first load
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace installs a new snapshot and returns the previous one
func (s *Store) Replace(c *Catalog) *Catalog {
	return s.current.Swap(c)
}
