package memcatalog

import (
	"context"
	"sync"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/ingest"
)

// Catalog is an in-memory exact-title catalog. Titles are indexed by their
// normalized form.
type Catalog struct {
	mu      sync.RWMutex
	byTitle map[string][]catalog.Entry
	ids     map[string]struct{}
}

var _ catalog.Catalog = (*Catalog)(nil)

// New creates a catalog holding the given entries.
func New(entries ...catalog.Entry) *Catalog {
	c := &Catalog{
		byTitle: make(map[string][]catalog.Entry),
		ids:     make(map[string]struct{}),
	}
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// FromTitles builds a catalog with one entry per title, using the title's
// normalized form as the ID.
func FromTitles(titles ...string) *Catalog {
	c := New()
	for _, title := range titles {
		c.Add(catalog.Entry{ID: ingest.Canonical(title), Title: title})
	}
	return c
}

// Add inserts an entry. Entries whose title normalizes to an empty phrase or
// whose ID is already present are ignored.
func (c *Catalog) Add(e catalog.Entry) bool {
	key := ingest.Canonical(e.Title)
	if key == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e.ID != "" {
		if _, ok := c.ids[e.ID]; ok {
			return false
		}
		c.ids[e.ID] = struct{}{}
	}
	c.byTitle[key] = append(c.byTitle[key], e)
	return true
}

// Lookup returns a copy of the entries titled exactly phrase.
func (c *Catalog) Lookup(ctx context.Context, phrase string) ([]catalog.Entry, error) {
	if phrase == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := c.byTitle[phrase]
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]catalog.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Len returns the number of distinct titles.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byTitle)
}
