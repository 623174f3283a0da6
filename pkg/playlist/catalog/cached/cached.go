// Package cached memoizes catalog lookups in a bounded LRU.
package cached

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
)

// DefaultSize is the number of phrases remembered when no size is given.
const DefaultSize = 4096

// Catalog wraps another catalog and remembers both hits and misses.
// Failed lookups are never cached.
type Catalog struct {
	next  catalog.Catalog
	cache *lru.Cache[string, []catalog.Entry]
}

var _ catalog.Catalog = (*Catalog)(nil)

// New wraps next with an LRU of the given size.
func New(next catalog.Catalog, size int) (*Catalog, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, []catalog.Entry](size)
	if err != nil {
		return nil, err
	}
	return &Catalog{next: next, cache: cache}, nil
}

// Lookup implements catalog.Catalog.
func (c *Catalog) Lookup(ctx context.Context, phrase string) ([]catalog.Entry, error) {
	if phrase == "" {
		return nil, nil
	}
	if entries, ok := c.cache.Get(phrase); ok {
		return clone(entries), nil
	}

	entries, err := c.next.Lookup(ctx, phrase)
	if err != nil {
		return nil, err
	}
	c.cache.Add(phrase, clone(entries))
	return entries, nil
}

// Len returns the number of cached phrases.
func (c *Catalog) Len() int {
	return c.cache.Len()
}

// Purge drops every cached phrase.
func (c *Catalog) Purge() {
	c.cache.Purge()
}

func clone(entries []catalog.Entry) []catalog.Entry {
	if entries == nil {
		return nil
	}
	out := make([]catalog.Entry, len(entries))
	copy(out, entries)
	return out
}
