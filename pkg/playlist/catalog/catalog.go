// Package catalog defines the media catalog collaborator consumed by the
// segmentation engine.
package catalog

import (
	"context"

	"github.com/cognicore/text2playlist/pkg/playlist/ingest"
)

// Entry is a playable catalog item.
type Entry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	URI    string `json:"uri,omitempty"`
}

// Catalog resolves a normalized phrase to the entries whose normalized title
// equals it exactly. An empty result means the phrase is not a title.
type Catalog interface {
	Lookup(ctx context.Context, phrase string) ([]Entry, error)
}

// Searcher is a free-text search service that may return inexact hits.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Entry, error)
}

// Func adapts a plain function to the Catalog interface.
type Func func(ctx context.Context, phrase string) ([]Entry, error)

// Lookup implements Catalog.
func (f Func) Lookup(ctx context.Context, phrase string) ([]Entry, error) {
	return f(ctx, phrase)
}

// DefaultSearchLimit is the number of search hits inspected per query.
const DefaultSearchLimit = 50

type exactCatalog struct {
	searcher Searcher
	limit    int
}

// Exact turns a Searcher into a Catalog that only accepts entries whose
// normalized title equals the query. An empty query never reaches the
// searcher.
func Exact(s Searcher, limit int) Catalog {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &exactCatalog{searcher: s, limit: limit}
}

func (c *exactCatalog) Lookup(ctx context.Context, phrase string) ([]Entry, error) {
	if phrase == "" {
		return nil, nil
	}

	hits, err := c.searcher.Search(ctx, phrase, c.limit)
	if err != nil {
		return nil, err
	}

	var matches []Entry
	for _, hit := range hits {
		if ingest.Canonical(hit.Title) == phrase {
			matches = append(matches, hit)
		}
	}
	return Dedupe(matches), nil
}

// Dedupe removes entries with a repeated ID, keeping the first occurrence.
// Entries without an ID are kept as-is.
func Dedupe(entries []Entry) []Entry {
	if len(entries) < 2 {
		return entries
	}
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != "" {
			if _, ok := seen[e.ID]; ok {
				continue
			}
			seen[e.ID] = struct{}{}
		}
		out = append(out, e)
	}
	return out
}
