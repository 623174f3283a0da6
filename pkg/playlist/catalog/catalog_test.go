package catalog

import (
	"context"
	"errors"
	"testing"
)

type fakeSearcher struct {
	hits    []Entry
	err     error
	calls   int
	queries []string
	limit   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	f.calls++
	f.queries = append(f.queries, query)
	f.limit = limit
	return f.hits, f.err
}

func TestExactFiltersInexactHits(t *testing.T) {
	s := &fakeSearcher{hits: []Entry{
		{ID: "1", Title: "Rick Roll"},
		{ID: "2", Title: "Rick Roll (Remastered)"},
		{ID: "3", Title: "rick-roll"},
		{ID: "4", Title: "RICK  ROLL!"},
		{ID: "1", Title: "Rick Roll"},
	}}
	cat := Exact(s, 0)

	got, err := cat.Lookup(context.Background(), "rick roll")
	if err != nil {
		t.Fatal(err)
	}

	// "rick-roll" normalizes to "rickroll" and must not match.
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "4" {
		t.Errorf("Expected entries 1 and 4, got %+v", got)
	}
	if s.limit != DefaultSearchLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultSearchLimit, s.limit)
	}
}

func TestExactEmptyQueryShortCircuits(t *testing.T) {
	s := &fakeSearcher{hits: []Entry{{ID: "1", Title: ""}}}
	cat := Exact(s, 10)

	got, err := cat.Lookup(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Empty query should produce no matches, got %v", got)
	}
	if s.calls != 0 {
		t.Errorf("Empty query should not reach the searcher, got %d calls", s.calls)
	}
}

func TestExactPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	cat := Exact(&fakeSearcher{err: boom}, 5)

	if _, err := cat.Lookup(context.Background(), "one"); !errors.Is(err, boom) {
		t.Errorf("Expected search error, got %v", err)
	}
}

func TestFuncAdapter(t *testing.T) {
	var seen string
	cat := Func(func(ctx context.Context, phrase string) ([]Entry, error) {
		seen = phrase
		return []Entry{{ID: "x"}}, nil
	})

	got, err := cat.Lookup(context.Background(), "lol")
	if err != nil || len(got) != 1 || seen != "lol" {
		t.Errorf("Func adapter misbehaved: %v %v %q", got, err, seen)
	}
}

func TestDedupeKeepsIDlessEntries(t *testing.T) {
	in := []Entry{{Title: "a"}, {Title: "b"}, {ID: "1"}, {ID: "1"}}
	if got := Dedupe(in); len(got) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(got))
	}
}
