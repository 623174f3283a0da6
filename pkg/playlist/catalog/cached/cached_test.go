package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
)

type countingCatalog struct {
	calls map[string]int
	fail  bool
}

func (c *countingCatalog) Lookup(ctx context.Context, phrase string) ([]catalog.Entry, error) {
	c.calls[phrase]++
	if c.fail {
		return nil, errors.New("unavailable")
	}
	if phrase == "one" {
		return []catalog.Entry{{ID: "1", Title: "One"}}, nil
	}
	return nil, nil
}

func TestCachesHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{calls: map[string]int{}}
	c, err := New(inner, 8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		got, err := c.Lookup(ctx, "one")
		if err != nil || len(got) != 1 {
			t.Fatalf("Lookup(one) = %v, %v", got, err)
		}
		if _, err := c.Lookup(ctx, "two"); err != nil {
			t.Fatal(err)
		}
	}

	if inner.calls["one"] != 1 || inner.calls["two"] != 1 {
		t.Errorf("Expected one backend call per phrase, got %v", inner.calls)
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 cached phrases, got %d", c.Len())
	}

	c.Purge()
	if c.Len() != 0 {
		t.Error("Purge should empty the cache")
	}
}

func TestDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{calls: map[string]int{}, fail: true}
	c, err := New(inner, 0)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.Lookup(ctx, "one"); err == nil {
			t.Fatal("Expected failure to propagate")
		}
	}
	if inner.calls["one"] != 2 {
		t.Errorf("Failures must not be cached, got %d calls", inner.calls["one"])
	}
}

func TestEmptyPhraseBypassesBackend(t *testing.T) {
	inner := &countingCatalog{calls: map[string]int{}}
	c, _ := New(inner, 4)

	if got, err := c.Lookup(context.Background(), ""); got != nil || err != nil {
		t.Errorf("Expected nothing for empty phrase, got %v %v", got, err)
	}
	if len(inner.calls) != 0 {
		t.Error("Empty phrase should not reach the backend")
	}
}
