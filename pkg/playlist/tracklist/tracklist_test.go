package tracklist

import (
	"reflect"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/selector"
)

func sampleSegmentation() selector.Segmentation {
	return selector.Segmentation{
		Phrases: []selector.Phrase{
			{Text: "rick roll", Matches: []catalog.Entry{
				{ID: "1", Title: "Rick Roll", URI: "spotify:track:1"},
				{ID: "2", Title: "Rick Roll", URI: "spotify:track:2"},
			}},
			{Text: "lol", Matches: []catalog.Entry{{ID: "3", Title: "LOL", URI: "spotify:track:3"}}},
			{Text: "orphan"},
		},
	}
}

func TestBuildPicksFirstMatch(t *testing.T) {
	pl := New().Build("Rick Roll LOL", sampleSegmentation(), true)

	if len(pl.Tracks) != 2 {
		t.Fatalf("Expected 2 tracks (phrase without matches skipped), got %d", len(pl.Tracks))
	}
	if pl.Tracks[0].Entry.ID != "1" {
		t.Errorf("Expected first match to be chosen, got %s", pl.Tracks[0].Entry.ID)
	}
	if len(pl.Tracks[0].Alternatives) != 1 || pl.Tracks[0].Alternatives[0].ID != "2" {
		t.Errorf("Expected remaining match as alternative, got %+v", pl.Tracks[0].Alternatives)
	}
	if len(pl.Tracks[1].Alternatives) != 0 {
		t.Error("Single-match track should have no alternatives")
	}
	if !pl.Complete || pl.Title != "Rick Roll LOL" {
		t.Errorf("Unexpected playlist header: %+v", pl)
	}

	expected := []string{"spotify:track:1", "spotify:track:3"}
	if !reflect.DeepEqual(pl.URIs(), expected) {
		t.Errorf("Expected URIs %v, got %v", expected, pl.URIs())
	}
}

func TestBuildEmptySegmentation(t *testing.T) {
	pl := New().Build("", selector.Segmentation{}, false)

	if len(pl.Tracks) != 0 {
		t.Errorf("Expected no tracks, got %d", len(pl.Tracks))
	}
	if _, err := ulid.Parse(pl.ID); err != nil {
		t.Errorf("Playlist ID should be a ULID: %v", err)
	}
}

func TestBuilderULIDUniqueness(t *testing.T) {
	builder := New()
	seg := sampleSegmentation()

	var mu sync.Mutex
	var wg sync.WaitGroup
	ids := make(map[string]bool)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				pl := builder.Build("Playlist", seg, true)
				mu.Lock()
				ids[pl.ID] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(ids) != 1000 {
		t.Errorf("Expected 1000 unique IDs, got %d", len(ids))
	}
}
