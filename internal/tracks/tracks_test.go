package tracks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	input := `{"id":"1","title":"Rick Roll","artist":"Rick","uri":"spotify:track:1"}

not json
{"id":"2","name":"LOL","uri":"spotify:track:2"}
`
	entries, err := Decode(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries (malformed line skipped), got %d", len(entries))
	}
	if entries[0].Title != "Rick Roll" || entries[0].Artist != "Rick" {
		t.Errorf("Unexpected first entry %+v", entries[0])
	}
	if entries[1].Title != "LOL" {
		t.Errorf("name should be accepted as title, got %+v", entries[1])
	}
}

func TestLoadFromJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracks.jsonl")
	if err := os.WriteFile(path, []byte(`{"id":"a","title":"Haha"}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadFromJSONL(path, nil)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "a" {
		t.Errorf("Unexpected entries %+v", entries)
	}
}

func TestLoadFromJSONLErrors(t *testing.T) {
	if _, err := LoadFromJSONL("/nonexistent/tracks.jsonl", nil); err == nil {
		t.Error("Should error on missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.jsonl")
	os.WriteFile(path, []byte("garbage\n"), 0644)
	if _, err := LoadFromJSONL(path, nil); err == nil {
		t.Error("Should error when no valid tracks are present")
	}
}
