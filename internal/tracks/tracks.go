package tracks

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
)

// Item is one line of a track export
type Item struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	URI    string `json:"uri"`
}

// Entry converts the item to a catalog entry. "name" is accepted as an alias
// for "title" so raw search API dumps load unchanged.
func (it Item) Entry() catalog.Entry {
	title := it.Title
	if strings.TrimSpace(title) == "" {
		title = it.Name
	}
	return catalog.Entry{
		ID:     strings.TrimSpace(it.ID),
		Title:  title,
		Artist: it.Artist,
		URI:    strings.TrimSpace(it.URI),
	}
}

// LoadFromJSONL loads tracks from a JSONL file, skipping malformed lines
func LoadFromJSONL(path string, logger *log.Logger) ([]catalog.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Decode(f, logger)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid tracks found in %s", path)
	}
	return entries, nil
}

// Decode reads JSONL tracks from r. Malformed lines are logged and skipped.
func Decode(r io.Reader, logger *log.Logger) ([]catalog.Entry, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var entries []catalog.Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			logger.Warn("skipping malformed track", "line", lineNo, "err", err)
			continue
		}
		entries = append(entries, item.Entry())
	}
	return entries, scanner.Err()
}
