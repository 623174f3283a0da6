package tracklist

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/selector"
)

// Builder turns segmentations into playlists
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new playlist builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Playlist is an ordered list of tracks spelling out the source text
type Playlist struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Complete  bool      `json:"complete"`
	Tracks    []Track   `json:"tracks"`
}

// Track is one phrase of the text and the catalog entry chosen for it
type Track struct {
	Phrase       string          `json:"phrase"`
	Entry        catalog.Entry   `json:"entry"`
	Alternatives []catalog.Entry `json:"alternatives,omitempty"`
}

// URIs returns the playable URI of every track, in order
func (p Playlist) URIs() []string {
	uris := make([]string, 0, len(p.Tracks))
	for _, t := range p.Tracks {
		if t.Entry.URI != "" {
			uris = append(uris, t.Entry.URI)
		}
	}
	return uris
}

// Build creates a playlist from a segmentation. Each phrase takes the first
// match in catalog order; the rest are kept as alternatives. Phrases without
// matches are skipped. complete records whether seg covers the whole text.
func (b *Builder) Build(title string, seg selector.Segmentation, complete bool) Playlist {
	b.mu.Lock()
	now := b.now()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	b.mu.Unlock()

	pl := Playlist{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		Complete:  complete,
		Tracks:    make([]Track, 0, len(seg.Phrases)),
	}

	for _, phrase := range seg.Phrases {
		if len(phrase.Matches) == 0 {
			continue
		}
		track := Track{
			Phrase: phrase.Text,
			Entry:  phrase.Matches[0],
		}
		if len(phrase.Matches) > 1 {
			track.Alternatives = append([]catalog.Entry(nil), phrase.Matches[1:]...)
		}
		pl.Tracks = append(pl.Tracks, track)
	}

	return pl
}
