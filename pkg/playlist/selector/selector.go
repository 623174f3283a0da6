// Package selector picks segmentations out of a pruned candidate graph.
//
// A full segmentation is a path from node 0 to the last node; its edges
// partition the token sequence into catalog titles. When no such path exists
// the selector falls back to one representative title per connected
// component of the graph.
package selector

import (
	"fmt"
	"strings"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/graph"
	"github.com/cognicore/text2playlist/pkg/playlist/ingest"
	"github.com/cognicore/text2playlist/pkg/playlist/prune"
)

// Mode chooses which full segmentations are returned.
type Mode int

const (
	// ModeLongest returns the single segmentation with the most phrases.
	ModeLongest Mode = iota
	// ModeAll returns every full segmentation. The count can grow
	// exponentially with input length when many short phrases match.
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModeLongest:
		return "longest"
	case ModeAll:
		return "all"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode name ("longest" or "all") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "longest", "longest_path":
		return ModeLongest, nil
	case "all", "all_paths":
		return ModeAll, nil
	}
	return ModeLongest, fmt.Errorf("unknown mode %q (want longest or all)", s)
}

// Phrase is one segment of a segmentation with the catalog entries titled
// exactly like it.
type Phrase struct {
	Text    string          `json:"phrase"`
	Span    graph.Span      `json:"-"`
	Matches []catalog.Entry `json:"matches"`
}

// Segmentation is an ordered list of phrases. For full segmentations Nodes
// holds the boundary nodes visited, from 0 to the last node; best-effort
// segmentations leave it empty.
type Segmentation struct {
	Nodes   []int    `json:"nodes,omitempty"`
	Phrases []Phrase `json:"phrases"`
}

// Texts returns the phrase strings in order.
func (s Segmentation) Texts() []string {
	out := make([]string, len(s.Phrases))
	for i, p := range s.Phrases {
		out[i] = p.Text
	}
	return out
}

// Mapping returns the segmentation as phrase → matches. A phrase that occurs
// more than once keeps its first occurrence's matches.
func (s Segmentation) Mapping() map[string][]catalog.Entry {
	out := make(map[string][]catalog.Entry, len(s.Phrases))
	for _, p := range s.Phrases {
		if _, ok := out[p.Text]; !ok {
			out[p.Text] = p.Matches
		}
	}
	return out
}

// Result is the outcome of one selection.
type Result struct {
	// FullCoverage is true when at least one segmentation covers every token.
	FullCoverage bool `json:"full_coverage"`
	// Found is false only when no segmentation of any kind could be made.
	Found bool `json:"found"`
	// Segmentations holds the chosen full segmentations (one for
	// ModeLongest, all of them for ModeAll). Empty without full coverage.
	Segmentations []Segmentation `json:"segmentations,omitempty"`
	// BestEffort holds one phrase per connected component when there is no
	// full coverage.
	BestEffort Segmentation `json:"best_effort"`
	// Failures lists lookups that could not be completed. Their spans were
	// pruned like misses, so coverage may be lower than the catalog allows.
	Failures []prune.Failure `json:"lookup_failures,omitempty"`
}

// Best returns the segmentation a caller should use: the first full
// segmentation if there is one, the best-effort one otherwise.
func (r Result) Best() Segmentation {
	if len(r.Segmentations) > 0 {
		return r.Segmentations[0]
	}
	return r.BestEffort
}

// Select chooses segmentations from the pruned graph g.
func Select(g *graph.Graph, tokens []string, cache prune.Cache, mode Mode) Result {
	s := &selector{g: g, tokens: tokens, cache: cache}

	if g.Last() == 0 {
		return Result{
			FullCoverage:  true,
			Found:         true,
			Segmentations: []Segmentation{{Nodes: []int{0}, Phrases: []Phrase{}}},
		}
	}

	longest, ok := s.longestPath()
	if !ok {
		best := s.bestEffort()
		return Result{
			FullCoverage: false,
			Found:        len(best.Phrases) > 0,
			BestEffort:   best,
		}
	}

	res := Result{FullCoverage: true, Found: true}
	switch mode {
	case ModeAll:
		for _, path := range s.allPaths() {
			res.Segmentations = append(res.Segmentations, s.segmentation(path))
		}
	default:
		res.Segmentations = []Segmentation{s.segmentation(longest)}
	}
	return res
}

type selector struct {
	g      *graph.Graph
	tokens []string
	cache  prune.Cache
}

func (s *selector) phrase(start, end int) string {
	return ingest.Join(s.tokens[start:end])
}

// longestPath finds the path from 0 to the last node with the most edges.
// Nodes are processed in reverse index order, which is a reverse topological
// order because every edge points forward. Among equally long paths the one
// whose phrase sequence sorts first wins; since all candidates leaving a node
// share its start, comparing the first phrase decides it.
func (s *selector) longestPath() ([]int, bool) {
	last := s.g.Last()
	count := make([]int, last+1)
	next := make([]int, last+1)
	for i := range count {
		count[i] = -1
	}
	count[last] = 0

	for i := last - 1; i >= 0; i-- {
		bestPhrase := ""
		for _, j := range s.g.Out(i) {
			if count[j] < 0 {
				continue
			}
			c := count[j] + 1
			p := s.phrase(i, j)
			if c > count[i] || (c == count[i] && p < bestPhrase) {
				count[i] = c
				next[i] = j
				bestPhrase = p
			}
		}
	}

	if count[0] < 0 {
		return nil, false
	}
	path := []int{0}
	for n := 0; n != last; n = next[n] {
		path = append(path, next[n])
	}
	return path, true
}

// allPaths enumerates every path from 0 to the last node, visiting out-edges
// in ascending order so paths come out sorted by node sequence. Nodes that
// cannot reach the end are skipped up front.
func (s *selector) allPaths() [][]int {
	last := s.g.Last()
	reach := make([]bool, last+1)
	reach[last] = true
	for i := last - 1; i >= 0; i-- {
		for _, j := range s.g.Out(i) {
			if reach[j] {
				reach[i] = true
				break
			}
		}
	}

	var paths [][]int
	path := []int{0}
	var walk func(int)
	walk = func(n int) {
		if n == last {
			paths = append(paths, append([]int(nil), path...))
			return
		}
		for _, j := range s.g.Out(n) {
			if !reach[j] {
				continue
			}
			path = append(path, j)
			walk(j)
			path = path[:len(path)-1]
		}
	}
	if reach[0] {
		walk(0)
	}
	return paths
}

func (s *selector) segmentation(nodes []int) Segmentation {
	seg := Segmentation{Nodes: nodes, Phrases: make([]Phrase, 0, len(nodes)-1)}
	for k := 0; k+1 < len(nodes); k++ {
		span := graph.Span{Start: nodes[k], End: nodes[k+1]}
		seg.Phrases = append(seg.Phrases, Phrase{
			Text:    s.phrase(span.Start, span.End),
			Span:    span,
			Matches: s.cache[span],
		})
	}
	return seg
}

// bestEffort picks one phrase per connected component: the widest surviving
// span in the component, the earliest one on ties. Components without edges
// contribute nothing.
func (s *selector) bestEffort() Segmentation {
	seg := Segmentation{Phrases: []Phrase{}}
	for _, comp := range s.g.Components() {
		var best graph.Span
		found := false
		for _, start := range comp {
			for _, end := range s.g.Out(start) {
				span := graph.Span{Start: start, End: end}
				if !found || span.Width() > best.Width() {
					best = span
					found = true
				}
			}
		}
		if !found {
			continue
		}
		seg.Phrases = append(seg.Phrases, Phrase{
			Text:    s.phrase(best.Start, best.End),
			Span:    best,
			Matches: s.cache[best],
		})
	}
	return seg
}
