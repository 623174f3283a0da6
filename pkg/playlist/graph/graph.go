// Package graph holds the candidate-segmentation graph over token boundaries.
//
// Node i is the boundary before token i; node T (the token count) is the
// boundary after the last token. An edge (start, end) is a candidate phrase
// covering tokens [start, end). Edges only point forward, so the graph is a
// DAG ordered by node index.
package graph

import (
	"fmt"
	"sort"

	"github.com/cognicore/text2playlist/pkg/playlist/internalerr"
)

// DefaultWidth is the maximum phrase width used when none is configured.
const DefaultWidth = 4

// Span is a candidate phrase covering tokens [Start, End).
type Span struct {
	Start int
	End   int
}

// Width returns the number of tokens covered by the span.
func (s Span) Width() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("(%d,%d)", s.Start, s.End)
}

// Graph is a directed acyclic graph of candidate spans.
type Graph struct {
	// out[i] holds the end nodes of edges leaving i, ascending.
	out   [][]int
	edges int
}

// Build creates the candidate graph for tokens with phrases of at most n
// tokens. Every span of width 1..n that fits inside the sequence becomes an
// edge.
func Build(tokens []string, n int) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d (must be >= 1)", internalerr.ErrInvalidWidth, n)
	}

	last := len(tokens)
	g := &Graph{out: make([][]int, last+1)}
	for i := 0; i <= last; i++ {
		for k := 1; k <= n && i+k <= last; k++ {
			g.out[i] = append(g.out[i], i+k)
			g.edges++
		}
	}
	return g, nil
}

// Nodes returns the number of boundary nodes (token count + 1).
func (g *Graph) Nodes() int {
	return len(g.out)
}

// Last returns the final boundary node.
func (g *Graph) Last() int {
	return len(g.out) - 1
}

// EdgeCount returns the number of edges currently present.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Out returns the end nodes of edges leaving node i in ascending order.
// The returned slice must not be modified.
func (g *Graph) Out(i int) []int {
	if i < 0 || i >= len(g.out) {
		return nil
	}
	return g.out[i]
}

// Edges returns all present edges ordered by start, then end.
func (g *Graph) Edges() []Span {
	spans := make([]Span, 0, g.edges)
	for start, ends := range g.out {
		for _, end := range ends {
			spans = append(spans, Span{Start: start, End: end})
		}
	}
	return spans
}

// Has reports whether the edge is present.
func (g *Graph) Has(s Span) bool {
	ends := g.Out(s.Start)
	idx := sort.SearchInts(ends, s.End)
	return idx < len(ends) && ends[idx] == s.End
}

// Remove deletes the edge if present and reports whether it was removed.
func (g *Graph) Remove(s Span) bool {
	ends := g.Out(s.Start)
	idx := sort.SearchInts(ends, s.End)
	if idx >= len(ends) || ends[idx] != s.End {
		return false
	}
	g.out[s.Start] = append(ends[:idx], ends[idx+1:]...)
	g.edges--
	return true
}

// Components returns the connected components of the graph with edge
// direction ignored. Each component lists its nodes ascending, and
// components are ordered by their smallest node. Isolated nodes form
// single-node components.
//
// This is the only traversal that treats the graph as undirected.
func (g *Graph) Components() [][]int {
	n := len(g.out)
	adj := make([][]int, n)
	for start, ends := range g.out {
		for _, end := range ends {
			adj[start] = append(adj[start], end)
			adj[end] = append(adj[end], start)
		}
	}

	seen := make([]bool, n)
	var comps [][]int
	for root := 0; root < n; root++ {
		if seen[root] {
			continue
		}
		seen[root] = true
		comp := []int{root}
		stack := []int{root}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adj[cur] {
				if !seen[next] {
					seen[next] = true
					comp = append(comp, next)
					stack = append(stack, next)
				}
			}
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}
	return comps
}
