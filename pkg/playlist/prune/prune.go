// Package prune removes candidate spans the catalog does not recognize.
package prune

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/graph"
	"github.com/cognicore/text2playlist/pkg/playlist/ingest"
	"github.com/cognicore/text2playlist/pkg/playlist/internalerr"
)

// DefaultConcurrency bounds the number of lookups in flight.
const DefaultConcurrency = 8

// Cache holds the matches of every surviving span. It is keyed by position so
// that a repeated word at two places in the input keeps two entries.
type Cache map[graph.Span][]catalog.Entry

// Failure records a lookup that could not be completed. The span is pruned
// as if it had no match.
type Failure struct {
	Span   graph.Span
	Phrase string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("lookup %s %q: %v", f.Span, f.Phrase, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// MarshalJSON renders the span, phrase and cause with the cause as a string.
func (f Failure) MarshalJSON() ([]byte, error) {
	var msg string
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Start  int    `json:"start"`
		End    int    `json:"end"`
		Phrase string `json:"phrase"`
		Error  string `json:"error"`
	}{f.Span.Start, f.Span.End, f.Phrase, msg})
}

// Report is the outcome of one Prune call.
type Report struct {
	Cache    Cache
	Failures []Failure
	Lookups  int
	Removed  int
}

// Options configures a Pruner.
type Options struct {
	Catalog     catalog.Catalog
	Concurrency int
	// Timeout bounds each lookup; zero leaves it to the catalog.
	Timeout time.Duration
	Logger  *log.Logger
}

// Pruner checks every candidate span against the catalog.
type Pruner struct {
	catalog     catalog.Catalog
	concurrency int
	timeout     time.Duration
	logger      *log.Logger
}

// New creates a Pruner.
func New(opts Options) *Pruner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Pruner{
		catalog:     opts.Catalog,
		concurrency: opts.Concurrency,
		timeout:     opts.Timeout,
		logger:      opts.Logger,
	}
}

type outcome struct {
	span    graph.Span
	phrase  string
	matches []catalog.Entry
	err     error
}

// Prune looks up the phrase of every edge in g and removes the edges with no
// exact catalog match. Lookups run concurrently; the graph is only modified
// after all of them have returned. A failed lookup removes its edge and is
// reported in Report.Failures without affecting the others.
//
// tokens must be the sequence g was built from. Apart from that mismatch the
// only error returned is the caller's context error.
func (p *Pruner) Prune(ctx context.Context, g *graph.Graph, tokens []string) (Report, error) {
	if len(tokens) != g.Last() {
		return Report{}, fmt.Errorf("%w: graph covers %d tokens, got %d", internalerr.ErrInvalidInput, g.Last(), len(tokens))
	}

	spans := g.Edges()
	results := make([]outcome, len(spans))

	var eg errgroup.Group
	eg.SetLimit(p.concurrency)
	for i, span := range spans {
		results[i] = outcome{span: span, phrase: ingest.Join(tokens[span.Start:span.End])}
		if results[i].phrase == "" {
			continue
		}
		eg.Go(func() error {
			results[i].matches, results[i].err = p.lookup(ctx, results[i].phrase)
			return nil
		})
	}
	eg.Wait()

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := Report{Cache: make(Cache)}
	for _, res := range results {
		if res.phrase != "" {
			report.Lookups++
		}
		if res.err != nil {
			p.logger.Warn("catalog lookup failed", "span", res.span, "phrase", res.phrase, "err", res.err)
			report.Failures = append(report.Failures, Failure{
				Span:   res.span,
				Phrase: res.phrase,
				Err:    fmt.Errorf("%w: %w", internalerr.ErrLookupFailed, res.err),
			})
		}
		if res.err != nil || len(res.matches) == 0 {
			g.Remove(res.span)
			report.Removed++
			continue
		}
		p.logger.Debug("phrase found", "span", res.span, "phrase", res.phrase, "matches", len(res.matches))
		report.Cache[res.span] = res.matches
	}

	p.logger.Debug("pruned candidate graph",
		"lookups", report.Lookups,
		"removed", report.Removed,
		"remaining", g.EdgeCount(),
		"failures", len(report.Failures))

	return report, nil
}

func (p *Pruner) lookup(ctx context.Context, phrase string) ([]catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	matches, err := p.catalog.Lookup(ctx, phrase)
	if err != nil {
		return nil, err
	}
	return catalog.Dedupe(matches), nil
}
