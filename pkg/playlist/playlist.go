package playlist

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/graph"
	"github.com/cognicore/text2playlist/pkg/playlist/ingest"
	"github.com/cognicore/text2playlist/pkg/playlist/internalerr"
	"github.com/cognicore/text2playlist/pkg/playlist/prune"
	"github.com/cognicore/text2playlist/pkg/playlist/selector"
	"github.com/cognicore/text2playlist/pkg/playlist/tracklist"
)

// Engine segments text into catalog titles
type Engine struct {
	pruner  *prune.Pruner
	builder *tracklist.Builder
	width   int
	mode    selector.Mode
	logger  *log.Logger
}

// Options configures an Engine
type Options struct {
	Catalog catalog.Catalog
	// Width is the default maximum phrase width; zero means graph.DefaultWidth.
	Width int
	// Mode is the default selection mode.
	Mode selector.Mode
	// Concurrency bounds catalog lookups in flight per request.
	Concurrency   int
	LookupTimeout time.Duration
	Logger        *log.Logger
}

// New creates an Engine with the given catalog
func New(opts Options) (*Engine, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", internalerr.ErrInvalidConfig)
	}
	if opts.Width == 0 {
		opts.Width = graph.DefaultWidth
	}
	if opts.Width < 1 {
		return nil, fmt.Errorf("%w: %d", internalerr.ErrInvalidWidth, opts.Width)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Engine{
		pruner: prune.New(prune.Options{
			Catalog:     opts.Catalog,
			Concurrency: opts.Concurrency,
			Timeout:     opts.LookupTimeout,
			Logger:      opts.Logger,
		}),
		builder: tracklist.New(),
		width:   opts.Width,
		mode:    opts.Mode,
		logger:  opts.Logger,
	}, nil
}

// Request is one segmentation request
type Request struct {
	Text string
	// Width overrides the engine's maximum phrase width when non-zero.
	Width int
	// Mode overrides the engine's selection mode when set.
	Mode *selector.Mode
}

// Segment normalizes the text, builds the candidate graph, prunes it against
// the catalog and selects segmentations.
//
// Only structural problems are returned as errors (an invalid width or a
// cancelled context). Missing coverage and failed lookups are reported in the
// result.
func (e *Engine) Segment(ctx context.Context, req Request) (selector.Result, error) {
	width := e.width
	if req.Width != 0 {
		width = req.Width
	}
	mode := e.mode
	if req.Mode != nil {
		mode = *req.Mode
	}

	// 1. Normalize
	tokens := ingest.Normalize(req.Text)

	// 2. Candidate graph
	g, err := graph.Build(tokens, width)
	if err != nil {
		return selector.Result{}, err
	}

	// 3. Prune against the catalog
	report, err := e.pruner.Prune(ctx, g, tokens)
	if err != nil {
		return selector.Result{}, err
	}

	// 4. Select
	res := selector.Select(g, tokens, report.Cache, mode)
	res.Failures = report.Failures

	e.logger.Debug("segmented text",
		"tokens", len(tokens),
		"width", width,
		"mode", mode,
		"full_coverage", res.FullCoverage,
		"segmentations", len(res.Segmentations),
		"lookup_failures", len(res.Failures))

	return res, nil
}

// Playlist segments the text and assembles the preferred segmentation into a
// playlist. The selection result is returned alongside it.
func (e *Engine) Playlist(ctx context.Context, title string, req Request) (tracklist.Playlist, selector.Result, error) {
	res, err := e.Segment(ctx, req)
	if err != nil {
		return tracklist.Playlist{}, selector.Result{}, err
	}
	if title == "" {
		title = req.Text
	}
	return e.builder.Build(title, res.Best(), res.FullCoverage), res, nil
}
