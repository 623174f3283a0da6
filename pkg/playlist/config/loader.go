package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cognicore/text2playlist/internal/spotify"
	"github.com/cognicore/text2playlist/pkg/playlist"
	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/catalog/cached"
	"github.com/cognicore/text2playlist/pkg/playlist/catalog/memcatalog"
	"github.com/cognicore/text2playlist/pkg/playlist/catalog/sqlite"
)

// Loader turns a Config into ready-to-use components
type Loader struct {
	Config Config
	Logger *log.Logger
	// Getenv resolves credentials; defaults to os.Getenv.
	Getenv func(string) string
	// HTTPClient replaces the authenticated Spotify client (tests).
	HTTPClient *http.Client
}

// Components holds everything built from the configuration
type Components struct {
	Catalog catalog.Catalog
	Engine  *playlist.Engine
	closers []io.Closer
}

// Close releases resources held by the catalog backend
func (c *Components) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Load opens the configured catalog and constructs the engine
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := l.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	comp := &Components{}
	base, err := l.openCatalog(ctx, comp, logger)
	if err != nil {
		comp.Close()
		return nil, err
	}

	comp.Catalog = base
	if cfg.Cache.Size > 0 {
		wrapped, err := cached.New(base, cfg.Cache.Size)
		if err != nil {
			comp.Close()
			return nil, fmt.Errorf("create lookup cache: %w", err)
		}
		comp.Catalog = wrapped
	}

	engine, err := playlist.New(playlist.Options{
		Catalog:       comp.Catalog,
		Width:         cfg.Width,
		Mode:          cfg.SelectionMode(),
		Concurrency:   cfg.Concurrency,
		LookupTimeout: cfg.LookupTimeout,
		Logger:        logger,
	})
	if err != nil {
		comp.Close()
		return nil, err
	}
	comp.Engine = engine

	return comp, nil
}

func (l *Loader) openCatalog(ctx context.Context, comp *Components, logger *log.Logger) (catalog.Catalog, error) {
	cfg := l.Config.Catalog

	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open catalog %s: %w", cfg.Path, err)
		}
		comp.closers = append(comp.closers, store)
		logger.Debug("opened sqlite catalog", "path", cfg.Path)
		return store, nil

	case DriverSpotify:
		getenv := l.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		creds := spotify.CredentialsFromEnv(getenv)
		creds.TokenURL = cfg.TokenURL
		opts := []spotify.Option{spotify.WithMarket(cfg.Market), spotify.WithBaseURL(cfg.BaseURL)}
		if l.HTTPClient != nil {
			opts = append(opts, spotify.WithHTTPClient(l.HTTPClient))
		}
		client, err := spotify.New(ctx, creds, opts...)
		if err != nil {
			return nil, fmt.Errorf("connect to spotify: %w", err)
		}
		logger.Debug("using spotify catalog", "market", cfg.Market, "limit", cfg.Limit)
		return catalog.Exact(client, cfg.Limit), nil

	default:
		mem := memcatalog.New()
		if cfg.Seed == "" {
			logger.Warn("memory catalog has no seed file; every phrase will miss", "hint", "set catalog.seed or choose another driver")
		} else {
			entries, err := LoadSeed(cfg.Seed)
			if err != nil {
				return nil, fmt.Errorf("load seed: %w", err)
			}
			for _, e := range entries {
				mem.Add(e)
			}
			logger.Debug("loaded seed catalog", "path", cfg.Seed, "titles", mem.Len())
		}
		return mem, nil
	}
}
