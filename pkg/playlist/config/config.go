package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/graph"
	"github.com/cognicore/text2playlist/pkg/playlist/internalerr"
	"github.com/cognicore/text2playlist/pkg/playlist/prune"
	"github.com/cognicore/text2playlist/pkg/playlist/selector"
)

// Catalog drivers
const (
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"
	DriverSpotify = "spotify"
)

// Config is the text2playlist configuration file
type Config struct {
	Width         int           `yaml:"width"`
	Mode          string        `yaml:"mode"`
	Concurrency   int           `yaml:"concurrency"`
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
	Catalog       CatalogConfig `yaml:"catalog"`
	Cache         CacheConfig   `yaml:"cache"`
}

// CatalogConfig selects and configures the catalog backend
type CatalogConfig struct {
	Driver string `yaml:"driver"`
	// Path is the SQLite database for the sqlite driver.
	Path string `yaml:"path"`
	// Seed is a title file loaded into the memory driver.
	Seed string `yaml:"seed"`
	// Limit is the number of search hits inspected per phrase (spotify).
	Limit  int    `yaml:"limit"`
	Market string `yaml:"market"`
	// BaseURL and TokenURL override the Spotify endpoints.
	BaseURL  string `yaml:"base_url"`
	TokenURL string `yaml:"token_url"`
}

// CacheConfig configures the lookup LRU; a zero size disables it
type CacheConfig struct {
	Size int `yaml:"size"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Width:       graph.DefaultWidth,
		Mode:        selector.ModeLongest.String(),
		Concurrency: prune.DefaultConcurrency,
		Catalog: CatalogConfig{
			Driver: DriverMemory,
			Limit:  catalog.DefaultSearchLimit,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot use
func (c Config) Validate() error {
	if c.Width < 1 {
		return fmt.Errorf("%w: width must be >= 1, got %d", internalerr.ErrInvalidConfig, c.Width)
	}
	if _, err := selector.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.LookupTimeout < 0 {
		return fmt.Errorf("%w: lookup_timeout must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("%w: cache size must not be negative", internalerr.ErrInvalidConfig)
	}

	switch strings.ToLower(c.Catalog.Driver) {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Catalog.Path) == "" {
			return fmt.Errorf("%w: sqlite catalog requires a path", internalerr.ErrInvalidConfig)
		}
	case DriverSpotify:
	default:
		return fmt.Errorf("%w: unknown catalog driver %q", internalerr.ErrInvalidConfig, c.Catalog.Driver)
	}
	return nil
}

// SelectionMode returns the parsed selection mode
func (c Config) SelectionMode() selector.Mode {
	mode, _ := selector.ParseMode(c.Mode)
	return mode
}

// LoadSeed loads catalog entries from a title file
// Format: title|id|artist|uri (only title is required)
func LoadSeed(path string) ([]catalog.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] == "" {
			continue
		}

		entry := catalog.Entry{Title: parts[0]}
		if len(parts) > 1 {
			entry.ID = parts[1]
		}
		if len(parts) > 2 {
			entry.Artist = parts[2]
		}
		if len(parts) > 3 {
			entry.URI = parts[3]
		}
		if entry.ID == "" {
			entry.ID = entry.Title
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
