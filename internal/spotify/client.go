package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
)

// Default endpoints of the Spotify Web API.
const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Environment variables holding client credentials.
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
)

// maxLimit is the largest page size the search endpoint accepts.
const maxLimit = 50

// ErrMissingCredentials is returned when no client ID or secret is configured.
var ErrMissingCredentials = errors.New("spotify client id and secret required")

type searchResponse struct {
	Tracks struct {
		Items []track `json:"items"`
	} `json:"tracks"`
	Error *struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

type track struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URI     string `json:"uri"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

// Client searches the Spotify track catalog.
type Client struct {
	baseURL    string
	market     string
	httpClient *http.Client
}

var _ catalog.Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithMarket restricts search results to a market (ISO 3166-1 alpha-2).
func WithMarket(market string) Option {
	return func(c *Client) {
		c.market = strings.ToUpper(strings.TrimSpace(market))
	}
}

// WithHTTPClient replaces the authenticated HTTP client. The supplied client
// is used as-is and must add authorization itself.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Credentials configures the client-credentials grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// CredentialsFromEnv reads the client ID and secret from the environment.
func CredentialsFromEnv(getenv func(string) string) Credentials {
	return Credentials{
		ClientID:     strings.TrimSpace(getenv(EnvClientID)),
		ClientSecret: strings.TrimSpace(getenv(EnvClientSecret)),
	}
}

// New creates a client authenticated with the client-credentials grant.
// Tokens are fetched lazily and refreshed automatically.
func New(ctx context.Context, creds Credentials, opts ...Option) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	cc := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	httpClient := cc.Client(ctx)
	httpClient.Timeout = 10 * time.Second

	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search runs a track search and returns up to limit hits. Hits are not
// filtered; wrap the client with catalog.Exact for exact-title lookups.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]catalog.Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))
	if c.market != "" {
		params.Set("market", c.market)
	}
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build spotify search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read spotify response: %w", err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("spotify search returned %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode spotify response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices || payload.Error != nil {
		msg := http.StatusText(resp.StatusCode)
		if payload.Error != nil && payload.Error.Message != "" {
			msg = payload.Error.Message
		}
		return nil, fmt.Errorf("spotify search returned %d: %s", resp.StatusCode, msg)
	}

	entries := make([]catalog.Entry, 0, len(payload.Tracks.Items))
	for _, item := range payload.Tracks.Items {
		entries = append(entries, catalog.Entry{
			ID:     item.ID,
			Title:  item.Name,
			Artist: joinArtists(item),
			URI:    item.URI,
		})
	}
	return entries, nil
}

func joinArtists(t track) string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}
