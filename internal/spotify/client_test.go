package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
)

func newTestServer(t *testing.T, search http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var tokenCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/search", search)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(srv.URL + "/v1")}, opts...)
	client, err := New(context.Background(), Credentials{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/api/token",
	}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestSearch(t *testing.T) {
	srv, tokenCalls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Expected bearer token, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("q") != "rick roll" || q.Get("type") != "track" || q.Get("limit") != "50" || q.Get("market") != "US" {
			t.Errorf("Unexpected query %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tracks": map[string]any{
				"items": []map[string]any{
					{"id": "1", "name": "Rick Roll", "uri": "spotify:track:1", "artists": []map[string]string{{"name": "A"}, {"name": "B"}}},
					{"id": "2", "name": "Rick Roll (Remix)", "uri": "spotify:track:2"},
				},
			},
		})
	})
	client := newTestClient(t, srv, WithMarket("us"))

	for i := 0; i < 2; i++ {
		hits, err := client.Search(context.Background(), "rick roll", 0)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(hits) != 2 {
			t.Fatalf("Expected 2 hits, got %d", len(hits))
		}
		if hits[0].Artist != "A, B" || hits[0].URI != "spotify:track:1" {
			t.Errorf("Unexpected entry %+v", hits[0])
		}
	}
	if atomic.LoadInt32(tokenCalls) != 1 {
		t.Errorf("Token should be fetched once and reused, got %d fetches", *tokenCalls)
	}
}

func TestSearchWithExactCatalog(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tracks":{"items":[
			{"id":"1","name":"Rick Roll","uri":"spotify:track:1"},
			{"id":"2","name":"Rick Roll (Remix)","uri":"spotify:track:2"}]}}`))
	})
	cat := catalog.Exact(newTestClient(t, srv), 10)

	got, err := cat.Lookup(context.Background(), "rick roll")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Expected only the exact title, got %+v", got)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"status":429,"message":"API rate limit exceeded"}}`))
	})
	client := newTestClient(t, srv)

	_, err := client.Search(context.Background(), "anything", 5)
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("Expected rate limit error, got %v", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Empty query should not reach the API")
	})
	client := newTestClient(t, srv)

	hits, err := client.Search(context.Background(), "  ", 5)
	if err != nil || hits != nil {
		t.Errorf("Expected nothing for empty query, got %v %v", hits, err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Credentials{ClientID: "id"})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Expected ErrMissingCredentials, got %v", err)
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	env := map[string]string{EnvClientID: " id ", EnvClientSecret: "secret"}
	creds := CredentialsFromEnv(func(k string) string { return env[k] })
	if creds.ClientID != "id" || creds.ClientSecret != "secret" {
		t.Errorf("Unexpected credentials %+v", creds)
	}
}
