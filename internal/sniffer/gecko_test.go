package sniffer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeckoFetchRecent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/networks/solana/new_pools", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))

		fmt.Fprintf(w, `{"data":[
			{"id":"solana_pool1","attributes":{"name":"WIF / SOL","pool_created_at":%q}},
			{"id":"solana_pool2","attributes":{"name":"OLD / SOL","pool_created_at":%q}},
			{"id":"","attributes":{"name":"NOID / SOL","pool_created_at":%q}},
			{"id":"solana_pool4","attributes":{"name":"BADTS / SOL","pool_created_at":"not-a-time"}},
			{"id":"solana_pool5","attributes":{"name":""}}
		]}`,
			now.Add(-time.Minute).Format(time.RFC3339),
			now.Add(-time.Hour).Format(time.RFC3339),
			now.Format(time.RFC3339))
	}))
	t.Cleanup(srv.Close)

	src := NewGeckoSource(GeckoConfig{BaseURL: srv.URL})
	src.now = func() time.Time { return now }

	listings, err := src.FetchRecent(context.Background(), 10*time.Minute)
	require.NoError(t, err)

	require.Len(t, listings, 1)
	assert.Equal(t, "WIF", listings[0].Symbol, "symbol comes from the base side of the pair")
	assert.Equal(t, "WIF / SOL", listings[0].Name)
	assert.Equal(t, "solana_pool1", listings[0].Identifier)
}

func TestGeckoFetchRecentUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	src := NewGeckoSource(GeckoConfig{BaseURL: srv.URL})
	listings, err := src.FetchRecent(context.Background(), 10*time.Minute)
	require.Error(t, err)
	assert.Empty(t, listings)
}
