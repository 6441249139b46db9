package docgen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStrategyChainOrder(t *testing.T) {
	chain := DefaultStrategies()
	require.Len(t, chain, 3)
	assert.Equal(t, "direct", chain[0].Name)
	assert.Equal(t, "allorigins", chain[1].Name)
	assert.Equal(t, "corsproxy", chain[2].Name)

	raw := "https://files.example.com/ticket.docx?t=1"
	assert.Equal(t, raw, chain[0].WrapURL(raw))
	assert.Equal(t, "https://api.allorigins.win/raw?url="+url.QueryEscape(raw), chain[1].WrapURL(raw))
	assert.Equal(t, "https://corsproxy.io/?"+url.QueryEscape(raw), chain[2].WrapURL(raw))
}

func TestFetchDirectSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("t"), "cache buster missing")
		_, _ = w.Write([]byte("template-bytes"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)
	body, err := f.Fetch(context.Background(), srv.URL+"/ticket.docx")
	require.NoError(t, err)
	assert.Equal(t, []byte("template-bytes"), body)
}

func TestFetchFallsThroughStrategyChain(t *testing.T) {
	var mirrorHits int
	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mirrorHits++
		_, _ = w.Write([]byte("via-mirror"))
	}))
	defer mirror.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer broken.Close()

	strategies := []Strategy{
		{Name: "direct", WrapURL: func(raw string) string { return raw }},
		{Name: "mirror", WrapURL: func(string) string { return mirror.URL }},
	}
	f := NewFetcher(nil, strategies)

	body, err := f.Fetch(context.Background(), broken.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("via-mirror"), body)
	assert.Equal(t, 1, mirrorHits)
}

func TestFetchComposedErrorEmbedsFirstFailure(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer broken.Close()

	strategies := []Strategy{
		{Name: "direct", WrapURL: func(raw string) string { return raw }},
		{Name: "mirror", WrapURL: func(string) string { return broken.URL }},
	}
	f := NewFetcher(nil, strategies)

	_, err := f.Fetch(context.Background(), broken.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check the link permissions")
	assert.Contains(t, err.Error(), "status 404")
}
