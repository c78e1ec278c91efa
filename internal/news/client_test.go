package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopHeadlinesParsesAndTagsLean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top-headlines", r.URL.Path)
		assert.Equal(t, "fox-news", r.URL.Query().Get("sources"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"source": {"id": "fox-news", "name": "Fox News"},
					"author": "Staff",
					"title": "Headline one",
					"description": "Something happened",
					"url": "https://example.com/1",
					"publishedAt": "2025-11-03T08:00:00Z"
				},
				{
					"source": {"id": "", "name": "Fox News"},
					"title": "Headline two",
					"url": "https://example.com/2",
					"publishedAt": "2025-11-03T09:00:00Z"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 600, nil)
	articles, err := client.TopHeadlines(context.Background(), "fox-news")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Headline one", articles[0].Title)
	assert.Equal(t, LeanRight, articles[0].Lean)
	assert.Equal(t, "fox-news", articles[1].SourceID, "missing source id falls back to the requested one")
}

func TestTopHeadlinesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-key", 600, nil)
	_, err := client.TopHeadlines(context.Background(), "bbc-news")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestTopHeadlinesUnreachableServer(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "key", 600, nil)
	_, err := client.TopHeadlines(context.Background(), "bbc-news")
	require.Error(t, err)
}
