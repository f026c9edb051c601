package opengraph

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memex/internal/source/httpx"
)

const articlePage = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="The real title">
<meta property="og:description" content="What it is about">
<meta property="og:site_name" content="Example">
<meta property="og:type" content="article">
<meta property="og:image" content="/img/cover.jpg">
<meta property="og:image" content="https://cdn.example.com/2.jpg">
<meta property="og:image" content="/img/cover.jpg">
<meta name="author" content="Jane Doe">
<meta property="article:published_time" content="2024-03-01T10:00:00Z">
</head><body><p>hello</p></body></html>`

func TestParseArticle(t *testing.T) {
	info, err := Parse("https://example.com/posts/1", []byte(articlePage))
	require.NoError(t, err)

	assert.Equal(t, "The real title", info.Title)
	assert.Equal(t, "What it is about", info.Description)
	assert.Equal(t, "Example", info.SiteName)
	assert.Equal(t, "Jane Doe", info.Author)
	assert.Equal(t, "article", info.Type)
	assert.Equal(t, []string{"https://example.com/img/cover.jpg", "https://cdn.example.com/2.jpg"}, info.Images)
	assert.Equal(t, "https://example.com/img/cover.jpg", info.ImageURL)
	require.NotNil(t, info.PublishedAt)
	assert.True(t, info.PublishedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestParseFallsBackToHead(t *testing.T) {
	page := `<html><head><title> Plain page </title><meta name="description" content="desc"></head></html>`
	info, err := Parse("https://example.com/", []byte(page))
	require.NoError(t, err)

	assert.Equal(t, "Plain page", info.Title)
	assert.Equal(t, "desc", info.Description)
	assert.Empty(t, info.ImageURL)
	assert.Nil(t, info.PublishedAt)
}

func TestParseProductAndAudio(t *testing.T) {
	page := `<html><head>
<meta property="product:price:amount" content="19.99">
<meta property="product:price:currency" content="EUR">
</head><body><audio><source src="/ep1.mp3"></audio></body></html>`
	info, err := Parse("https://shop.example.com/p/1", []byte(page))
	require.NoError(t, err)

	assert.Equal(t, "19.99", info.Price)
	assert.Equal(t, "EUR", info.Currency)
	assert.Equal(t, "https://shop.example.com/ep1.mp3", info.AudioURL)
}

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	s := NewScraper(httpx.New(httpx.Config{MaxAttempts: 1}, slog.New(slog.NewTextHandler(io.Discard, nil))))
	info, err := s.Scrape(context.Background(), srv.URL+"/posts/1")

	require.NoError(t, err)
	assert.Equal(t, "The real title", info.Title)
	assert.Equal(t, srv.URL+"/img/cover.jpg", info.ImageURL)
}

func TestScrapeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewScraper(httpx.New(httpx.Config{MaxAttempts: 1}, slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err := s.Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
}
