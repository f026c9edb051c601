// Package omdb looks up movies and series in the OMDb catalog.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"memex/internal/domain"
	"memex/internal/source/httpx"
)

const DefaultBaseURL = "https://www.omdbapi.com/"

var (
	ErrNoAPIKey      = errors.New("omdb api key not configured")
	ErrTitleNotFound = errors.New("title not found")
)

type titleResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	Director   string `json:"Director"`
	Type       string `json:"Type"`
	IMDBRating string `json:"imdbRating"`
	Runtime    string `json:"Runtime"`
	Released   string `json:"Released"`
}

type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

func New(http *httpx.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: http, baseURL: baseURL, apiKey: apiKey}
}

func (c *Client) LookupTitle(ctx context.Context, imdbID string) (*domain.CatalogTitle, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("i", imdbID)
	q.Set("plot", "short")
	q.Set("apikey", c.apiKey)

	body, err := c.http.Get(ctx, c.baseURL+"?"+q.Encode(), "application/json")
	if err != nil {
		return nil, fmt.Errorf("fetch title: %w", err)
	}

	var resp titleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode title: %w", err)
	}
	if !strings.EqualFold(resp.Response, "true") {
		return nil, fmt.Errorf("%w: %s: %s", ErrTitleNotFound, imdbID, resp.Error)
	}

	title := &domain.CatalogTitle{
		Title:     resp.Title,
		Year:      resp.Year,
		Plot:      known(resp.Plot),
		Poster:    known(resp.Poster),
		Director:  known(resp.Director),
		IsSeries:  resp.Type == "series",
		Rating:    known(resp.IMDBRating),
		RuntimeMn: runtimeMinutes(resp.Runtime),
		Raw:       json.RawMessage(body),
	}
	if t, err := time.Parse("02 Jan 2006", resp.Released); err == nil {
		title.Released = &t
	}
	return title, nil
}

// known maps OMDb's "N/A" placeholder to an empty string.
func known(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}

func runtimeMinutes(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "min")))
	if err != nil {
		return 0
	}
	return n
}
