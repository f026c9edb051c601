// Package assistant talks to the AI assistant service that classifies URLs
// and transcribes audio and video.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"memex/internal/domain"
	"memex/internal/source/httpx"
)

type classifyRequest struct {
	URL string `json:"url"`
}

type classifyResponse struct {
	ContentType string `json:"content_type"`
}

type transcribeRequest struct {
	URL string `json:"url"`
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
}

type Client struct {
	http    *httpx.Client
	baseURL string
}

func New(http *httpx.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: strings.TrimRight(baseURL, "/")}
}

// Classify returns ContentTypeBookmark for answers outside the known set.
func (c *Client) Classify(ctx context.Context, url string) (domain.ContentType, error) {
	var resp classifyResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/classify", classifyRequest{URL: url}, &resp); err != nil {
		return "", fmt.Errorf("classify url: %w", err)
	}
	ct, err := domain.ParseContentType(resp.ContentType)
	if err != nil {
		return domain.ContentTypeBookmark, nil
	}
	return ct, nil
}

func (c *Client) Transcribe(ctx context.Context, url string) (string, error) {
	var resp transcribeResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/transcribe", transcribeRequest{URL: url}, &resp); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Transcript), nil
}
