// Package zoko is the messaging gateway client for the Zoko WhatsApp API.
// Delivery is best-effort from the dispatcher's point of view: callers log
// send failures and move on.
package zoko

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zokoai-middleware/internal/models"
)

type textPayload struct {
	To   string                 `json:"to"`
	Type string                 `json:"type"`
	Text models.ZokoMessageText `json:"text"`
}

type carouselPayload struct {
	To          string          `json:"to"`
	Type        string          `json:"type"`
	Interactive models.Carousel `json:"interactive"`
}

// Client sends messages through the Zoko REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendText delivers a plain text message to chatID.
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	return c.post(ctx, textPayload{
		To:   chatID,
		Type: "text",
		Text: models.ZokoMessageText{Body: text},
	})
}

// SendCarousel delivers an interactive carousel message to chatID.
func (c *Client) SendCarousel(ctx context.Context, chatID string, carousel models.Carousel) error {
	return c.post(ctx, carouselPayload{
		To:          chatID,
		Type:        "interactive",
		Interactive: carousel,
	})
}

func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("zoko: marshal payload: %w", err)
	}

	url := c.baseURL + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("zoko: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zoko: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("zoko: unexpected status %d from %s: %s", res.StatusCode, url, string(buf))
	}
	return nil
}
