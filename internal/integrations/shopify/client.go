// Package shopify is the catalog gateway client for the Shopify admin API.
// Consumed, not reimplemented in depth: fetch failures degrade to an empty
// product list at the call site.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zokoai-middleware/internal/models"
)

// wireProduct is the admin API product shape. Tags arrive as one
// comma-separated string.
type wireProduct struct {
	Title    string                `json:"title"`
	Handle   string                `json:"handle"`
	BodyHTML string                `json:"body_html"`
	Tags     string                `json:"tags"`
	Images   []models.ProductImage `json:"images"`
}

type productsResponse struct {
	Products []wireProduct `json:"products"`
}

// Client fetches product listings from the Shopify admin REST API.
type Client struct {
	baseURL    string
	apiKey     string
	password   string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the store-derived admin URL. Test hook.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(storeName, apiKey, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    fmt.Sprintf("https://%s.myshopify.com/admin", storeName),
		apiKey:     apiKey,
		password:   password,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProducts returns up to limit products from the catalog.
func (c *Client) FetchProducts(ctx context.Context, limit int) ([]models.Product, error) {
	url := fmt.Sprintf("%s/products.json?limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("shopify: create request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, c.password)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("shopify: unexpected status %d: %s", res.StatusCode, string(buf))
	}

	var payload productsResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("shopify: decode response: %w", err)
	}

	products := make([]models.Product, 0, len(payload.Products))
	for _, wp := range payload.Products {
		products = append(products, models.Product{
			Title:    wp.Title,
			Handle:   wp.Handle,
			BodyHTML: wp.BodyHTML,
			Tags:     splitTags(wp.Tags),
			Images:   wp.Images,
		})
	}
	return products, nil
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
