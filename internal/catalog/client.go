// Package catalog talks to the external FakeStore compatible product API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/favorites_api/pkg/logging"
)

const DefaultTimeout = 8 * time.Second

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Product struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	observe    func(found bool)
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithObserver registers a callback invoked once per lookup.
func WithObserver(fn func(found bool)) Option {
	return func(c *Client) { c.observe = fn }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetByID returns the product or nil. Every failure is folded into nil.
func (c *Client) GetByID(ctx context.Context, id uint) *Product {
	p, err := c.fetch(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Debug("catalog_lookup_failed", "product_id", id, "error", err)
	}
	if c.observe != nil {
		c.observe(p != nil)
	}
	return p
}

func (c *Client) fetch(ctx context.Context, id uint) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if p.ID == 0 {
		return nil, fmt.Errorf("product %d missing from response", id)
	}
	return &p, nil
}
