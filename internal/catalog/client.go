// Package catalog talks to the grocery catalog gateway: product search,
// stockcode lookup, and cart management, plus the matcher that resolves a
// categorised shopping list to real products.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 10 * time.Second
)

// ErrNotFound reports that no product exists for a stockcode.
var ErrNotFound = errors.New("catalog: product not found")

// Config describes how the catalog client should be initialised.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is an HTTP client for the catalog gateway. Its timeout is applied
// per call, so one slow lookup degrades a single list item rather than the
// whole batch.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Product is one catalog product in normalised form.
type Product struct {
	Stockcode   int64   `json:"stockcode"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price"`
	Size        string  `json:"size,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	CupPrice    float64 `json:"cup_price,omitempty"`
	CupMeasure  string  `json:"cup_measure,omitempty"`
	IsAvailable bool    `json:"is_available"`
}

// IsOrganic reports whether the product presents itself as organic.
func (p Product) IsOrganic() bool {
	return strings.Contains(strings.ToLower(p.Name), "organic")
}

// CartItem is one line of the remote cart.
type CartItem struct {
	Stockcode   int64   `json:"Stockcode"`
	DisplayName string  `json:"DisplayName"`
	Price       float64 `json:"Price"`
	Quantity    int     `json:"Quantity"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("catalog: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("catalog: gateway returned status %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decode response: %w", err)
	}
	return nil
}

// Healthy reports whether the gateway answers its health check.
func (c *Client) Healthy(ctx context.Context) bool {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &status); err != nil {
		return false
	}
	return status.Status == "healthy"
}

type searchProduct struct {
	Stockcode   int64    `json:"stockcode"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Price       *float64 `json:"price"`
	Size        string   `json:"size"`
	Image       string   `json:"image"`
	CupPrice    *float64 `json:"cupPrice"`
	CupMeasure  string   `json:"cupMeasure"`
	IsAvailable bool     `json:"isAvailable"`
}

// Search queries the catalog by free-text term, returning up to limit
// products.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.New("catalog: search term must not be empty")
	}
	if limit <= 0 {
		limit = 20
	}

	var payload struct {
		Success  bool            `json:"success"`
		Error    string          `json:"error"`
		Products []searchProduct `json:"products"`
	}
	err := c.post(ctx, "/api/search", map[string]any{
		"searchTerm": term,
		"pageSize":   limit,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, fmt.Errorf("catalog: search for %q failed: %s", term, payload.Error)
	}

	products := make([]Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, Product{
			Stockcode:   p.Stockcode,
			Name:        p.Name,
			Brand:       p.Brand,
			Price:       floatOrZero(p.Price),
			Size:        p.Size,
			ImageURL:    p.Image,
			CupPrice:    floatOrZero(p.CupPrice),
			CupMeasure:  p.CupMeasure,
			IsAvailable: p.IsAvailable,
		})
	}
	return products, nil
}

type detailProduct struct {
	Stockcode       int64    `json:"Stockcode"`
	Name            string   `json:"Name"`
	DisplayName     string   `json:"DisplayName"`
	Brand           string   `json:"Brand"`
	Price           *float64 `json:"Price"`
	PackageSize     string   `json:"PackageSize"`
	MediumImageFile string   `json:"MediumImageFile"`
	IsAvailable     bool     `json:"IsAvailable"`
}

// ProductByStockcode fetches full details for one product. Returns
// ErrNotFound when the stockcode is unknown.
func (c *Client) ProductByStockcode(ctx context.Context, stockcode int64) (Product, error) {
	if stockcode <= 0 {
		return Product{}, fmt.Errorf("catalog: invalid stockcode %d", stockcode)
	}

	var payload struct {
		Success bool          `json:"success"`
		Product detailProduct `json:"product"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/product/%d", stockcode), &payload); err != nil {
		return Product{}, err
	}
	if !payload.Success || payload.Product.Stockcode == 0 {
		return Product{}, ErrNotFound
	}

	p := payload.Product
	return Product{
		Stockcode:   p.Stockcode,
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Brand:       p.Brand,
		Price:       floatOrZero(p.Price),
		Size:        p.PackageSize,
		ImageURL:    p.MediumImageFile,
		IsAvailable: p.IsAvailable,
	}, nil
}

// Cart returns the remote cart's line items.
func (c *Client) Cart(ctx context.Context) ([]CartItem, error) {
	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Cart    struct {
			Items []CartItem `json:"Items"`
		} `json:"cart"`
	}
	if err := c.get(ctx, "/api/cart", &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, fmt.Errorf("catalog: fetch cart failed: %s", payload.Error)
	}
	return payload.Cart.Items, nil
}

// AddToCart adds quantity units of a stockcode to the cart.
func (c *Client) AddToCart(ctx context.Context, stockcode int64, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	return c.cartOp(ctx, "/api/cart/add", map[string]any{
		"stockcode": stockcode,
		"quantity":  quantity,
	})
}

// UpdateCartQuantity sets the cart quantity for a stockcode.
func (c *Client) UpdateCartQuantity(ctx context.Context, stockcode int64, quantity int) error {
	return c.cartOp(ctx, "/api/cart/update", map[string]any{
		"stockcode": stockcode,
		"quantity":  quantity,
	})
}

// RemoveFromCart removes a stockcode from the cart.
func (c *Client) RemoveFromCart(ctx context.Context, stockcode int64) error {
	return c.cartOp(ctx, "/api/cart/remove", map[string]any{
		"stockcode": stockcode,
	})
}

func (c *Client) cartOp(ctx context.Context, path string, body map[string]any) error {
	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.post(ctx, path, body, &payload); err != nil {
		return err
	}
	if !payload.Success {
		return fmt.Errorf("catalog: cart operation %s failed: %s", path, payload.Error)
	}
	return nil
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
