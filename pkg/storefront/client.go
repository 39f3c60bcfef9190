package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/freshplatter/platter-backend/pkg/plan"
)

// Config configures the API client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.example.com/api/v1".
	BaseURL string

	// Token is the bearer token for authenticated calls. Empty for
	// guest browsing.
	Token string

	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: missing base URL", ErrInvalidConfig)
	}
	return nil
}

// Client talks to the storefront REST API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates an API client with the given configuration.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// SetToken swaps the bearer token, e.g. after login or token refresh.
func (c *Client) SetToken(token string) {
	c.config.Token = token
}

// FetchCart returns the server's canonical cart.
func (c *Client) FetchCart(ctx context.Context) ([]CartLineItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return nil, err
	}

	var envelope cartEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart response: %w", err)
	}
	return envelope.Items, nil
}

// AddToCart persists an add and returns the resulting cart.
func (c *Client) AddToCart(ctx context.Context, productID uint, planCode plan.Code, quantity int, ingredients []IngredientSelection) ([]CartLineItem, error) {
	payload := map[string]interface{}{
		"product_id": productID,
		"plan_code":  planCode,
		"quantity":   quantity,
	}
	if len(ingredients) > 0 {
		payload["ingredients"] = ingredients
	}
	return c.cartMutation(ctx, "/cart/add", payload)
}

// RemoveFromCart removes a line and returns the resulting cart.
func (c *Client) RemoveFromCart(ctx context.Context, cartItemID uint) ([]CartLineItem, error) {
	return c.cartMutation(ctx, "/cart/remove", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
}

// UpdateCartItem changes quantity and/or plan on a line and returns the
// resulting cart.
func (c *Client) UpdateCartItem(ctx context.Context, cartItemID uint, quantity *int, planCode *plan.Code) ([]CartLineItem, error) {
	payload := map[string]interface{}{
		"cart_item_id": cartItemID,
	}
	if quantity != nil {
		payload["quantity"] = *quantity
	}
	if planCode != nil {
		payload["plan_code"] = *planCode
	}
	return c.cartMutation(ctx, "/cart/update", payload)
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) ([]CartLineItem, error) {
	return c.cartMutation(ctx, "/cart/clear", nil)
}

func (c *Client) cartMutation(ctx context.Context, path string, payload interface{}) ([]CartLineItem, error) {
	body, err := c.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var envelope cartEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart response: %w", err)
	}
	return envelope.Items, nil
}

// ListProducts returns the catalog, optionally filtered by category.
func (c *Client) ListProducts(ctx context.Context, category string) ([]Product, error) {
	path := "/products"
	if category != "" {
		path += "?category=" + category
	}

	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products response: %w", err)
	}
	return resp.Products, nil
}

// GetProduct returns one product with plan prices and ingredients.
func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Product Product `json:"product"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product response: %w", err)
	}
	return &resp.Product, nil
}

// PlaceOrder checks out the current cart.
func (c *Client) PlaceOrder(ctx context.Context, req CheckoutRequest) (*Order, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Order Order `json:"order"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order response: %w", err)
	}
	return &resp.Order, nil
}

// MyOrders returns the caller's order history.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/orders/my-orders", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders response: %w", err)
	}
	return resp.Orders, nil
}

// doRequest performs one HTTP round trip and maps failures to the
// package's sentinel errors.
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, string(body))
	}

	return body, nil
}
