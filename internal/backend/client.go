// Package backend is the HTTP client for the storefront REST API
// (catalog, demo-data seeding, order submission).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"loja/internal/catalog"
	"loja/internal/logging"
	"loja/internal/order"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const maxErrorBody = 512

// Client talks to the backend under <baseURL>/api.
type Client struct {
	baseURL string
	client  *http.Client
	group   singleflight.Group
}

// NewClient creates a client for baseURL. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme and host required", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the API root the client is bound to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListProducts fetches the whole catalog, or only one category when category
// is non-empty. Concurrent identical requests share one round trip.
func (c *Client) ListProducts(ctx context.Context, category catalog.Category) ([]catalog.Product, error) {
	path := "/products"
	if category != "" {
		path = "/products/category/" + url.PathEscape(string(category))
	}

	timer := logging.StartTimer(logging.CategoryAPI, "ListProducts "+path)
	defer timer.Stop()

	v, err, shared := c.group.Do(path, func() (interface{}, error) {
		var products []catalog.Product
		if err := c.do(ctx, http.MethodGet, path, nil, nil, &products); err != nil {
			return nil, err
		}
		if products == nil {
			products = []catalog.Product{}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.APIDebug("ListProducts %s: shared in-flight result", path)
	}

	// Callers may hold on to the slice; never hand out the shared backing array.
	src := v.([]catalog.Product)
	out := make([]catalog.Product, len(src))
	copy(out, src)
	return out, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SeedDemoData asks the backend to create the demo catalog. The backend
// answers successfully both when it seeds and when data already exists, so
// callers can treat this as idempotent. The returned string is the backend's
// message.
func (c *Client) SeedDemoData(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/init-data", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// SubmitOrder posts the order. Resubmitting the same *order.Order sends the
// same Idempotency-Key, so a retry after a lost response cannot create a
// second order on a backend that honours the header.
func (c *Client) SubmitOrder(ctx context.Context, o *order.Order) (*order.Confirmation, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "SubmitOrder")
	defer timer.Stop()

	body, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}
	headers := map[string]string{"Idempotency-Key": o.Key()}

	var conf order.Confirmation
	if err := c.do(ctx, http.MethodPost, "/orders", body, headers, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, headers map[string]string, out interface{}) error {
	endpoint := c.baseURL + path
	op := method

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logging.Get(logging.CategoryAPI).Warn("%s %s failed after %v: %v (req=%s)", method, path, time.Since(start), err, reqID)
		return &NetworkError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	logging.API("%s %s -> %d in %v (req=%s)", method, path, resp.StatusCode, time.Since(start), reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &NetworkError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, URL: endpoint, StatusCode: 0, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
