// Package apiclient is a cookie-session HTTP client for the shop API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/service"
	"github.com/Skotchmaster/meat_shop/internal/transport"
	"github.com/Skotchmaster/meat_shop/internal/util"
)

// ErrTransport wraps failures that never produced an HTTP response.
var ErrTransport = errors.New("transport error")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient returns a client with its own cookie jar so the session cookies
// set by login are replayed on every request.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type SearchResult struct {
	Data []models.Product `json:"data"`
	Meta util.Meta        `json:"meta"`
}

type Me struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, http.MethodGet, "api/products", nil, nil, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodGet, "api/products/"+idPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, q string, page, size int) (*SearchResult, error) {
	qs := url.Values{"q": {q}}
	if page > 0 {
		qs.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		qs.Set("size", strconv.Itoa(size))
	}
	var out SearchResult
	if err := c.do(ctx, http.MethodGet, "api/products/search", qs, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodPost, "api/products", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodPut, "api/products/"+idPath(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "api/products/"+idPath(id), nil, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.do(ctx, http.MethodGet, "api/categories", nil, nil, &out)
	return out, err
}

func (c *Client) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	var out models.Category
	if err := c.do(ctx, http.MethodPost, "api/categories", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "api/categories/"+idPath(id), nil, nil, nil)
}

// Login stores the session cookies in the client's jar and returns the role.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out transport.RoleResponse
	err := c.do(ctx, http.MethodPost, "api/auth/login", nil,
		transport.Credentials{Username: username, Password: password}, &out)
	return out.Role, err
}

func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	var out transport.RoleResponse
	err := c.do(ctx, http.MethodPost, "api/auth/register", nil,
		transport.Credentials{Username: username, Password: password}, &out)
	return out.Role, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "api/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*Me, error) {
	var out Me
	if err := c.do(ctx, http.MethodGet, "api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Seed(ctx context.Context, secret string) (*service.SeedResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "api/admin/seed", nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Seed-Secret", secret)
	var out service.SeedResult
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, qs url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, qs, body)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, qs url.Values, body any) (*http.Request, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if qs != nil {
		u.RawQuery = qs.Encode()
	}

	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var body transport.ErrorResponse
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}

func idPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Status returns the HTTP status of an *APIError in err's chain, or 0.
func Status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
