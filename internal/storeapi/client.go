package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain"
)

// Client talks to the third-party store REST API. It holds no session
// state; callers pass bearer tokens explicitly.
type Client struct {
	base string
	http *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, http.MethodGet, "/products", nil, "", &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, "", &out)
	return out, err
}

func (c *Client) ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/?categoryId=%d", categoryID), nil, "", &out)
	return out, err
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, http.MethodGet, "/categories", nil, "", &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.TokenPair, error) {
	var out domain.TokenPair
	err := c.do(ctx, http.MethodPost, "/auth/login", creds, "", &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context, accessToken string) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodGet, "/auth/profile", nil, accessToken, &out)
	return out, err
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	var out domain.TokenPair
	body := map[string]string{"refreshToken": refreshToken}
	err := c.do(ctx, http.MethodPost, "/auth/refresh-token", body, "", &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, reg domain.Registration) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodPost, "/users", reg, "", &out)
	return out, err
}

func (c *Client) EmailAvailable(ctx context.Context, email string) (bool, error) {
	var out struct {
		IsAvailable bool `json:"isAvailable"`
	}
	body := map[string]string{"email": email}
	err := c.do(ctx, http.MethodPost, "/users/is-available", body, "", &out)
	return out.IsAvailable, err
}

// do performs one API round trip. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body any, bearer string, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return connError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return connError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
