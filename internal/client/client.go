// Package client implements the HTTP contract of the rating backend. All
// calls are context-bound; failures come back as *apierr.APIError carrying
// the normalized backend message.
package client

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

	"rateview/internal/apierr"
	"rateview/internal/models"

	"github.com/rs/zerolog"
)

const maxErrorBody = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, req, &resp)
	return resp, err
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", "", nil, req, &resp)
	return resp, err
}

func (c *Client) ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPut, "/auth/password", token, nil, req, nil)
}

func (c *Client) AdminStats(ctx context.Context, token string) (models.AdminStats, error) {
	var stats models.AdminStats
	err := c.do(ctx, http.MethodGet, "/admin/dashboard", token, nil, nil, &stats)
	return stats, err
}

func (c *Client) AdminUsers(ctx context.Context, token string, q models.ListQuery) ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := c.do(ctx, http.MethodGet, "/admin/users", token, q.Values(), nil, &users)
	return users, err
}

func (c *Client) AdminStores(ctx context.Context, token string, q models.ListQuery) ([]models.AdminStoreRecord, error) {
	var stores []models.AdminStoreRecord
	err := c.do(ctx, http.MethodGet, "/admin/stores", token, q.Values(), nil, &stores)
	return stores, err
}

// Stores lists stores for the browsing view. That endpoint only understands
// name and address filters, so any other criteria fields are dropped here.
func (c *Client) Stores(ctx context.Context, token string, q models.ListQuery) ([]models.StoreRecord, error) {
	values := q.Values()
	values.Del("email")
	values.Del("role")
	var stores []models.StoreRecord
	err := c.do(ctx, http.MethodGet, "/stores", token, values, nil, &stores)
	return stores, err
}

func (c *Client) SubmitRating(ctx context.Context, token string, storeID, score int) error {
	path := fmt.Sprintf("/stores/%d/rating", storeID)
	return c.do(ctx, http.MethodPost, path, token, nil, models.RatingRequest{Score: score}, nil)
}

func (c *Client) OwnerDashboard(ctx context.Context, token string) ([]models.OwnerDashboardEntry, error) {
	var entries []models.OwnerDashboardEntry
	err := c.do(ctx, http.MethodGet, "/owner/dashboard", token, nil, nil, &entries)
	return entries, err
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("Request transport failure")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apierr.FromResponse(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
