package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/teaisforme/teataster/internal/client/models"
	"github.com/teaisforme/teataster/internal/common"
)

// HTTPClient talks to the backend REST API.
type HTTPClient struct {
	baseURL string
	tokens  TokenProvider
	http    *http.Client
}

func NewHTTPClient(baseURL string, tokens TokenProvider) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, user *models.User, password string) (*models.Session, error) {
	body := map[string]string{
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
		"password":  password,
	}

	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/register", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/login", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", struct{}{}, nil)
}

func (c *HTTPClient) ListTeaCategories(ctx context.Context) ([]models.TeaCategory, error) {
	var result []models.TeaCategory
	if err := c.do(ctx, http.MethodGet, "/tea-categories", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) ListTastingNotes(ctx context.Context) ([]models.TastingNote, error) {
	var result []models.TastingNote
	if err := c.do(ctx, http.MethodGet, "/user-tasting-notes", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) SaveTastingNote(ctx context.Context, note *models.TastingNote) (*models.TastingNote, error) {
	var saved models.TastingNote
	if err := c.do(ctx, http.MethodPost, "/user-tasting-notes", note, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *HTTPClient) DeleteTastingNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/user-tasting-notes/%d", id), nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one request/response cycle. A non-nil in is sent as the JSON
// body; a non-nil out receives the decoded response body.
func (c *HTTPClient) do(ctx context.Context, method string, path string, in any, out any) error {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("failed to build request url: %w", err)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.AuthToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get auth token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: unexpected status %s", common.ErrorInternal, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
