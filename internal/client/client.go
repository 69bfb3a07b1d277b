// Package client talks to the console API on behalf of the session manager.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/session"
)

const (
	loginPath   = "/api/v1/auth/login"
	refreshPath = "/api/v1/auth/refresh"
	logoutPath  = "/api/v1/auth/logout"
	sessionPath = "/api/v1/auth/session"
)

// Client implements session.Backend over HTTP. Tokens live in memory only
// and are never handed to the session store.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu      sync.Mutex
	access  string
	refresh string
}

func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	Tokens tokens       `json:"tokens"`
	User   session.User `json:"user"`
}

type sessionResponse struct {
	Permissions []access.Record `json:"permissions"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*session.User, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.do(ctx, http.MethodPost, loginPath, "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusBadRequest:
		return nil, session.ErrInvalidCredential
	default:
		return nil, unexpected(resp)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", session.ErrBackendUnavailable, err)
	}

	c.mu.Lock()
	c.access, c.refresh = out.Tokens.AccessToken, out.Tokens.RefreshToken
	c.mu.Unlock()
	return &out.User, nil
}

// Permissions loads the caller's records, refreshing the access token once
// when it has expired.
func (c *Client) Permissions(ctx context.Context) ([]access.Record, error) {
	token, _ := c.tokens()
	if token == "" {
		return nil, session.ErrNotAuthenticated
	}

	resp, err := c.do(ctx, http.MethodGet, sessionPath, token, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if err := c.refreshTokens(ctx); err != nil {
			return nil, err
		}
		token, _ = c.tokens()
		if resp, err = c.do(ctx, http.MethodGet, sessionPath, token, nil); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, session.ErrNotAuthenticated
	default:
		return nil, unexpected(resp)
	}

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", session.ErrBackendUnavailable, err)
	}
	return out.Permissions, nil
}

// Logout revokes both tokens on the server and forgets them locally, even
// when the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	accessToken, refreshToken := c.tokens()
	c.mu.Lock()
	c.access, c.refresh = "", ""
	c.mu.Unlock()
	if accessToken == "" {
		return nil
	}

	resp, err := c.do(ctx, http.MethodPost, logoutPath, accessToken, map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusUnauthorized {
		return unexpected(resp)
	}
	return nil
}

func (c *Client) refreshTokens(ctx context.Context) error {
	_, refreshToken := c.tokens()
	if refreshToken == "" {
		return session.ErrNotAuthenticated
	}
	resp, err := c.do(ctx, http.MethodPost, refreshPath, "", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusBadRequest:
		c.mu.Lock()
		c.access, c.refresh = "", ""
		c.mu.Unlock()
		return session.ErrNotAuthenticated
	default:
		return unexpected(resp)
	}

	var out tokens
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: decode tokens: %v", session.ErrBackendUnavailable, err)
	}
	c.mu.Lock()
	c.access, c.refresh = out.AccessToken, out.RefreshToken
	c.mu.Unlock()
	c.logger.DebugContext(ctx, "access token refreshed")
	return nil
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access, c.refresh
}

func (c *Client) do(ctx context.Context, method, path, token string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.WarnContext(ctx, "api request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", session.ErrBackendUnavailable, err)
	}
	return resp, nil
}

// unexpected turns any other status into a backend failure, keeping the
// server's error code when it sent one.
func unexpected(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&envelope)
	if envelope.Error.Code != "" {
		return fmt.Errorf("%w: %d %s: %s", session.ErrBackendUnavailable, resp.StatusCode, envelope.Error.Code, envelope.Error.Message)
	}
	return fmt.Errorf("%w: unexpected status %d", session.ErrBackendUnavailable, resp.StatusCode)
}
