// Package client talks to the flowfocus REST API. Client implements the
// category, task and profile services so registries can run against a
// remote server exactly as they do against Postgres.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/adanyl0v/flowfocus/internal/api"
	"github.com/adanyl0v/flowfocus/internal/services"
)

const (
	// The server binds sessions to the user agent, so it must stay stable.
	UserAgent = "flowfocus-cli"

	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

var ErrNotLoggedIn = errors.New("not logged in")

// StatusError is an API failure that maps to no known service error.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Tokens is the credential pair a client sends with every request.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Client struct {
	logger     zerolog.Logger
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	tokens   Tokens
	onRotate func(Tokens)
}

func New(logger zerolog.Logger, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) SetTokens(tokens Tokens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

func (c *Client) Tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// OnRotate registers fn to be called whenever the server hands back a new
// token pair, including the transparent refresh of an expired access token.
func (c *Client) OnRotate(fn func(Tokens)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRotate = fn
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*api.TokenResponse, error) {
	body := api.RegisterRequest{
		Name: name,
		LoginRequest: api.LoginRequest{
			Email:    email,
			Password: password,
		},
	}
	resp := new(api.TokenResponse)
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, resp, false)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	body := api.LoginRequest{
		Email:    email,
		Password: password,
	}
	resp := new(api.TokenResponse)
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, resp, false)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, true)
	if err != nil {
		return err
	}
	c.SetTokens(Tokens{})
	return nil
}

func (c *Client) Session(ctx context.Context) (*api.SessionResponse, error) {
	resp := new(api.SessionResponse)
	err := c.do(ctx, http.MethodGet, "/auth/session", nil, nil, resp, true)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
	authenticated bool,
) error {
	endpoint := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		tokens := c.Tokens()
		if tokens.AccessToken == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		if tokens.RefreshToken != "" {
			req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: tokens.RefreshToken})
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("api response")

	c.captureTokens(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// captureTokens stores rotated tokens from Set-Cookie.
func (c *Client) captureTokens(resp *http.Response) {
	c.mu.Lock()
	tokens := c.tokens
	for _, cookie := range resp.Cookies() {
		if cookie.Value == "" {
			continue
		}
		switch cookie.Name {
		case accessTokenCookie:
			tokens.AccessToken = cookie.Value
		case refreshTokenCookie:
			tokens.RefreshToken = cookie.Value
		}
	}
	rotated := tokens != c.tokens
	c.tokens = tokens
	onRotate := c.onRotate
	c.mu.Unlock()

	if rotated && onRotate != nil {
		c.logger.Debug().Msg("tokens rotated")
		onRotate(tokens)
	}
}

// knownErrors are matched by message to restore the service sentinels.
var knownErrors = []error{
	services.ErrUserNotFound,
	services.ErrUserAlreadyExists,
	services.ErrUserPasswordMismatch,
	services.ErrSessionNotFound,
	services.ErrSessionExpired,
	services.ErrTaskNotFound,
	services.ErrInvalidTaskStatus,
	services.ErrEmptyTaskTitle,
	services.ErrCategoryRequired,
	services.ErrNothingToUpdate,
	services.ErrCategoryNotFound,
	services.ErrEmptyCategoryName,
	services.ErrInvalidCategoryColor,
}

func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil || !gjson.ValidBytes(raw) {
		return &StatusError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	message := gjson.GetBytes(raw, "error").String()
	if message == "" {
		return &StatusError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if tasks := gjson.GetBytes(raw, "tasks"); resp.StatusCode == http.StatusConflict && tasks.Exists() {
		return &services.CategoryInUseError{
			Name:  gjson.GetBytes(raw, "name").String(),
			Tasks: int(tasks.Int()),
		}
	}
	for _, known := range knownErrors {
		if message == known.Error() {
			return known
		}
	}
	return &StatusError{Code: resp.StatusCode, Message: message}
}
