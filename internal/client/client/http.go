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
	"time"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/common"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultRetryMax     = 1
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = time.Second
)

// HTTPClient implements Client over the portal REST API.
type HTTPClient struct {
	baseURL *url.URL
	http    *retryablehttp.Client
	tokens  TokenSource
}

type Option func(*retryablehttp.Client)

// WithTimeout bounds every single attempt of a request.
func WithTimeout(d time.Duration) Option {
	return func(c *retryablehttp.Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithRetryMax sets how many times a failed attempt is retried.
func WithRetryMax(n int) Option {
	return func(c *retryablehttp.Client) {
		if n >= 0 {
			c.RetryMax = n
		}
	}
}

// WithRetryWait sets the backoff bounds between attempts.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = minWait
		c.RetryWaitMax = maxWait
	}
}

// WithLogger plugs a leveled logger (a *slog.Logger fits) into the retry loop.
func WithLogger(l retryablehttp.LeveledLogger) Option {
	return func(c *retryablehttp.Client) {
		c.Logger = l
	}
}

// NewHTTPClient builds a client for the API rooted at baseURL. tokens may be
// nil, in which case every call is anonymous.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = defaultRetryMax
	rc.RetryWaitMin = defaultRetryWaitMin
	rc.RetryWaitMax = defaultRetryWaitMax
	rc.HTTPClient.Timeout = defaultTimeout
	// keep the last response so its status and message can be mapped
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	for _, opt := range opts {
		opt(rc)
	}

	return &HTTPClient{baseURL: u, http: rc, tokens: tokens}, nil
}

// MaxCallDuration is the longest one call can take: every attempt running
// into the timeout, with the longest backoff between attempts.
func (c *HTTPClient) MaxCallDuration() time.Duration {
	retries := max(c.http.RetryMax, 0)
	return time.Duration(retries+1)*c.http.HTTPClient.Timeout + time.Duration(retries)*c.http.RetryWaitMax
}

func (c *HTTPClient) Close() error {
	c.http.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

func (c *HTTPClient) FetchCurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, &common.APIError{Status: http.StatusUnauthorized, Message: "no session token", Err: common.ErrUnauthenticated}
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &raw); err != nil {
		return nil, err
	}

	var u models.User
	if err := decodePayload(raw, &u, "user", "data"); err != nil {
		return nil, err
	}
	if u.ID == "" && u.Email == "" {
		return nil, fmt.Errorf("%w: current user has neither id nor email", common.ErrMalformedResponse)
	}
	return &u, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string       `json:"token"`
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &raw); err != nil {
		return "", nil, err
	}

	var resp loginResponse
	if err := decodePayload(raw, &resp, "data"); err != nil {
		return "", nil, err
	}

	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return "", nil, fmt.Errorf("%w: login response carries no token", common.ErrMalformedResponse)
	}

	if resp.User != nil {
		return token, resp.User, nil
	}
	u, err := c.FetchCurrentUser(ctx, token)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	return c.RevokeToken(ctx, token)
}

// RevokeToken posts a logout for token. An empty token makes no call, and a
// token the server already rejects counts as revoked.
func (c *HTTPClient) RevokeToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
	if errors.Is(err, common.ErrUnauthenticated) {
		return nil
	}
	return err
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (*models.ForgotPasswordResult, error) {
	var res models.ForgotPasswordResult
	req := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", "", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := map[string]string{"token": token, "password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", "", req, nil)
}

func (c *HTTPClient) UpdateUserProfile(ctx context.Context, in models.ProfileInput) error {
	return c.authed(ctx, http.MethodPut, "/users/profile", in, nil)
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id models.ID, in models.UserUpdate) error {
	return c.authed(ctx, http.MethodPut, "/users/"+url.PathEscape(id.String()), in, nil)
}

func (c *HTTPClient) UpdateUserPassword(ctx context.Context, id models.ID, in models.PasswordChange) error {
	return c.authed(ctx, http.MethodPut, "/users/"+url.PathEscape(id.String())+"/password", in, nil)
}

func (c *HTTPClient) GetAllAreas(ctx context.Context) ([]models.Area, error) {
	var raw json.RawMessage
	if err := c.authed(ctx, http.MethodGet, "/areas", nil, &raw); err != nil {
		return nil, err
	}
	var areas []models.Area
	if err := decodePayload(raw, &areas, "areas", "data"); err != nil {
		return nil, err
	}
	return areas, nil
}

func (c *HTTPClient) CreateArea(ctx context.Context, in models.AreaInput) (*models.Area, error) {
	return c.writeArea(ctx, http.MethodPost, "/areas", in)
}

func (c *HTTPClient) UpdateArea(ctx context.Context, id models.ID, in models.AreaInput) (*models.Area, error) {
	return c.writeArea(ctx, http.MethodPut, "/areas/"+url.PathEscape(id.String()), in)
}

func (c *HTTPClient) writeArea(ctx context.Context, method, path string, in models.AreaInput) (*models.Area, error) {
	var raw json.RawMessage
	if err := c.authed(ctx, method, path, in, &raw); err != nil {
		return nil, err
	}
	var a models.Area
	if err := decodePayload(raw, &a, "area", "data"); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *HTTPClient) DeleteArea(ctx context.Context, id models.ID) error {
	return c.authed(ctx, http.MethodDelete, "/areas/"+url.PathEscape(id.String()), nil, nil)
}

func (c *HTTPClient) GetDashboardByID(ctx context.Context, id models.ID) (*models.Dashboard, error) {
	return c.dashboard(ctx, http.MethodGet, "/dashboards/"+url.PathEscape(id.String()), nil)
}

func (c *HTTPClient) CreateDashboard(ctx context.Context, in models.DashboardInput) (*models.Dashboard, error) {
	return c.dashboard(ctx, http.MethodPost, "/dashboards", in)
}

func (c *HTTPClient) UpdateDashboard(ctx context.Context, id models.ID, in models.DashboardInput) (*models.Dashboard, error) {
	return c.dashboard(ctx, http.MethodPut, "/dashboards/"+url.PathEscape(id.String()), in)
}

func (c *HTTPClient) dashboard(ctx context.Context, method, path string, in any) (*models.Dashboard, error) {
	var raw json.RawMessage
	if err := c.authed(ctx, method, path, in, &raw); err != nil {
		return nil, err
	}
	var d models.Dashboard
	if err := decodePayload(raw, &d, "dashboard", "data"); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) DeleteDashboard(ctx context.Context, id models.ID) error {
	return c.authed(ctx, http.MethodDelete, "/dashboards/"+url.PathEscape(id.String()), nil, nil)
}

func (c *HTTPClient) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	t, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	return t, nil
}

// authed performs a call with the token from the TokenSource.
func (c *HTTPClient) authed(ctx context.Context, method, path string, in, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, in, out)
}

// do sends one JSON request. out may be nil, a pointer to decode into, or a
// *json.RawMessage for callers that unwrap envelopes themselves.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = b
	}

	target := c.baseURL.JoinPath(path)
	var reqBody any
	if body != nil {
		reqBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return fmt.Errorf("%s %s: %w: %w", method, path, common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapResponseError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %w", method, path, common.ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, common.ErrMalformedResponse, err)
	}
	return nil
}

// decodePayload decodes raw into out, first unwrapping a {"<key>": ...}
// envelope when raw is an object holding one of keys.
func decodePayload(raw json.RawMessage, out any, keys ...string) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", common.ErrMalformedResponse)
	}

	if trimmed[0] == '{' && len(keys) > 0 {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			for _, k := range keys {
				if inner, ok := envelope[k]; ok && !bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
					trimmed = inner
					break
				}
			}
		}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %w", common.ErrMalformedResponse, err)
	}
	return nil
}
