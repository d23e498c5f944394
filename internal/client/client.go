package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msh-shiplu/GEM/internal/config"
	"github.com/msh-shiplu/GEM/internal/domain"
)

// RequestIDHeader carries a per-request id so server and client logs line up
const RequestIDHeader = "X-Request-ID"

// Client talks to a GEM server on behalf of one configured user
type Client struct {
	cfg        *config.LocalConfig
	httpClient *http.Client
	logger     *slog.Logger
	guards     ResilienceConfig
	resilience *resilience
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger for request events
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithResilience replaces the default resilience settings
func WithResilience(rc ResilienceConfig) Option {
	return func(c *Client) {
		c.guards = rc
	}
}

// New creates a client for the given config
func New(cfg *config.LocalConfig, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: slog.Default(),
		guards: DefaultResilienceConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.resilience = newResilience(c.guards, c.logger)

	return c
}

// Config returns the config the client was built from
func (c *Client) Config() *config.LocalConfig {
	return c.cfg
}

// Close releases resources held by the client
func (c *Client) Close() error {
	return c.resilience.Close()
}

// Post sends an authenticated request and returns the response text.
func (c *Client) Post(ctx context.Context, path string, form url.Values) (string, error) {
	if err := c.checkConfigured(); err != nil {
		return "", err
	}
	if !c.cfg.Registered() {
		return "", fmt.Errorf("%w: register first", domain.ErrNotRegistered)
	}

	if form == nil {
		form = url.Values{}
	}
	form.Set("name", c.cfg.Name)
	form.Set("password", c.cfg.Password)
	form.Set("uid", strconv.Itoa(c.cfg.Uid))
	if c.cfg.Role == domain.RoleTeacher {
		form.Set("role", string(domain.RoleTeacher))
	}

	return c.send(ctx, path, form)
}

// PostAnonymous sends a request without credentials, used for registration.
func (c *Client) PostAnonymous(ctx context.Context, path string, form url.Values) (string, error) {
	if err := c.checkConfigured(); err != nil {
		return "", err
	}
	if form == nil {
		form = url.Values{}
	}
	return c.send(ctx, path, form)
}

// URL builds a link to a page served by the GEM server.
func (c *Client) URL(path string, query url.Values) (string, error) {
	if c.cfg.Server == "" {
		return "", fmt.Errorf("%w: set the server address", domain.ErrNotConfigured)
	}
	u, err := resolve(c.cfg.Server, path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *Client) checkConfigured() error {
	if c.cfg.Server == "" {
		return fmt.Errorf("%w: set the server address", domain.ErrNotConfigured)
	}
	if c.cfg.Folder == "" {
		return fmt.Errorf("%w: set a local folder for working files", domain.ErrNotConfigured)
	}
	return nil
}

func (c *Client) send(ctx context.Context, path string, form url.Values) (string, error) {
	u, err := resolve(c.cfg.Server, path)
	if err != nil {
		return "", err
	}
	return c.resilience.do(ctx, path, func(ctx context.Context) (string, error) {
		return c.doRequest(ctx, u.String(), path, form)
	})
}

func (c *Client) doRequest(ctx context.Context, target, path string, form url.Values) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "path", path, "request_id", requestID, "error", err)
		return "", fmt.Errorf("cannot connect to server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("request",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return string(body), nil
}

func resolve(server, path string) (*url.URL, error) {
	base, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parse server address %q: %w", server, err)
	}
	return base.ResolveReference(&url.URL{Path: path}), nil
}
