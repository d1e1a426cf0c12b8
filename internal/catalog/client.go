package catalog

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
)

// Client talks to the catalog REST API. It keeps two HTTP clients: one that
// attaches the bearer token and one that never does, used for login.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	public    *http.Client
	tokens    *tokenSource
	userAgent string
}

const (
	defaultAPIURL    = "http://127.0.0.1:8080"
	defaultUserAgent = "marquee/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 4 << 10
)

// Option customises a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout   time.Duration
	transport http.RoundTripper
	userAgent string
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		if strings.TrimSpace(ua) != "" {
			o.userAgent = ua
		}
	}
}

// NewClient builds a Client rooted at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	o := clientOptions{
		timeout:   requestTimeout,
		transport: http.DefaultTransport,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	tokens := &tokenSource{}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   o.timeout,
			Transport: &bearerTransport{base: o.transport, tokens: tokens},
		},
		public: &http.Client{
			Timeout:   o.timeout,
			Transport: &bearerTransport{base: o.transport},
		},
		tokens:    tokens,
		userAgent: o.userAgent,
	}, nil
}

// SetToken replaces the bearer token. An empty token sends requests without
// an Authorization header.
func (c *Client) SetToken(token string) {
	c.tokens.set(token)
}

// Token returns the bearer token currently attached to requests.
func (c *Client) Token() string {
	return c.tokens.get()
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login exchanges credentials for a token over the unauthenticated client.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	if c == nil {
		return LoginResponse{}, fmt.Errorf("client is nil")
	}
	var payload LoginResponse
	rel := &url.URL{Path: "/api/v1/login"}
	if err := c.send(ctx, c.public, http.MethodPost, rel, creds, &payload); err != nil {
		return LoginResponse{}, err
	}
	if strings.TrimSpace(payload.Token) == "" {
		return LoginResponse{}, fmt.Errorf("login response carried no token")
	}
	return payload, nil
}

// Me fetches the profile of the token holder.
func (c *Client) Me(ctx context.Context) (User, error) {
	if c == nil {
		return User{}, fmt.Errorf("client is nil")
	}
	var user User
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/v1/users/me"}, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	return c.send(ctx, c.http, method, rel, body, dest)
}

func (c *Client) send(ctx context.Context, hc *http.Client, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.JoinPath(rel.Path)
	reqURL.RawQuery = rel.RawQuery

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       rel.Path,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} or {"message": "..."} from an
// error body, falling back to the trimmed text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
