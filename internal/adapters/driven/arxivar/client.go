package arxivar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// Ensure Client implements the remote ports.
var (
	_ driven.RemoteService = (*Client)(nil)
	_ driven.IdentityAPI   = (*Client)(nil)
)

// Client calls the service's profile, management and workflow APIs.
type Client struct {
	settings domain.ConnectionSettings
	tokens   driven.TokenProvider
	limiter  *RateLimiter
	base     http.RoundTripper

	mu      sync.Mutex
	clients map[domain.Scope]*http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the underlying round tripper (defaults to http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

// NewClient creates a client authorising requests through tokens.
func NewClient(settings domain.ConnectionSettings, tokens driven.TokenProvider, opts ...Option) *Client {
	c := &Client{
		settings: settings,
		tokens:   tokens,
		limiter:  NewRateLimiter(settings.RequestsPerSecond, settings.Burst),
		base:     http.DefaultTransport,
		clients:  make(map[domain.Scope]*http.Client),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// httpClient returns the bearer-authorised client for scope.
func (c *Client) httpClient(scope domain.Scope) *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hc, ok := c.clients[scope]; ok {
		return hc
	}
	timeout := c.settings.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultTimeout
	}
	hc := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: &tokenSource{tokens: c.tokens, scope: scope, timeout: timeout},
			Base:   c.base,
		},
	}
	c.clients[scope] = hc
	return hc
}

// tokenSource adapts a TokenProvider to oauth2.TokenSource for one scope.
type tokenSource struct {
	tokens  driven.TokenProvider
	scope   domain.Scope
	timeout time.Duration
}

// Token returns the cached token for the scope. Requests warm the cache with
// their own context first, so this only exchanges credentials on a miss.
func (s *tokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	access, err := s.tokens.Token(ctx, s.scope)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
}

// request describes one API call.
type request struct {
	op     string
	scope  domain.Scope
	method string
	path   string
	query  url.Values

	// body is JSON-encoded unless raw is set.
	body        any
	raw         io.Reader
	contentType string
}

// do sends req and returns the response for the caller to consume.
func (c *Client) do(ctx context.Context, req request) (*http.Response, error) {
	if req.scope == "" {
		req.scope = domain.ScopeDefault
	}
	if _, err := c.tokens.Token(ctx, req.scope); err != nil {
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limit wait: %w", req.op, err)
	}

	endpoint, err := c.endpoint(req.scope, req.path, req.query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}

	body := req.raw
	contentType := req.contentType
	if body == nil && req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	logger.Debug("%s %s", req.method, endpoint)
	resp, err := c.httpClient(req.scope).Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s: %w: %v", req.op, domain.ErrTransport, err)
	}

	if err := checkResponse(req.op, resp); err != nil {
		resp.Body.Close()
		if IsRateLimited(err) {
			c.limiter.Backoff(retryAfter(resp))
		}
		return nil, err
	}
	return resp, nil
}

// call sends req and decodes a JSON response into out (which may be nil).
func (c *Client) call(ctx context.Context, req request, out any) error {
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.op, err)
	}
	return nil
}

func (c *Client) endpoint(scope domain.Scope, path string, query url.Values) (string, error) {
	base := c.settings.URLFor(scope)
	if base == "" {
		return "", fmt.Errorf("no base URL for scope %s: %w", scope, domain.ErrInvalidInput)
	}
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// WhoAmI returns the identity behind the scope's token.
func (c *Client) WhoAmI(ctx context.Context, scope domain.Scope) (*domain.Identity, error) {
	var info userInfo
	err := c.call(ctx, request{
		op:     "user info",
		scope:  scope,
		method: http.MethodGet,
		path:   "api/Users/userinfo",
	}, &info)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{
		Scope:       scope,
		UserID:      info.ID,
		Username:    info.Description,
		DisplayName: info.CompleteName,
		AOO:         info.AOO,
	}, nil
}

type userInfo struct {
	ID           int64  `json:"user"`
	Description  string `json:"description"`
	CompleteName string `json:"completeName"`
	AOO          string `json:"defaultBusinessUnit"`
}
