package rpc

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
	"sync/atomic"
	"time"

	"regtest-transfer/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Error is a method-level failure returned by the node.
type Error = models.RPCError

// Bitcoin Core RPC error codes the callers branch on.
const (
	CodeWalletNotFound      = -18
	CodeWalletAlreadyLoaded = -35
	CodeWalletAlreadyExists = -36
	CodeInvalidAddressOrKey = -5
	CodeInWarmup            = -28
)

// HTTPError is a non-2xx reply that carried no JSON-RPC error object.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d - %s", e.StatusCode, e.Status)
}

// Options tunes the HTTP side of a Client.
type Options struct {
	// RateLimit is requests per second; zero means unlimited.
	RateLimit float64
	// Timeout bounds a single request; zero leaves it to the transport.
	Timeout time.Duration
}

// Client is an authenticated JSON-RPC session against one endpoint:
// either the node root or a single wallet under <root>/wallet/<name>.
type Client struct {
	Endpoint    string
	Wallet      string
	RateLimiter *rate.Limiter
	Logger      *zerolog.Logger
	HTTPClient  *http.Client

	root   string
	nextID *atomic.Uint64
}

// NewClient creates a node session for the given root endpoint
func NewClient(endpoint, user, pass string, opts Options, logger *zerolog.Logger) *Client {
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	root := strings.TrimRight(endpoint, "/")
	return &Client{
		Endpoint:    root,
		RateLimiter: rate.NewLimiter(limit, 1),
		Logger:      logger,
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &BasicAuthTransport{
				Base: http.DefaultTransport,
				User: user,
				Pass: pass,
			},
		},
		root:   root,
		nextID: new(atomic.Uint64),
	}
}

// ForWallet returns a session scoped to the named wallet. It shares the
// credentials, HTTP client, limiter and request id sequence of c.
func (c *Client) ForWallet(name string) *Client {
	return &Client{
		Endpoint:    c.root + "/wallet/" + url.PathEscape(name),
		Wallet:      name,
		RateLimiter: c.RateLimiter,
		Logger:      c.Logger,
		HTTPClient:  c.HTTPClient,
		root:        c.root,
		nextID:      c.nextID,
	}
}

// BasicAuthTransport sets the JSON content type and HTTP basic auth on every request
type BasicAuthTransport struct {
	Base http.RoundTripper
	User string
	Pass string
}

func (t *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(t.User, t.Pass)
	return t.Base.RoundTrip(req)
}

// Call performs one JSON-RPC request and decodes the result into result,
// which may be nil when the caller does not need it. There are no retries.
func (c *Client) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	c.Logger.Debug().
		Str("endpoint", c.Endpoint).
		Str("method", method).
		Interface("params", params).
		Msg("Making RPC call")

	if err := c.RateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit: %w", method, err)
	}

	if params == nil {
		params = []interface{}{}
	}
	request := models.RPCRequest{
		Jsonrpc: "1.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Error().
			Err(err).
			Str("endpoint", c.Endpoint).
			Str("method", method).
			Msg("RPC transport failed")
		return fmt.Errorf("%s: transport: %w", method, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", method, err)
	}

	// Bitcoin Core reports method failures as HTTP 500 with a JSON body,
	// so the body is decoded before the status code is judged.
	var response models.RPCResponse
	decodeErr := json.Unmarshal(body, &response)
	if decodeErr == nil && response.Error != nil {
		c.Logger.Debug().
			Str("method", method).
			Int("code", response.Error.Code).
			Str("message", response.Error.Message).
			Msg("RPC call returned an error")
		return fmt.Errorf("%s: %w", method, response.Error)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", method, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	if decodeErr != nil {
		return fmt.Errorf("%s: failed to decode response: %w", method, decodeErr)
	}

	if response.ID != request.ID {
		return fmt.Errorf("%s: wrong response id %d, want %d", method, response.ID, request.ID)
	}

	if result == nil || len(response.Result) == 0 {
		return nil
	}

	if err := json.Unmarshal(response.Result, result); err != nil {
		return fmt.Errorf("%s: failed to decode result: %w", method, err)
	}

	return nil
}

// IsCode reports whether err carries a node error with the given code.
func IsCode(err error, code int) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

// IsRPCError reports whether err is a method-level failure rather than a
// transport or HTTP failure.
func IsRPCError(err error) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr)
}

// Close closes the HTTP client connections
func (c *Client) Close() {
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
}
