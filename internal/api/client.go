// Package api is the HTTP transport to the remote banking service. It knows
// the endpoint paths and the JSON shapes the client renders; all business
// rules live on the server.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/bankdesk/internal/logging"
)

const (
	EndpointRegister      = "/api/register"
	EndpointLogin         = "/api/login"
	EndpointCreateAccount = "/api/create_account"
	EndpointDeposit       = "/api/deposit"
	EndpointWithdraw      = "/api/withdraw"
	EndpointTransfer      = "/api/transfer"
	EndpointUpdateAccount = "/api/update_account"
	EndpointDeleteAccount = "/api/delete_account"
	EndpointViewAccount   = "/api/view_account"
	EndpointAccounts      = "/api/accounts"
	EndpointBlockchain    = "/api/blockchain"
	EndpointValidateChain = "/api/validate_chain"

	// RequestIDHeader carries a per-request id for log correlation.
	RequestIDHeader = "X-Request-ID"
)

// Client issues requests against one service base URL. Session cookies set by
// the service are kept in a jar for the life of the Client and never
// inspected.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, including its cookie
// jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{Jar: jar},
		log:     logging.Component(nil, "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// PostForm sends fields as an application/x-www-form-urlencoded body and
// decodes the JSON reply. A non-2xx status is not an error: it is reported in
// Result.Status with the server's message. Errors are always *TransportError.
func (c *Client) PostForm(ctx context.Context, endpoint string, fields map[string]string) (Result, error) {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := c.do(req, endpoint)
	if err != nil {
		return Result{}, err
	}
	return decodeResult(endpoint, status, body)
}

// GetText issues a GET and returns the body as-is, whatever the status.
func (c *Client) GetText(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return "", &TransportError{Endpoint: endpoint, Err: err}
	}
	_, body, err := c.do(req, endpoint)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON issues a GET and decodes the JSON reply.
func (c *Client) GetJSON(ctx context.Context, endpoint string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return Result{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	status, body, err := c.do(req, endpoint)
	if err != nil {
		return Result{}, err
	}
	return decodeResult(endpoint, status, body)
}

func (c *Client) do(req *http.Request, endpoint string) (int, []byte, error) {
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	log := c.log.WithFields(logrus.Fields{
		"request_id": reqID,
		"method":     req.Method,
		"endpoint":   endpoint,
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return 0, nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("read response body")
		return 0, nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
		"size":     humanize.Bytes(uint64(len(body))),
	}).Info("request done")
	return resp.StatusCode, body, nil
}

func decodeResult(endpoint string, status int, body []byte) (Result, error) {
	var payload struct {
		Message string   `json:"message"`
		Account *Account `json:"account"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return Result{Status: status, Message: payload.Message, Account: payload.Account}, nil
}
