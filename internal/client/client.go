// Package client talks to the service-properties endpoint of a storage
// account. It owns the HTTP exchange only: validation and (de)serialization
// live in internal/properties, retry and caching policy belong to the
// http.Client the caller supplies.
package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tidecraft/ballast/internal/properties"
)

// DefaultAPIVersion is the x-ms-version sent when the caller does not pick one.
const DefaultAPIVersion = "2018-03-28"

// Client issues GET/PUT service-properties requests for one account and one
// service kind. Safe for concurrent use.
type Client struct {
	endpoint   string
	account    string
	kind       properties.ServiceKind
	apiVersion string
	cred       *SharedKeyCredential
	hc         *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client (timeouts, transport,
// retries are its concern).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithSharedKey signs every request with the credential.
func WithSharedKey(cred *SharedKeyCredential) Option {
	return func(c *Client) { c.cred = cred }
}

// WithAPIVersion overrides the x-ms-version request header.
func WithAPIVersion(v string) Option {
	return func(c *Client) { c.apiVersion = v }
}

// WithLogger attaches a logger; requests are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New builds a client for one service endpoint of an account.
func New(endpoint, account string, kind properties.ServiceKind, opts ...Option) (*Client, error) {
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if account == "" {
		return nil, fmt.Errorf("account name required")
	}
	if _, err := properties.ParseServiceKind(string(kind)); err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		account:    account,
		kind:       kind,
		apiVersion: DefaultAPIVersion,
		hc:         &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetProperties reads the current service properties. Blocks absent from the
// response come back nil.
func (c *Client) GetProperties(ctx context.Context) (*properties.ServiceProperties, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get service properties: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, newStorageError(resp)
	}

	props, err := properties.Unmarshal(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got service properties",
		zap.String("account", c.account),
		zap.String("service", string(c.kind)))
	return props, nil
}

// SetProperties applies a partial update. Fields left nil on props are
// omitted from the request and keep their server-side value. Local
// validation runs first; an invalid object never reaches the network and
// surfaces as *properties.ValidationError, while service rejections surface
// as *StorageError.
func (c *Client) SetProperties(ctx context.Context, props *properties.ServiceProperties) error {
	if err := props.Validate(); err != nil {
		return err
	}

	body, err := properties.Marshal(props)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPut, body)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("set service properties: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return newStorageError(resp)
	}

	c.logger.Debug("set service properties",
		zap.String("account", c.account),
		zap.String("service", string(c.kind)))
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, body []byte) (*http.Request, error) {
	u := fmt.Sprintf("%s/%s/%s?restype=service&comp=properties", c.endpoint, c.kind, c.account)

	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("x-ms-version", c.apiVersion)
	req.Header.Set("x-ms-client-request-id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/xml")
	}
	if c.cred != nil {
		c.cred.Authorize(req)
	}
	return req, nil
}
