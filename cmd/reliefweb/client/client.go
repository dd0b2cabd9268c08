// File: client/client.go
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/params"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/reference"
)

// Endpoint is a searchable ReliefWeb collection.
type Endpoint string

const (
	Reports   Endpoint = "reports"
	Disasters Endpoint = "disasters"
	Countries Endpoint = "countries"
	Sources   Endpoint = "sources"
)

var validEndpoints = []Endpoint{Reports, Disasters, Countries, Sources}

// ParseEndpoint checks name against the supported endpoints.
func ParseEndpoint(name string) (Endpoint, error) {
	e := Endpoint(strings.ToLower(name))
	if !slices.Contains(validEndpoints, e) {
		return "", fmt.Errorf("invalid endpoint %q", name)
	}
	return e, nil
}

// Config configures the HTTP transport shared by the API client and the
// reference loader.
type Config struct {
	BaseURI  string
	Timeout  time.Duration
	RetryMax int
}

// Client sends built request parameters to the ReliefWeb API.
type Client struct {
	BaseURI    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// Response is the part of a search response the tools rely on.
type Response struct {
	Count      int    `json:"count"`
	TotalCount int    `json:"totalCount"`
	Data       []Item `json:"data"`

	Raw json.RawMessage `json:"-"`
}

// Item is one returned document.
type Item struct {
	ID     reference.ID   `json:"id"`
	Href   string         `json:"href,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned error status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// NewHTTPClient returns a retrying *http.Client. Retries happen in the
// transport; callers see a plain client.
func NewHTTPClient(config Config, log zerolog.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = config.RetryMax
	retryClient.HTTPClient = &http.Client{
		Timeout: config.Timeout,
	}
	retryClient.Logger = leveledLogger{log: log}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return retryClient.StandardClient()
}

// New creates a Client for config.BaseURI.
func New(config Config, log zerolog.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &Client{
		BaseURI:    strings.TrimSuffix(config.BaseURI, "/"),
		HTTPClient: NewHTTPClient(config, log),
		log:        log,
	}
}

// URL returns the full request URL for p on endpoint.
func (c *Client) URL(endpoint Endpoint, p *params.Parameters) string {
	return c.BaseURI + "/" + string(endpoint) + "?" + requote(p.Encode())
}

// requote percent-encodes the bytes of an encoded query that may not appear
// in a URL. Reserved characters, brackets and existing escapes are kept.
func requote(query string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		ch := query[i]
		if isURLSafe(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[ch>>4])
		b.WriteByte(hex[ch&0x0F])
	}
	return b.String()
}

func isURLSafe(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	}
	return strings.IndexByte("-._~!#$%&'()*+,/:;=?@[]", ch) >= 0
}

// Search runs p against endpoint. p is validated again first, so a
// hand-built Parameters never reaches the API.
func (c *Client) Search(ctx context.Context, endpoint Endpoint, p *params.Parameters) (*Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	req, err := c.prepareRequest(ctx, c.URL(endpoint, p))
	if err != nil {
		return nil, err
	}

	resp := new(Response)
	if err := c.sendRequest(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) prepareRequest(ctx context.Context, uri string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")
	return req, nil
}

func (c *Client) sendRequest(req *http.Request, response *Response) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("status", resp.Status).
		Str("url", req.URL.String()).
		Msg("ReliefWeb response")

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, URL: req.URL.String(), Body: string(bodyBytes)}
	}

	if len(bodyBytes) == 0 {
		return fmt.Errorf("received empty response from server for URL: %s", req.URL.String())
	}

	if err := json.Unmarshal(bodyBytes, response); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}
	response.Raw = bodyBytes
	return nil
}

// leveledLogger routes retryablehttp logging to zerolog.
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
