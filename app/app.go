package app

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	valid "github.com/asaskevich/govalidator"
)

const (
	ValidationMessage     = "Please enter a URL to analyze."
	GenericFailureMessage = "Something went wrong while analyzing the URL."

	analyzePath = "/analyze"

	maxResponseBytes = 1 << 20
)

var (
	ErrEmptyURL          = errors.New("no URL given")
	ErrBusy              = errors.New("an analysis is already in progress")
	ErrAnalysisFailed    = errors.New("analysis failed")
	ErrMalformedResponse = errors.New("malformed response from analysis service")
)

// APIError is returned when the analysis service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrAnalysisFailed, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrAnalysisFailed
}

// TransportError is returned when no response was received at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "client: error making http request: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message is the underlying failure's text, without the request context
// net/http prepends.
func (e *TransportError) Message() string {
	var urlErr *url.Error
	if errors.As(e.Err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}

	return e.Err.Error()
}

type doer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	Endpoint string
	headers  Headers
	http     doer
}

func NewClient(endpoint string, httpClient doer, headers Headers) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		headers:  headers,
		http:     httpClient,
	}
}

// NewHTTPClient builds the client used to reach the analysis service.
// A zero timeout means no timeout.
func NewHTTPClient(timeout time.Duration, insecure bool) *http.Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}, //nolint:gosec
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// NormalizeInput trims surrounding whitespace from user input.
func NormalizeInput(raw string) string {
	return valid.Trim(raw, "")
}

func (c *Client) Analyze(ctx context.Context, rawURL string) (*Result, error) {
	input := NormalizeInput(rawURL)
	if valid.IsNull(input) {
		return nil, ErrEmptyURL
	}

	res, err := c.makeHTTPRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("could not read response body: %w", err)}
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, c.statusCodeError(res.StatusCode, body)
	}

	return c.decodeResult(body)
}

func (c *Client) decodeResult(body []byte) (*Result, error) {
	var result Result
	err := json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if result.Findings == nil {
		result.Findings = []Finding{}
	}

	return &result, nil
}

func (c *Client) statusCodeError(statusCode int, body []byte) error {
	message := GenericFailureMessage

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	return &APIError{StatusCode: statusCode, Message: message}
}

func (c *Client) makeHTTPRequest(ctx context.Context, input string) (*http.Response, error) {
	req, err := c.buildRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	return res, nil
}

func (c *Client) buildRequest(ctx context.Context, input string) (*http.Request, error) {
	payload, err := json.Marshal(analyzeRequest{URL: input})
	if err != nil {
		return nil, fmt.Errorf("client: could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.Endpoint+analyzePath,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("client: could not create request: %w", err)
	}

	c.setHeaders(req)

	return req, nil
}

func (c *Client) setHeaders(req *http.Request) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	req.Header.Set("Content-Type", "application/json")
}

// DisplayMessage is the single message shown to the user for err.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrEmptyURL) {
		return ValidationMessage
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Message()
	}

	return err.Error()
}
