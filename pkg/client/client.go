// Package client is the Go SDK for the gasline API. It owns bearer
// token injection, error normalization and the global 401 hook; domain
// endpoint methods live in the per-role service files.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Error is the normalized failure for every SDK call. Status is zero
// when the request never reached the network.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	URL     string `json:"url,omitempty"`
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// validationError reports a failure detected before any network call.
func validationError(message string) *Error {
	return &Error{Message: message, Type: "validation"}
}

// Client talks to a gasline API server.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenStore
	onUnauthorized func()

	Auth          *AuthService
	User          *UserService
	Agency        *AgencyService
	Admin         *AdminService
	Customer      *CustomerService
	DeliveryStaff *DeliveryStaffService
}

// Option configures a Client.
type Option func(*Client)

// WithTokenStore sets the token persistence backend.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUnauthorizedHandler registers the hook invoked after any 401
// response, once the persisted token has been cleared.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{client: c}
	c.User = &UserService{client: c}
	c.Agency = &AgencyService{client: c}
	c.Admin = &AdminService{client: c}
	c.Customer = &CustomerService{client: c}
	c.DeliveryStaff = &DeliveryStaffService{client: c}
	return c
}

// Token returns the currently persisted bearer token.
func (c *Client) Token() string {
	return c.tokens.Token()
}

// do performs a JSON request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err), Type: "encoding"}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: fmt.Sprintf("build request: %v", err), Type: "transport"}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// Upload is a file part of a multipart request.
type Upload struct {
	Field    string
	Filename string
	Content  io.Reader
}

// doMultipart performs a multipart/form-data request with text fields
// and file uploads, decoding the response into out.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, uploads []Upload, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return &Error{Message: fmt.Sprintf("write field %s: %v", key, err), Type: "encoding"}
		}
	}
	for _, up := range uploads {
		part, err := writer.CreateFormFile(up.Field, up.Filename)
		if err != nil {
			return &Error{Message: fmt.Sprintf("create file part %s: %v", up.Field, err), Type: "encoding"}
		}
		if _, err := io.Copy(part, up.Content); err != nil {
			return &Error{Message: fmt.Sprintf("copy file part %s: %v", up.Field, err), Type: "encoding"}
		}
	}
	if err := writer.Close(); err != nil {
		return &Error{Message: fmt.Sprintf("finalize multipart body: %v", err), Type: "encoding"}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return &Error{Message: fmt.Sprintf("build request: %v", err), Type: "transport"}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("request %s: %v", req.URL.Path, err), Type: "transport"}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: fmt.Sprintf("read response: %v", err), Type: "transport"}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.tokens.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	if resp.StatusCode >= 400 {
		return normalizeError(resp.StatusCode, req.URL.Path, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("decode response: %v", err),
				Type:    "decoding",
				URL:     req.URL.Path,
			}
		}
	}
	return nil
}

// normalizeError maps an error response body to a single human-readable
// *Error regardless of which envelope variant the server produced.
func normalizeError(status int, url string, raw []byte) *Error {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Type    string `json:"type"`
	}
	_ = json.Unmarshal(raw, &envelope)

	message := envelope.Message
	if message == "" {
		message = envelope.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Message: message, Type: envelope.Type, URL: url}
}
