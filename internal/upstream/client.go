// Package upstream wraps the external marketplace API. Every call goes
// through one client that attaches the bearer token and normalizes the
// {success, message, ...payload} envelope; all records are owned by the
// backend, this side only holds display copies.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRejected     = errors.New("rejected")
	ErrTransport    = errors.New("network error")
)

// GenericErrorMessage is what users see when no upstream message is
// available.
const GenericErrorMessage = "a network error occurred"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(backendURL string) *Client {
	return &Client{
		baseURL: backendURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

type apiError struct {
	kind    error
	status  int
	message string
}

func (e *apiError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%v (status %d): %s", e.kind, e.status, e.message)
	}
	return fmt.Sprintf("%v (status %d)", e.kind, e.status)
}

func (e *apiError) Unwrap() error { return e.kind }

// Message extracts the user-facing message carried by an upstream
// rejection; anything else collapses to the generic network error.
func Message(err error) string {
	var ae *apiError
	if errors.As(err, &ae) && ae.message != "" {
		return ae.message
	}
	return GenericErrorMessage
}

// do issues one JSON request. A non-empty token is attached as a bearer
// header. out, when non-nil, must embed envelope fields via its own
// struct; the body is decoded into it even on error statuses so the
// message survives.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw := json.RawMessage{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
		}
		return &apiError{kind: statusKind(resp.StatusCode), status: resp.StatusCode}
	}
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || env.failed() {
		return &apiError{kind: statusKind(resp.StatusCode), status: resp.StatusCode, message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
		}
	}
	return nil
}

func statusKind(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrRejected
	}
}
