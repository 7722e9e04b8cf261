// Package aiclient talks to the remote text-generation backend. The backend
// is treated as an opaque service: it receives a prompt plus user context and
// answers with free text that downstream parsing must not trust.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultEndpoint = "http://localhost:3000/api/chat"
	defaultModel    = "gpt-4o-mini"
	defaultTimeout  = 45 * time.Second
	maxResponseSize = 1 << 20
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the client reaches the generation backend.
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient httpClient
}

// Client issues generation requests.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	client   httpClient
}

func New(cfg Config) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		model:    model,
		client:   client,
	}
}

// Request carries one generation call.
type Request struct {
	Prompt      string
	SessionID   string
	UserContext map[string]any
}

// Response holds the raw model output. Text is whatever the backend produced
// and may be truncated or malformed; callers run it through the repair chain.
type Response struct {
	Text string
}

type generatePayload struct {
	Message     string         `json:"message"`
	SessionID   string         `json:"sessionId"`
	UserContext map[string]any `json:"userContext,omitempty"`
	Model       string         `json:"model,omitempty"`
}

// Generate posts the request and extracts the text reply. Callers bound the
// call with ctx; a deadline there is honored by the underlying client.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	payload := generatePayload{
		Message:     req.Prompt,
		SessionID:   req.SessionID,
		UserContext: req.UserContext,
		Model:       c.model,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, &NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Response{}, &NetworkError{Cause: err}
	}

	if resp.StatusCode >= 500 {
		return Response{}, &ServerError{StatusCode: resp.StatusCode, Message: apiErrorMessage(respBody, resp.Status)}
	}
	if resp.StatusCode >= 400 {
		return Response{}, &ClientError{StatusCode: resp.StatusCode, Message: apiErrorMessage(respBody, resp.Status)}
	}

	text := extractText(respBody)
	if text == "" {
		return Response{}, &ServerError{StatusCode: resp.StatusCode, Message: "backend returned an empty response"}
	}
	return Response{Text: text}, nil
}

// extractText pulls the model output from whichever field the backend used.
func extractText(body []byte) string {
	doc := string(body)
	for _, field := range []string{"response", "message", "text"} {
		if v := gjson.Get(doc, field); v.Exists() {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func apiErrorMessage(body []byte, fallback string) string {
	for _, path := range []string{"error.message", "error", "message"} {
		if v := gjson.GetBytes(body, path); v.Exists() {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 200 {
		return s
	}
	return fallback
}

// ClientError is a 4xx from the backend. Never retried: the request itself
// is wrong and repeating it cannot help.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("generation backend rejected request (HTTP %d): %s", e.StatusCode, e.Message)
}

// ServerError is a 5xx from the backend.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("generation backend failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// NetworkError wraps transport-level failures, including timeouts.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("generation backend unreachable: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// IsRetryable reports whether the error is worth another attempt: server
// errors and transport failures are, 4xx rejections are not.
func IsRetryable(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return false
	}
	var se *ServerError
	if errors.As(err, &se) {
		return true
	}
	var ne *NetworkError
	return errors.As(err, &ne)
}
