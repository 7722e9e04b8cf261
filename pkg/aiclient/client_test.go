package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateExtractsTextFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"response field", `{"response":"hello"}`, "hello"},
		{"message field", `{"message":"from message"}`, "from message"},
		{"text field", `{"text":"from text"}`, "from text"},
		{"response preferred over text", `{"text":"b","response":"a"}`, "a"},
		{"empty response falls through", `{"response":"","message":"fallback"}`, "fallback"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(Config{Endpoint: srv.URL})
			resp, err := c.Generate(context.Background(), Request{Prompt: "hi", SessionID: "s1"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Text != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, resp.Text)
			}
		})
	}
}

func TestGenerateSendsPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("missing auth header, got %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, APIKey: "secret", Model: "test-model"})
	_, err := c.Generate(context.Background(), Request{
		Prompt:      "score summary",
		SessionID:   "daily-u1",
		UserContext: map[string]any{"score": 88},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["message"] != "score summary" {
		t.Fatalf("message = %v", got["message"])
	}
	if got["sessionId"] != "daily-u1" {
		t.Fatalf("sessionId = %v", got["sessionId"])
	}
	if got["model"] != "test-model" {
		t.Fatalf("model = %v", got["model"])
	}
}

func TestGenerateStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
	}{
		{"bad request", 400, `{"error":{"message":"bad prompt"}}`, false},
		{"not found", 404, `{}`, false},
		{"server error", 500, `{"error":"oops"}`, true},
		{"bad gateway", 502, ``, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(Config{Endpoint: srv.URL})
			_, err := c.Generate(context.Background(), Request{Prompt: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			if IsRetryable(err) != tc.retryable {
				t.Fatalf("IsRetryable(%v) = %v, want %v", err, !tc.retryable, tc.retryable)
			}

			if tc.status < 500 {
				var ce *ClientError
				if !errors.As(err, &ce) || ce.StatusCode != tc.status {
					t.Fatalf("expected ClientError %d, got %v", tc.status, err)
				}
			} else {
				var se *ServerError
				if !errors.As(err, &se) || se.StatusCode != tc.status {
					t.Fatalf("expected ServerError %d, got %v", tc.status, err)
				}
			}
		})
	}
}

func TestGenerateNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(Config{Endpoint: srv.URL})
	_, err := c.Generate(context.Background(), Request{Prompt: "hi"})

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !IsRetryable(err) {
		t.Fatal("network errors must be retryable")
	}
}

func TestGenerateEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL})
	_, err := c.Generate(context.Background(), Request{Prompt: "hi"})

	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError for empty payload, got %v", err)
	}
}
