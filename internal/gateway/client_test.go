package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/blackroad/br/internal/errors"
)

// fakeDoer is an HTTPDoer that records requests and answers through fn
type fakeDoer struct {
	mu       sync.Mutex
	fn       func(req *http.Request) (*http.Response, error)
	calls    int
	requests []*http.Request
	bodies   [][]byte
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()

	return f.fn(req)
}

func (f *fakeDoer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
}

func newTestClient(t *testing.T, doer HTTPDoer, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(doer)}, opts...)
	client, err := NewClient("http://127.0.0.1:8787", opts...)
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		opts        []ClientOption
		wantBase    string
		wantTimeout time.Duration
	}{
		{
			name:        "defaults",
			baseURL:     "http://127.0.0.1:8787",
			wantBase:    "http://127.0.0.1:8787",
			wantTimeout: 10 * time.Second,
		},
		{
			name:        "trailing slash trimmed",
			baseURL:     " http://gateway.local/ ",
			wantBase:    "http://gateway.local",
			wantTimeout: 10 * time.Second,
		},
		{
			name:        "custom timeout",
			baseURL:     "http://gateway.local",
			opts:        []ClientOption{WithTimeout(3 * time.Second)},
			wantBase:    "http://gateway.local",
			wantTimeout: 3 * time.Second,
		},
		{
			name:        "zero timeout ignored",
			baseURL:     "http://gateway.local",
			opts:        []ClientOption{WithTimeout(0)},
			wantBase:    "http://gateway.local",
			wantTimeout: 10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.opts...)
			if err != nil {
				t.Fatalf("NewClient() unexpected error: %v", err)
			}
			if client.BaseURL() != tt.wantBase {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantBase)
			}
			if client.Timeout() != tt.wantTimeout {
				t.Errorf("Timeout() = %v, want %v", client.Timeout(), tt.wantTimeout)
			}
			if client.httpClient == nil {
				t.Error("expected default HTTP client to be created")
			}
		})
	}
}

func TestClient_Chat_Request(t *testing.T) {
	doer := &fakeDoer{fn: respond(200, `{"response":"hello"}`)}
	client := newTestClient(t, doer)

	reply, err := client.Chat(context.Background(), "CECE", "hi there")
	if err != nil {
		t.Fatalf("Chat() unexpected error: %v", err)
	}
	if reply != "hello" {
		t.Errorf("Chat() = %q, want hello", reply)
	}

	if doer.callCount() != 1 {
		t.Fatalf("expected exactly 1 request, got %d", doer.callCount())
	}

	req := doer.requests[0]
	if req.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", req.Method)
	}
	if req.URL.String() != "http://127.0.0.1:8787/chat" {
		t.Errorf("url = %s", req.URL.String())
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var sent map[string]string
	if err := json.Unmarshal(doer.bodies[0], &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if len(sent) != 2 || sent["agent"] != "CECE" || sent["message"] != "hi there" {
		t.Errorf("request body = %v", sent)
	}

	if _, ok := req.Context().Deadline(); !ok {
		t.Error("request context should carry a deadline")
	}
}

func TestClient_Chat_Responses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      string
		wantParse bool
	}{
		{"string response", 200, `{"response":"hello"}`, "hello", false},
		{"empty string response", 200, `{"response":""}`, "", false},
		{"missing field", 200, `{"reply":"hello"}`, "...", false},
		{"non-string field", 200, `{"response":42}`, "...", false},
		{"null field", 200, `{"response":null}`, "...", false},
		{"object field", 200, `{"response":{"text":"x"}}`, "...", false},
		{"top-level array", 200, `["response"]`, "...", false},
		{"escaped text", 200, `{"response":"line1\nline2 \"quoted\""}`, "line1\nline2 \"quoted\"", false},
		{"error status with JSON body", 500, `{"error":"boom"}`, "...", false},
		{"error status with JSON reply", 503, `{"response":"busy"}`, "busy", false},
		{"html body", 200, `<html>oops</html>`, "", true},
		{"empty body", 200, ``, "", true},
		{"truncated JSON", 200, `{"response":"hel`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &fakeDoer{fn: respond(tt.status, tt.body)})

			reply, err := client.Chat(context.Background(), "CECE", "hi")
			if tt.wantParse {
				if err == nil {
					t.Fatalf("Chat() expected error, got reply %q", reply)
				}
				if !apierrors.IsParseError(err) {
					t.Errorf("expected ParseError, got %T: %v", err, err)
				}
				if !errors.Is(err, apierrors.ErrGatewayFailed) {
					t.Error("error should match ErrGatewayFailed")
				}
				return
			}
			if err != nil {
				t.Fatalf("Chat() unexpected error: %v", err)
			}
			if reply != tt.want {
				t.Errorf("Chat() = %q, want %q", reply, tt.want)
			}
		})
	}
}

func TestClient_Chat_TransportError(t *testing.T) {
	doer := &fakeDoer{fn: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp 127.0.0.1:8787: connect: connection refused")
	}}
	client := newTestClient(t, doer)

	_, err := client.Chat(context.Background(), "CECE", "hi")
	if err == nil {
		t.Fatal("Chat() expected error")
	}
	if !apierrors.IsNetworkError(err) {
		t.Errorf("expected NetworkError, got %T: %v", err, err)
	}
	if !errors.Is(err, apierrors.ErrGatewayFailed) {
		t.Error("error should match ErrGatewayFailed")
	}
	if doer.callCount() != 1 {
		t.Errorf("expected no retries, got %d calls", doer.callCount())
	}
}

func TestClient_Chat_Timeout(t *testing.T) {
	doer := &fakeDoer{fn: func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}}
	client := newTestClient(t, doer, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := client.Chat(context.Background(), "CECE", "hi")
	elapsed := time.Since(start)

	if !apierrors.IsTimeoutError(err) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
	if !errors.Is(err, apierrors.ErrGatewayFailed) {
		t.Error("error should match ErrGatewayFailed")
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestClient_Chat_ConnectionRefused(t *testing.T) {
	// Grab a free address, then close the listener so nothing answers
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}

	_, err = client.Chat(context.Background(), "CECE", "hi")
	if err == nil {
		t.Fatal("expected an error for an unreachable gateway")
	}
	if !errors.Is(err, apierrors.ErrGatewayFailed) {
		t.Errorf("expected ErrGatewayFailed, got %T: %v", err, err)
	}
}

func TestClient_Chat_InvalidBaseURL(t *testing.T) {
	client := newTestClient(t, &fakeDoer{fn: respond(200, `{}`)})
	client.baseURL = "http://bad host\x7f"

	_, err := client.Chat(context.Background(), "CECE", "hi")
	if !apierrors.IsNetworkError(err) {
		t.Errorf("expected NetworkError for an invalid URL, got %T: %v", err, err)
	}
}
