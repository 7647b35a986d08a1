package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("chat", "http://127.0.0.1:8787/chat", cause)

	expected := "network error during chat at http://127.0.0.1:8787/chat: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrGatewayFailed) {
		t.Error("Expected NetworkError to match ErrGatewayFailed")
	}

	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}

	if errors.Is(err, ErrInvalidResponse) {
		t.Error("NetworkError should not match ErrInvalidResponse")
	}
}

func TestNetworkError_NoEndpoint(t *testing.T) {
	err := NewNetworkError("health", "", errors.New("boom"))
	if err.Error() != "network error during health: boom" {
		t.Errorf("Error() = %s", err.Error())
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("http://gw/chat", "no reply after 10s")

	expected := "request timed out: no reply after 10s"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if NewTimeoutError("", "").Error() != "request timed out" {
		t.Error("empty TimeoutError should use default message")
	}

	if !errors.Is(err, ErrGatewayFailed) {
		t.Error("Expected TimeoutError to match ErrGatewayFailed")
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(503, "/v1/health", "health check failed")

	expected := "API error [503] at /v1/health: health check failed"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/v1/agents", "bad")
	if noStatus.Error() != "API error at /v1/agents: bad" {
		t.Errorf("Error() = %s", noStatus.Error())
	}

	if GetHTTPStatus(fmt.Errorf("wrapped: %w", err)) != 503 {
		t.Error("GetHTTPStatus should see through wrapping")
	}
	if GetHTTPStatus(errors.New("plain")) != 0 {
		t.Error("GetHTTPStatus should be 0 for plain errors")
	}
}

func TestAPIError_WithBody(t *testing.T) {
	err := NewAPIError(500, "/chat", "oops").WithBody(strings.Repeat("x", 600))
	if len(err.Body) != 515 {
		t.Errorf("expected truncated body of 515 bytes, got %d", len(err.Body))
	}
	if !strings.HasSuffix(err.Body, "...") {
		t.Error("truncated body should end with ...")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("response is not JSON", "/chat")

	if err.Error() != "parse error: response is not JSON" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
	if !errors.Is(err, ErrGatewayFailed) {
		t.Error("Expected ParseError to match ErrGatewayFailed")
	}
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		network bool
		timeout bool
		parse   bool
		gateway bool
	}{
		{"network", NewNetworkError("chat", "", errors.New("x")), true, false, false, true},
		{"timeout", NewTimeoutError("", ""), false, true, false, true},
		{"parse", NewParseError("bad", ""), false, false, true, true},
		{"api", NewAPIError(500, "", ""), false, false, false, true},
		{"wrapped timeout", fmt.Errorf("ctx: %w", NewTimeoutError("", "")), false, true, false, true},
		{"plain", errors.New("plain"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.network {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.network)
			}
			if got := IsTimeoutError(tt.err); got != tt.timeout {
				t.Errorf("IsTimeoutError() = %v, want %v", got, tt.timeout)
			}
			if got := IsParseError(tt.err); got != tt.parse {
				t.Errorf("IsParseError() = %v, want %v", got, tt.parse)
			}
			if got := IsGatewayError(tt.err); got != tt.gateway {
				t.Errorf("IsGatewayError() = %v, want %v", got, tt.gateway)
			}
		})
	}
}

func TestGetEndpoint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api", NewAPIError(500, "/v1/health", "down"), "/v1/health"},
		{"network", NewNetworkError("chat", "/chat", errors.New("refused")), "/chat"},
		{"timeout", NewTimeoutError("/chat", ""), "/chat"},
		{"parse wrapped", fmt.Errorf("x: %w", NewParseError("bad", "/v1/agents")), "/v1/agents"},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetEndpoint(tt.err); got != tt.want {
				t.Errorf("GetEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetResponseBody(t *testing.T) {
	if got := GetResponseBody(NewAPIError(502, "/chat", "bad").WithBody("upstream")); got != "upstream" {
		t.Errorf("GetResponseBody() = %q", got)
	}
	if got := GetResponseBody(errors.New("plain")); got != "" {
		t.Errorf("GetResponseBody() = %q, want empty", got)
	}
}
