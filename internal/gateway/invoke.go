package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/blackroad/br/internal/errors"
)

// InvokeRequest is the body of POST /v1/invoke
type InvokeRequest struct {
	Agent string `json:"agent"`
	Task  string `json:"task"`
}

// Invoke hands a one-shot task to agent and returns the "content" of the result.
// Unlike Chat, a non-2xx status or a missing content string is an error.
func (c *Client) Invoke(ctx context.Context, agent, task string) (string, error) {
	payload, err := json.Marshal(InvokeRequest{Agent: agent, Task: task})
	if err != nil {
		return "", fmt.Errorf("failed to marshal invoke request: %w", err)
	}

	status, body, err := c.do(ctx, "invoke", http.MethodPost, EndpointInvoke, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	url := c.endpoint(EndpointInvoke)
	if status < 200 || status > 299 {
		return "", apierrors.NewAPIError(status, url, fmt.Sprintf("POST %s failed", EndpointInvoke)).WithBody(string(body))
	}
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("invoke response is not valid JSON", url)
	}

	content := gjson.GetBytes(body, PathInvokeContent)
	if content.Type != gjson.String {
		return "", apierrors.NewParseError("invoke response has no content", url)
	}
	return content.Str, nil
}
