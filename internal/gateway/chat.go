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

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Agent   string `json:"agent"`
	Message string `json:"message"`
}

// Chat posts one message for agent and returns the reply text.
// Any JSON body counts as success; a missing or non-string "response"
// field yields PlaceholderReply. The HTTP status is not inspected.
func (c *Client) Chat(ctx context.Context, agent, message string) (string, error) {
	payload, err := json.Marshal(ChatRequest{Agent: agent, Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	_, body, err := c.do(ctx, "chat", http.MethodPost, EndpointChat, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	return parseChatResponse(body, c.endpoint(EndpointChat))
}

func parseChatResponse(body []byte, endpoint string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("chat response is not valid JSON", endpoint)
	}

	reply := gjson.GetBytes(body, PathResponse)
	if reply.Type != gjson.String {
		return PlaceholderReply, nil
	}
	return reply.Str, nil
}
