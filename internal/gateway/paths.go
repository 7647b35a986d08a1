// Package gateway provides the HTTP client for the BlackRoad agent gateway.
package gateway

// Gateway endpoints, relative to the base URL.
const (
	EndpointChat   = "/chat"
	EndpointHealth = "/v1/health"
	EndpointAgents = "/v1/agents"
	EndpointInvoke = "/v1/invoke"
)

// GJSON paths for extracting values from gateway responses.
const (
	PathResponse      = "response"
	PathInvokeContent = "content"

	PathHealthStatus  = "status"
	PathHealthVersion = "version"
	PathHealthUptime  = "uptime"

	PathAgents     = "agents"
	PathAgentName  = "name"
	PathAgentTitle = "title"
	PathAgentRole  = "role"
)

// PlaceholderReply is returned when a chat response carries no string "response" field.
const PlaceholderReply = "..."
