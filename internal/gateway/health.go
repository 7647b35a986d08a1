package gateway

import (
	"context"
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	apierrors "github.com/blackroad/br/internal/errors"
)

// Health is the body of GET /v1/health
type Health struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime"`
}

// Agent is one entry of GET /v1/agents
type Agent struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Role  string `json:"role"`
}

// Overview combines health and the agent registry
type Overview struct {
	Health *Health
	Agents []Agent
}

// Health fetches the gateway health document
func (c *Client) Health(ctx context.Context) (*Health, error) {
	body, err := c.getJSON(ctx, "health", EndpointHealth)
	if err != nil {
		return nil, err
	}

	return &Health{
		Status:  gjson.GetBytes(body, PathHealthStatus).String(),
		Version: gjson.GetBytes(body, PathHealthVersion).String(),
		Uptime:  gjson.GetBytes(body, PathHealthUptime).Float(),
	}, nil
}

// Agents lists the agents registered with the gateway
func (c *Client) Agents(ctx context.Context) ([]Agent, error) {
	body, err := c.getJSON(ctx, "agents", EndpointAgents)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(body, PathAgents)
	if !list.IsArray() {
		return nil, apierrors.NewParseError("agents response has no agents array", c.endpoint(EndpointAgents))
	}

	agents := make([]Agent, 0, len(list.Array()))
	list.ForEach(func(_, value gjson.Result) bool {
		agents = append(agents, Agent{
			Name:  value.Get(PathAgentName).String(),
			Title: value.Get(PathAgentTitle).String(),
			Role:  value.Get(PathAgentRole).String(),
		})
		return true
	})

	return agents, nil
}

// Overview fetches health and agents concurrently. The result always carries
// whichever parts succeeded; err is the first failure, if any. One failing
// request does not cancel the other.
func (c *Client) Overview(ctx context.Context) (*Overview, error) {
	var (
		overview Overview
		g        errgroup.Group
	)

	g.Go(func() error {
		health, err := c.Health(ctx)
		if err != nil {
			return err
		}
		overview.Health = health
		return nil
	})
	g.Go(func() error {
		agents, err := c.Agents(ctx)
		if err != nil {
			return err
		}
		overview.Agents = agents
		return nil
	})

	return &overview, g.Wait()
}

func (c *Client) getJSON(ctx context.Context, op, path string) ([]byte, error) {
	status, body, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	url := c.endpoint(path)
	if status != http.StatusOK {
		return nil, apierrors.NewAPIError(status, url, fmt.Sprintf("GET %s failed", path)).WithBody(string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError(op+" response is not valid JSON", url)
	}
	return body, nil
}
