package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/blackroad/br/internal/gateway"
	"github.com/blackroad/br/internal/history"
	"github.com/blackroad/br/internal/metrics"
)

// GatewayClient defines the gateway operations the commands need.
type GatewayClient interface {
	Chat(ctx context.Context, agent, message string) (string, error)
	Invoke(ctx context.Context, agent, task string) (string, error)
	Health(ctx context.Context) (*gateway.Health, error)
	Agents(ctx context.Context) ([]gateway.Agent, error)
	Overview(ctx context.Context) (*gateway.Overview, error)
	BaseURL() string
}

// HistoryStore defines the transcript operations the commands need.
type HistoryStore interface {
	Record(ctx context.Context, e history.Exchange) error
	List(ctx context.Context, limit int) ([]history.Exchange, error)
	Sessions(ctx context.Context, limit int) ([]history.SessionSummary, error)
	ResolveSession(ctx context.Context, prefix string) (string, error)
	Export(ctx context.Context, sessionID string, format history.ExportFormat) ([]byte, error)
	Clear(ctx context.Context) error
	Close() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// NewGateway builds a client for the gateway at baseURL.
	NewGateway func(baseURL string, logger *zap.Logger) (GatewayClient, error)

	// OpenHistory opens the transcript store at path.
	OpenHistory func(path string) (HistoryStore, error)

	Metrics   metrics.Provider
	Clipboard func(string) error

	// DotEnvPaths are loaded into the environment before config is read.
	DotEnvPaths []string
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
		NewGateway: func(baseURL string, logger *zap.Logger) (GatewayClient, error) {
			return gateway.NewClient(baseURL, gateway.WithLogger(logger))
		},
		OpenHistory: func(path string) (HistoryStore, error) {
			return history.Open(path)
		},
		Metrics:     metrics.NewSystemProvider(),
		Clipboard:   clipboard.WriteAll,
		DotEnvPaths: []string{".env"},
	}
}
