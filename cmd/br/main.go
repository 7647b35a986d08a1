// Command br is the BlackRoad OS command line client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackroad/br/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.Execute(ctx)
}
