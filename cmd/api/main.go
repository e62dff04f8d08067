package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/user/price-tracker/cmd/api/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	commands.ExecuteContext(ctx)
}
