package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"candlebliss_storefront/config"
)

func main() {
	logger := config.NewLogger(os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Errorf("storefront: %v", err)
		stop()
		os.Exit(1)
	}
}
