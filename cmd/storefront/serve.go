package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"candlebliss_storefront/config"
	"candlebliss_storefront/internal/handlers"
	"candlebliss_storefront/internal/health"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthRefreshPeriod = 15 * time.Second
)

func newServeCmd(logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP server and the gRPC health service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.LoadConfig(logger), logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Invalid LOG_LEVEL '%s', keeping %s", cfg.LogLevel, logger.GetLevel())
	}
	if cfg.Environment().IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("Starting CandleBliss storefront (%s)...", cfg.Environment())

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	checks := a.checks()
	router, err := handlers.NewRouter(handlers.Dependencies{
		Storefront:   a.storefront,
		Customers:    a.customers,
		Exchanges:    a.exchanges,
		Products:     a.products,
		Warehouse:    a.warehouse,
		Activity:     a.auditor,
		Auth:         a.auth,
		Sessions:     a.sessions,
		Checks:       checks,
		PageSize:     cfg.PageSize,
		SessionTTL:   cfg.SessionTTLDuration(),
		SecureCookie: cfg.CookieSecure,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	logger.Info("Routes registered.")

	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GrpcHealthPort)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GrpcHealthPort, err)
	}
	healthServer := health.NewServer(checks, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return healthServer.Serve(lis)
	})

	httpLis, err := net.Listen("tcp", cfg.HTTPPort)
	if err != nil {
		healthServer.Stop()
		_ = g.Wait()
		return fmt.Errorf("failed to listen on %s: %w", cfg.HTTPPort, err)
	}
	g.Go(func() error {
		logger.Infof("Starting server on port %s", cfg.HTTPPort)
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	healthServer.Ready(gctx)
	g.Go(func() error {
		healthServer.Watch(gctx, healthRefreshPeriod)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Warn("Shutdown signal received...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		healthServer.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		logger.Info("HTTP server gracefully stopped.")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Storefront shut down gracefully.")
	return nil
}
