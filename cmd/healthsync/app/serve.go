package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"github.com/healthsync/healthsync/internal/api"
	"github.com/healthsync/healthsync/internal/config"
	"github.com/healthsync/healthsync/internal/db"
	dbservice "github.com/healthsync/healthsync/internal/service/db"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reporting API server",
	Long: `Start the HTTP server that exposes synced health data.

The server requires a configuration file (--config) that specifies the
database connection and, optionally, the listen address. It is read-only:
sync runs are started with the 'sync' subcommand.`,
	RunE: runServe,
}

const (
	defaultAddress         = ":8080"
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
	serverRequestTimeout   = 10 * time.Second // Reporting queries should respond quickly
	serverReadTimeout      = 10 * time.Second // Enough for headers and small requests
	serverWriteTimeout     = 15 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second // Keep connections alive for reuse
)

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides server.address from config)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		slog.Error("Failed to bind config flag", "error", err)
		os.Exit(1)
	}

	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		slog.Error("Failed to mark config flag as required", "error", err)
		os.Exit(1)
	}
}

// listenAddress resolves the listen address: the flag wins, then the config
// file, then the built-in default.
func listenAddress(cfg *config.Config) string {
	if addr := viper.GetString("address"); addr != "" {
		return addr
	}
	if cfg.Server != nil && cfg.Server.Address != "" {
		return cfg.Server.Address
	}
	return defaultAddress
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath := viper.GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	address := listenAddress(cfg)
	slog.Info("Starting reporting API server",
		"address", address,
		"instance", cfg.GetInstanceName())

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	svc, err := dbservice.New(dbservice.WithConnectionPool(conn.Pool))
	if err != nil {
		return fmt.Errorf("failed to create reporting service: %w", err)
	}
	svc = dbservice.NewTracing(svc, otel.GetTracerProvider())

	router := api.NewServer(svc,
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(serverRequestTimeout),
			api.LoggingMiddleware,
		),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("Shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}
