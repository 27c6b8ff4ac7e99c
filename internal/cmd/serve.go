package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/translay/translay/internal/config"
	"github.com/translay/translay/internal/observability"
	"github.com/translay/translay/internal/server"
	"github.com/translay/translay/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP relay server",
	Long: `Start the HTTP relay server with graceful shutdown support.

SIGINT or SIGTERM drains in-flight requests before exiting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		logLevel := cfg.Logging.Level
		if verbose {
			logLevel = "debug"
		}
		observability.InitServerLogger("translay", logLevel)
		logger := observability.ServerLogger

		orchestrator, st, err := buildPipeline(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Error("pipeline initialization failed", zap.Error(err))
			return err
		}
		defer st.Close() // nolint:errcheck // best-effort cleanup

		health := handlers.NewHealthManager(versionInfo.Version)
		health.RegisterChecker("store", st)

		srv := server.New(cfg.Server.Host, cfg.Server.Port, orchestrator, health)

		logger.Info("server initialized",
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.String("upstream", cfg.Upstream.URL),
			zap.String("store_driver", cfg.Store.Driver))

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server failed", zap.Error(err))
				return err
			}
			return nil
		case sig := <-stop:
			logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}

		logger.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "0.0.0.0", "host interface to bind")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "port to listen on")
}
