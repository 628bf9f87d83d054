package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reflectd/internal/app"
	"reflectd/internal/httpapi"
	"reflectd/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP daemon",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	f := serveCmd.Flags()
	f.String("addr", "", "HTTP listen address, e.g. :8080")
	f.Int64("request-timeout", 0, "per-request timeout in seconds (0 disables)")
	f.Bool("cors", false, "enable CORS")
	f.String("cors-origins", "", "comma-separated allowed CORS origins")
	mustBindPFlag("addr", f.Lookup("addr"))
	mustBindPFlag("http.request_timeout_seconds", f.Lookup("request-timeout"))
	mustBindPFlag("http.cors.enabled", f.Lookup("cors"))
	mustBindPFlag("http.cors.allowed_origins", f.Lookup("cors-origins"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, logging.Format(cfg.LogFormat))

	a, err := app.Build(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error().Err(err).Msg("close")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpapi.SetLogger(log)
	httpapi.SetRequestLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.HTTP.MaxBodyBytes)
	httpapi.SetMaxAudioBytes(cfg.HTTP.MaxAudioBytes)
	httpapi.SetRequestTimeoutSeconds(cfg.HTTP.RequestTimeoutSeconds)
	httpapi.SetCORSOptions(cfg.HTTP.CORS.Enabled, cfg.HTTP.CORS.AllowedOrigins, cfg.HTTP.CORS.AllowedMethods, cfg.HTTP.CORS.AllowedHeaders)
	httpapi.SetBaseContext(ctx)

	srv := httpapi.NewServer(cfg.Addr, a.Service())
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("event", "listen").Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Msg("reflectd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown (Ctrl+C / SIGTERM)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Str("event", "shutdown").Msg("reflectd stopped")
	return nil
}
