package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/tradelog/auth"
	"github.com/rustyeddy/tradelog/internal/api"
	"github.com/rustyeddy/tradelog/internal/events"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/WebSocket bridge",
	Long: `Serve exposes every bookkeeping and calculation operation as JSON
endpoints under /api and streams notifications over /api/events.

Example:
  tradelog serve --addr 127.0.0.1:8787`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if serveAddr != "" {
			a.cfg.Server.Addr = serveAddr
		}
		if err := a.cfg.Server.CheckSecret(); err != nil {
			return err
		}
		ttl, err := a.cfg.Server.ParseTokenTTL()
		if err != nil {
			return fmt.Errorf("token ttl: %w", err)
		}

		hub := events.NewHub(a.cfg.Locale, a.log)
		handler := api.New(a.auth, auth.NewTokens(a.cfg.Server.JWTSecret, ttl), a.ledger, hub, a.log).Routes()

		// No WriteTimeout: event streams stay open.
		srv := &http.Server{
			Addr:              a.cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Info(ctx, "bridge listening", "addr", srv.Addr, "db", a.cfg.Database.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-quit:
		}

		a.log.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
}
