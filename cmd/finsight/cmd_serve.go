package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/spetersoncode/finsight/api"
	"github.com/spetersoncode/finsight/config"
	"github.com/spetersoncode/finsight/mcp"
	"github.com/spetersoncode/finsight/relay"
)

const shutdownTimeout = 30 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), c.cfg, c.logger, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			if c.cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := api.New(api.Deps{
				QA:        a.qa,
				Summary:   a.summary,
				MCQ:       a.mcq,
				Store:     a.store,
				Loader:    a.loader,
				History:   a.history,
				UploadDir: c.cfg.UploadDir,
				Logger:    c.logger,
			})

			if addr == "" {
				addr = c.cfg.HTTPAddr
			}
			c.logger.Info("API server starting", "addr", addr, "provider", c.cfg.Provider, "documents", a.store.Len(), "history", a.history.Path())
			return listen(cmd.Context(), &http.Server{
				Addr:        addr,
				Handler:     srv.Router(),
				ReadTimeout: 30 * time.Second,
				// SSE needs no write timeout
				WriteTimeout: 0,
				IdleTimeout:  120 * time.Second,
			}, c.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_ADDR)")
	return cmd
}

func (c *cli) wordsServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words-server",
		Short: "Serve the keyword extraction tool over MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Secret == config.DefaultSecret {
				c.logger.Warn("using the default relay secret; set JWT_SECRET_KEY")
			}
			handler := relay.Verifier(c.cfg.Secret, c.logger)(mcp.HTTPHandler(mcp.NewKeywordServer()))

			addr := fmt.Sprintf(":%d", c.cfg.WordsPort)
			c.logger.Info("keyword server starting", "addr", addr, "endpoint", c.cfg.WordsURL())
			return listen(cmd.Context(), &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}, c.logger)
		},
	}
}

func (c *cli) relayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Forward MCP requests to the keyword server with a signed token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := relay.NewSigner(c.cfg.Secret)
			if err != nil {
				return err
			}
			proxy, err := relay.NewProxy(c.cfg.WordsURL(), signer, c.logger)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.Handle(relay.Prefix, proxy)
			mux.Handle(relay.Prefix+"/", proxy)

			addr := fmt.Sprintf(":%d", c.cfg.ProxyWordsPort)
			c.logger.Info("relay starting", "addr", addr, "backend", c.cfg.WordsURL())
			return listen(cmd.Context(), &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}, c.logger)
		},
	}
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func listen(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "addr", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped", "addr", srv.Addr)
	return nil
}
