// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/section-engine/internal/logging"
	"github.com/pdiddy/section-engine/internal/secrets"
	"github.com/pdiddy/section-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve section queries over HTTP",
	Long: `Serve answers GET /api/site/sections/{section} and
GET /api/pages/{id}/sections/{section} (plus /summary and /blueprints) from
the content index. Requests authenticate with a bearer token read from the
secrets directory: one file per user, named after the user, holding the
token.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfgViper.Set("server::addr", addr)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	tokens, err := secrets.Load(a.cfg.Server.SecretsDir)
	if err != nil {
		return err
	}
	index, err := secrets.Index(tokens)
	if err != nil {
		return err
	}
	if len(tokens) > 0 {
		users := make([]string, 0, len(tokens))
		for u := range tokens {
			users = append(users, u)
		}
		sort.Strings(users)
		fmt.Fprintf(os.Stderr, "Loaded tokens for: %v\n", users)
	}

	log := logging.Logger().With().Str("component", "serve").Logger()
	srv := server.NewHTTPServer(a.cfg.Server.Addr, server.New(a.service, index, a.cfg.Users).Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
