package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/lewtec/realtor/internal/database"
	"github.com/lewtec/realtor/internal/httpapi"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the listings HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		svc := newService(store, cfg)

		gin.SetMode(gin.ReleaseMode)
		router := httpapi.NewRouter(svc, store, httpapi.Options{
			Logger:       logger,
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
			Pprof:        cfg.HTTP.Pprof,
		})

		ln, err := net.Listen("tcp", cfg.HTTP.Addr)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Handler:      router,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		}

		errc := make(chan error, 1)
		go func() {
			errc <- srv.Serve(ln)
		}()
		dialect, _, _ := database.ParseURL(cfg.Database.URL)
		logger.Info().
			Str("addr", ln.Addr().String()).
			Str("dialect", string(dialect)).
			Msg("serve: listening")

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info().Msg("serve: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info().Msg("serve: stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to bind the webserver (overrides HTTP_ADDR)")
}
