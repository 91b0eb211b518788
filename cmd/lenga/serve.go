package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugozeballos/lenga/internal/admin"
	"github.com/hugozeballos/lenga/internal/api"
	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/config"
	"github.com/hugozeballos/lenga/internal/crypto"
	"github.com/hugozeballos/lenga/internal/metrics"
	"github.com/hugozeballos/lenga/internal/ratelimit"
	"github.com/hugozeballos/lenga/internal/session"
	"github.com/hugozeballos/lenga/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Lenga gateway server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	bc := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	bc.SetMetrics(m)
	slog.Info("platform backend configured", "url", cfg.Backend.BaseURL, "variant", cfg.Variant)

	sealer, err := crypto.NewSealer(cfg.Session.CookieKey)
	if err != nil {
		return err
	}
	if sealer == nil {
		slog.Warn("cookie sealing disabled, tokens are stored unsealed")
	}
	cookies := session.Cookies{Name: cfg.Session.CookieName, Sealer: sealer}
	guard := session.NewGuard(bc)

	workspaces := api.NewWorkspaces(bc, cfg, m)
	go workspaces.Run(ctx)
	m.RegisterWorkspaceCollector(workspaces.Stats)

	limiter := ratelimit.New(cfg.RateLimit.Login, cfg.RateLimit.Window)

	router := api.NewRouter(api.RouterDeps{
		Config:     cfg,
		Backend:    bc,
		Console:    admin.NewConsole(bc),
		Guard:      guard,
		Cookies:    cookies,
		Workspaces: workspaces,
		Limiter:    limiter,
		Metrics:    m,
		Shell:      ui.Handler(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
