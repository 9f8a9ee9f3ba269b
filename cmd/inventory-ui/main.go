// Package main boots the inventory web front-end.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/inventory-ui/internal/client"
	"github.com/fairyhunter13/inventory-ui/internal/config"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
	"github.com/fairyhunter13/inventory-ui/internal/ui"
)

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting", "service", "inventory-ui", "api_url", cfg.APIURL)

	api := client.New(cfg.APIURL, client.WithTimeout(cfg.APITimeout))
	sessions := ui.NewSessions(api)
	server, err := ui.New(api, sessions)
	if err != nil {
		obs.Logger.Error("ui_init_failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.Run(ctx, cfg.SessionSweepInterval, cfg.SessionIdleTimeout)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	cancel()
	obs.Logger.Info("service_stopped", "sessions", sessions.Len())
}
