// Package main boots the products API simulator used for local development.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-ui/internal/config"
	httpapi "github.com/fairyhunter13/inventory-ui/internal/http"
	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
	"github.com/fairyhunter13/inventory-ui/internal/queue"
	"github.com/fairyhunter13/inventory-ui/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting", "service", "inventory-api")

	st := store.New()
	if cfg.SeedDemo {
		st.Seed(
			model.Product{ID: "1", Name: "A", Price: decimal.NewFromInt(1), Quantity: 10},
			model.Product{ID: "2", Name: "B", Price: decimal.NewFromInt(2), Quantity: 20},
		)
		obs.Logger.Info("store_seeded", "products", st.Len())
	}

	orders := store.NewOrders()
	q := queue.New(128)
	mgr := queue.NewManager(cfg, q, orders)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)

	app := httpapi.NewApp(cfg, st, orders, mgr)
	srv := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.APIAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "orders_pending", mgr.Pending(), "worker_count", mgr.WorkerCount())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout", "orders_pending", mgr.Pending())
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	mgr.Stop()
	obs.Logger.Info("service_stopped", "products", st.Len())
}
