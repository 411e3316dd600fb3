package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/minicart/fulfillment/internal/config"
	"github.com/minicart/fulfillment/internal/gateway"
	"github.com/minicart/fulfillment/internal/pkg/logging"
)

func main() {
	cfg := config.LoadGateway()

	baseLogger := logging.MustNewLogger("gateway", cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	upstreamErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_upstream_errors_total",
		Help: "Count of requests that failed to reach a backend service.",
	})
	prometheus.MustRegister(upstreamErrors)

	inventoryURL, err := url.Parse(cfg.InventoryBaseURL)
	if err != nil {
		baseLogger.Fatal("invalid_inventory_base_url", zap.String("url", cfg.InventoryBaseURL), zap.Error(err))
	}
	salesURL, err := url.Parse(cfg.SalesBaseURL)
	if err != nil {
		baseLogger.Fatal("invalid_sales_base_url", zap.String("url", cfg.SalesBaseURL), zap.Error(err))
	}

	proxy, err := gateway.New([]gateway.Route{
		{Prefix: "/inventory", Target: inventoryURL},
		{Prefix: "/sales", Target: salesURL},
	}, baseLogger, upstreamErrors)
	if err != nil {
		baseLogger.Fatal("gateway_init_failed", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","service":"gateway"}`))
	})
	mux.Handle("/", proxy)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("http_server_start", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		baseLogger.Info("http_server_stopped")
	}
}
