package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/minicart/fulfillment/internal/application/sales"
	"github.com/minicart/fulfillment/internal/auth"
	"github.com/minicart/fulfillment/internal/channel"
	"github.com/minicart/fulfillment/internal/config"
	"github.com/minicart/fulfillment/internal/domain/order"
	"github.com/minicart/fulfillment/internal/infrastructure/memory"
	"github.com/minicart/fulfillment/internal/infrastructure/postgres"
	"github.com/minicart/fulfillment/internal/infrastructure/stockclient"
	"github.com/minicart/fulfillment/internal/pkg/logging"
	httptransport "github.com/minicart/fulfillment/internal/transport/http"
)

func main() {
	cfg := config.LoadSales()

	baseLogger := logging.MustNewLogger("sales", cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	publishFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_event_publish_failures_total",
		Help: "Count of stock change events that failed to publish.",
	})
	prometheus.MustRegister(publishFailures)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger := buildOrderStore(ctx, cfg, baseLogger)

	var publisher sales.Publisher
	var closeQueue func() error
	if cfg.Queue.Driver == "memory" {
		m := channel.NewMemory(0, baseLogger)
		publisher, closeQueue = m, m.Close
	} else {
		st, err := channel.DialStan(channel.StanConfig{
			ClusterID: cfg.Queue.ClusterID,
			ClientID:  cfg.Queue.ClientID,
			URL:       cfg.Queue.URL,
			Subject:   cfg.Queue.Subject,
		}, baseLogger)
		if err != nil {
			baseLogger.Fatal("queue_connect_failed", zap.Error(err))
		}
		publisher, closeQueue = st, st.Close
	}
	defer func() { _ = closeQueue() }()

	checker := stockclient.New(cfg.InventoryBaseURL)
	workflow := sales.NewWorkflow(ledger, checker, publisher, baseLogger, publishFailures)

	handler := httptransport.NewSalesHandler(workflow, auth.New(auth.Settings{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	}), baseLogger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

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

func buildOrderStore(ctx context.Context, cfg config.Sales, logger *zap.Logger) order.Repository {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres_connect_failed", zap.Error(err))
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("postgres_schema_failed", zap.Error(err))
		}
		logger.Info("store_selected", zap.String("driver", "postgres"))
		return postgres.NewOrderStore(pool)
	}
	logger.Info("store_selected", zap.String("driver", "memory"))
	return memory.NewOrderStore()
}
