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

	"github.com/minicart/fulfillment/internal/application/inventory"
	"github.com/minicart/fulfillment/internal/auth"
	"github.com/minicart/fulfillment/internal/channel"
	"github.com/minicart/fulfillment/internal/config"
	"github.com/minicart/fulfillment/internal/domain/product"
	"github.com/minicart/fulfillment/internal/infrastructure/memory"
	"github.com/minicart/fulfillment/internal/infrastructure/postgres"
	"github.com/minicart/fulfillment/internal/pkg/logging"
	httptransport "github.com/minicart/fulfillment/internal/transport/http"
)

func main() {
	cfg := config.LoadInventory()

	baseLogger := logging.MustNewLogger("inventory", cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	eventsApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_events_applied_total",
		Help: "Count of stock change events applied to the store.",
	})
	eventsDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_events_dropped_total",
		Help: "Count of stock change events dropped as malformed.",
	})
	prometheus.MustRegister(eventsApplied, eventsDropped)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products := buildProductStore(ctx, cfg, baseLogger)

	var queue channel.Queue
	var closeQueue func() error
	if cfg.Queue.Driver == "memory" {
		m := channel.NewMemory(0, baseLogger)
		queue, closeQueue = m, m.Close
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
		queue, closeQueue = st, st.Close
	}
	defer func() { _ = closeQueue() }()

	service := inventory.NewService(products, baseLogger)
	reconciler := inventory.NewReconciler(queue, products, baseLogger, eventsApplied, eventsDropped)
	go func() {
		if err := reconciler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			baseLogger.Error("reconciler_stopped", zap.Error(err))
		}
	}()

	handler := httptransport.NewInventoryHandler(service, auth.New(auth.Settings{
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

func buildProductStore(ctx context.Context, cfg config.Inventory, logger *zap.Logger) product.Repository {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres_connect_failed", zap.Error(err))
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("postgres_schema_failed", zap.Error(err))
		}
		logger.Info("store_selected", zap.String("driver", "postgres"))
		return postgres.NewProductStore(pool)
	}

	store := memory.NewProductStore()
	if cfg.SeedDemoData {
		seedProducts(ctx, store, logger)
	}
	logger.Info("store_selected", zap.String("driver", "memory"))
	return store
}

func seedProducts(ctx context.Context, store product.Repository, logger *zap.Logger) {
	seed := []struct {
		id, name, description string
		price                 float64
		quantity              int
	}{
		{"keyboard", "Mechanical Keyboard", "87-key, hot-swappable switches", 89.90, 25},
		{"mouse", "Wireless Mouse", "2.4 GHz, 16k dpi sensor", 39.90, 40},
		{"monitor", "27in Monitor", "1440p IPS, 144 Hz", 249.00, 10},
	}
	for _, s := range seed {
		p, err := product.New(s.id, s.name, s.description, s.price, s.quantity)
		if err != nil {
			logger.Warn("seed_product_invalid", zap.String("product_id", s.id), zap.Error(err))
			continue
		}
		if err := store.Insert(ctx, p); err != nil {
			logger.Warn("seed_product_failed", zap.String("product_id", s.id), zap.Error(err))
		}
	}
	logger.Info("demo_products_seeded", zap.Int("count", len(seed)))
}
