package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/billing/internal/clients"
	billingcfg "github.com/Skotchmaster/billing/internal/config"
	"github.com/Skotchmaster/billing/internal/events"
	"github.com/Skotchmaster/billing/internal/fallback"
	"github.com/Skotchmaster/billing/internal/httpserver"
	"github.com/Skotchmaster/billing/internal/repo"
	"github.com/Skotchmaster/billing/internal/search"
	"github.com/Skotchmaster/billing/internal/service"
	pkgconfig "github.com/Skotchmaster/billing/pkg/config"
	pkgdb "github.com/Skotchmaster/billing/pkg/db"
	"github.com/Skotchmaster/billing/pkg/logging"
	loggingmw "github.com/Skotchmaster/billing/pkg/middleware/logging"
	"github.com/Skotchmaster/billing/pkg/mykafka"
)

func main() {
	pkgconfig.LoadEnvFile(".env")

	cfg := billingcfg.Load()
	cfg.Require()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, cfg.Pool())
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	store := &repo.GormRepo{DB: db}

	breaker := cfg.Breaker()
	customers := fallback.NewCustomerAdapter(clients.NewCustomerClient(cfg.CustomerURL, cfg.RemoteTimeout), breaker)
	products := fallback.NewCatalogAdapter(clients.NewCatalogClient(cfg.InventoryURL, cfg.RemoteTimeout), breaker)

	var notifiers []service.BillNotifier

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers, []string{cfg.BillEventsTopic})
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		notifiers = append(notifiers, &events.Publisher{Producer: producer, Topic: cfg.BillEventsTopic})
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	handler := &httpserver.BillHTTP{}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		indexer := &search.Indexer{ES: es, Index: cfg.ESIndex}
		notifiers = append(notifiers, indexer)
		handler.Search = indexer
	} else {
		logger.Info("search_disabled", "reason", "ES_URL is empty")
	}

	handler.Svc = service.NewBillService(customers, products, store, service.Options{
		Concurrency: cfg.LookupConcurrency,
		Notifiers:   notifiers,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		BillHandler: handler,
		JWTSecret:   cfg.JWTAccessSecret,
		Ready:       store.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("billing_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("billing_stopped")
}
