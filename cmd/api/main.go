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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/favorites_api/internal/catalog"
	"github.com/Skotchmaster/favorites_api/internal/config"
	"github.com/Skotchmaster/favorites_api/internal/es"
	"github.com/Skotchmaster/favorites_api/internal/httpserver"
	"github.com/Skotchmaster/favorites_api/internal/metrics"
	"github.com/Skotchmaster/favorites_api/internal/mykafka"
	"github.com/Skotchmaster/favorites_api/internal/repo"
	"github.com/Skotchmaster/favorites_api/internal/service"
	pkgdb "github.com/Skotchmaster/favorites_api/pkg/db"
	"github.com/Skotchmaster/favorites_api/pkg/hash"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
	loggingmw "github.com/Skotchmaster/favorites_api/pkg/middleware/logging"
)

type publisher interface {
	service.EventPublisher
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "favorites_api", "env", cfg.AppEnv)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBConnection, cfg.DatabaseDSN)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	r := &repo.GormRepo{DB: db}
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = r.Migrate(ctx)
	cancel()
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var events publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		events = p
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	customers := &service.CustomerService{Repo: r, Events: events}
	if cfg.Elastic.URL != "" {
		client, err := es.NewClient(cfg.Elastic)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		customers.Index = &es.CustomerIndex{ES: client, Index: cfg.ESIndex}
	} else {
		logger.Info("search_index_disabled", "reason", "ES_URL is empty")
	}

	m := metrics.New()
	auth := &service.AuthService{
		Users:  r,
		Tokens: r,
		Hasher: hash.Bcrypt{},
		Secret: cfg.AppKey,
		Events: events,
	}
	favorites := &service.FavoriteService{
		Repo:    r,
		Catalog: catalog.NewClient(cfg.FakeStoreURL, catalog.WithObserver(m.ObserveCatalog)),
		Events:  events,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: auth},
		CustomerHandler: &httpserver.CustomerHTTP{Svc: customers},
		FavoriteHandler: &httpserver.FavoriteHTTP{Svc: favorites},
		Authenticator:   auth,
		Ready:           func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
		Metrics:         m,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
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
		logger.Error("shutdown_failed", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("server_stopped")
}
