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

	"github.com/witthaya/shopapi/internal/es"
	"github.com/witthaya/shopapi/internal/httpserver"
	mwauth "github.com/witthaya/shopapi/internal/middleware/auth"
	"github.com/witthaya/shopapi/internal/mykafka"
	"github.com/witthaya/shopapi/internal/repo"
	"github.com/witthaya/shopapi/internal/service"
	"github.com/witthaya/shopapi/internal/storage"
	"github.com/witthaya/shopapi/pkg/config"
	"github.com/witthaya/shopapi/pkg/db"
	"github.com/witthaya/shopapi/pkg/logging"
	loggingmw "github.com/witthaya/shopapi/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	images, err := storage.NewImageStore(cfg.ImageRoot)
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	var events service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := mykafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		events = producer
	} else {
		logger.Warn("kafka disabled: KAFKA_BROKERS not set")
	}

	store := &repo.GormRepo{DB: gormDB}
	authSvc := &service.AuthService{Repo: store, JWTSecret: cfg.JWTSecret, Events: events}
	userSvc := &service.UserService{Repo: store, Images: images}
	catalogSvc := &service.CatalogService{Repo: store, Images: images, Events: events}
	orderSvc := &service.OrderService{Repo: store, Events: events}

	deps := &httpserver.Deps{
		Auth:     mwauth.NewMiddleware(cfg.JWTSecret),
		AuthH:    &httpserver.AuthHTTP{Svc: authSvc, Images: images},
		UserH:    &httpserver.UserHTTP{Svc: userSvc, Images: images},
		ProductH: &httpserver.ProductHTTP{Svc: catalogSvc, Orders: orderSvc, Images: images},
		OrderH:   &httpserver.OrderHTTP{Svc: orderSvc},
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		deps.SearchH = &httpserver.SearchHTTP{ES: esClient, Index: cfg.ESIndex}
	} else {
		logger.Warn("search disabled: ES_URL not set")
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              cfg.ServerBind,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("stopped")
}
