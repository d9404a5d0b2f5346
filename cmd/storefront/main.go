package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/cache"
	"github.com/pasalko/storefront/internal/config"
	"github.com/pasalko/storefront/internal/events"
	"github.com/pasalko/storefront/internal/httpserver"
	"github.com/pasalko/storefront/internal/logging"
	"github.com/pasalko/storefront/internal/search"
	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	var sessions session.Provider
	if cfg.SessionStore == "db" {
		initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := session.OpenDB(initCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatalf("session db init: %v", err)
		}
		sessions, err = session.NewStoreProvider(db, cfg.Production())
		if err != nil {
			log.Fatalf("session store init: %v", err)
		}
	} else {
		sessions = session.NewCookieProvider(cfg.SessionSecret, cfg.Production())
	}

	catalogCache, err := cache.New(cfg.RedisURL, time.Duration(cfg.CacheTTLSecs)*time.Second)
	if err != nil {
		log.Fatalf("redis init: %v", err)
	}

	searchSvc, err := search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("elasticsearch init: %v", err)
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	httpserver.Register(e, &httpserver.Deps{
		API:       upstream.NewClient(cfg.BackendURL),
		Sessions:  sessions,
		Events:    publisher,
		Cache:     catalogCache,
		Search:    searchSvc,
		AssetBase: cfg.AssetBaseURL,
		ReturnURL: "/auth/payment/verify",
		Logger:    logger,
	})

	go func() {
		logger.Info("starting storefront", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}

	if err := catalogCache.Close(); err != nil {
		logger.Warn("redis close", "error", err)
	}
	logger.Info("storefront stopped")
}
