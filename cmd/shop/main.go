package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/refurb_shop/internal/cache"
	"github.com/Skotchmaster/refurb_shop/internal/config"
	"github.com/Skotchmaster/refurb_shop/internal/es"
	"github.com/Skotchmaster/refurb_shop/internal/httpserver"
	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/mykafka"
	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/session"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	"github.com/Skotchmaster/refurb_shop/pkg/db"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
	"github.com/Skotchmaster/refurb_shop/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/refurb_shop/pkg/middleware/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			slog.Error("db close error", "error", err)
		}
	}()
	if err := models.AutoMigrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	r := repo.New(gdb)

	authSvc := &service.AuthService{Repo: r, AccessSecret: cfg.JWTAccessSecret, RefreshSecret: cfg.JWTRefreshSecret}
	if cfg.Admin.Enabled() {
		if err := authSvc.EnsureAdmin(initCtx, transport.RegisterRequest{
			Username: cfg.Admin.Username, Email: cfg.Admin.Email, Password: cfg.Admin.Password,
		}); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	var events service.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod := mykafka.NewProducer(cfg.KafkaBrokers, logger.With("component", "kafka"))
		defer func() {
			if err := prod.Close(); err != nil {
				slog.Error("kafka close error", "error", err)
			}
		}()
		events = prod
		slog.Info("kafka events enabled", "brokers", cfg.KafkaBrokers)
	}

	var index service.ProductIndex
	if cfg.ESURL != "" {
		client, err := es.NewClient(initCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			return err
		}
		pi := &es.ProductIndex{Client: client, Name: cfg.ESIndex}
		if err := pi.EnsureIndex(initCtx); err != nil {
			return err
		}
		index = pi
		slog.Info("elasticsearch search enabled", "index", cfg.ESIndex)
	}

	var (
		statsCache service.Cache
		rdb        *cache.Redis
	)
	if cfg.RedisAddr != "" {
		rdb = &cache.Redis{
			Client: cache.NewClient(cache.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}),
			Prefix: cfg.ServiceName + ":",
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("redis close error", "error", err)
			}
		}()
		if err := rdb.Ping(initCtx); err != nil {
			slog.Warn("redis unreachable, cache calls will fail open", "error", err)
		}
		statsCache = rdb
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, session.Header, csrf.HeaderName},
	}))

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:      &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: events}},
		CheckoutHandler:  &httpserver.CheckoutHTTP{Svc: &service.CheckoutService{Repo: r, Events: events}},
		OrderHandler:     &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r}},
		StatsHandler:     &httpserver.StatsHTTP{Svc: &service.StatsService{Repo: r, Cache: statsCache, CacheTTL: cfg.StatsCacheTTL}},
		RecyclingHandler: &httpserver.RecyclingHTTP{Svc: &service.RecyclingService{Repo: r}},
		CatalogHandler:   &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Index: index, Events: events}},
		AuthHandler:      &httpserver.AuthHTTP{Svc: authSvc},
		JWTSecret:        cfg.JWTAccessSecret,
		Ready: func(c echo.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c.Request().Context())
		},
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("shutdown complete")
	return nil
}
