package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/middleware/ratelimit"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	cfg := config.MustLoadServe()
	logger := newLogger(cfg)

	clientIP, err := httpserver.IPExtractor(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	gdb, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var sessions session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		if sessions, err = session.NewRedisStore(ctx, cfg.RedisURL); err != nil {
			_ = db.Close(gdb)
			return err
		}
	default:
		sessions = session.NewMemoryStore(time.Minute)
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka producer ready", "brokers", cfg.KafkaBrokers)
	}

	store := repo.New(gdb)
	limiter := ratelimit.New(cfg.AuthRateLimit, cfg.AuthRateBurst)
	go limiter.Run(ctx, time.Minute, 10*time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(logger, "/health", "/metrics"),
		metrics.Middleware(),
	)

	httpserver.Register(e, httpserver.Deps{
		Auth: &service.AuthService{
			Users:    store,
			Sessions: sessions,
			Tokens:   &tokens.Issuer{Secret: cfg.SessionSecret},
			Events:   pub,
			TTL:      cfg.SessionTTL,
		},
		Users:        &service.UserService{Users: store, Sessions: sessions, Events: pub},
		Catalog:      &service.CatalogService{Store: store, Events: pub},
		Cart:         &service.CartService{Store: store, Events: pub},
		CookieSecure: cfg.CookieSecure,
		AuthLimiter:  limiter,
		ClientIP:     clientIP,
		Ready:        func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errCh:
		logger.Error("http server error", "error", serveErr)
	}

	// A second signal aborts the graceful path.
	stop()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := sessions.Close(); err != nil {
		logger.Error("session store close error", "error", err)
	}

	logger.Info("shutdown complete")
	return serveErr
}
