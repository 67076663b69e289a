package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nivosearch/internal/config"
	dbRedis "github.com/kailas-cloud/nivosearch/internal/db/redis"
	"github.com/kailas-cloud/nivosearch/internal/db/sqldb"
	logpkg "github.com/kailas-cloud/nivosearch/internal/logger"
	"github.com/kailas-cloud/nivosearch/internal/metrics"
	catalogrepo "github.com/kailas-cloud/nivosearch/internal/repository/catalog"
	settingsrepo "github.com/kailas-cloud/nivosearch/internal/repository/settings"
	chiTransport "github.com/kailas-cloud/nivosearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/nivosearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/nivosearch/internal/usecase/search"
	settingsuc "github.com/kailas-cloud/nivosearch/internal/usecase/settings"
	"github.com/kailas-cloud/nivosearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nivosearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.SettingsStore.Driver),
		zap.Strings("store_addrs", cfg.SettingsStore.Addrs),
		zap.String("catalog_driver", cfg.Catalog.Driver),
	)

	ctx := context.Background()

	// Settings store: Redis and Valkey speak the same hash commands.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.SettingsStore.Addrs,
		Username: cfg.SettingsStore.Username,
		Password: cfg.SettingsStore.Password,
		DB:       cfg.SettingsStore.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create settings store", zap.Error(err))
	}
	defer store.Close()

	readiness := time.Duration(cfg.SettingsStore.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Settings store not ready", zap.Error(err))
	}
	logger.Info("Connected to settings store")

	conn, err := sqldb.Open(ctx, sqldb.Config{
		Driver:       cfg.Catalog.Driver,
		DSN:          cfg.Catalog.DSN,
		MaxOpenConns: cfg.Catalog.MaxOpenConns,
		MaxIdleConns: cfg.Catalog.MaxIdleConns,
		ConnMaxLife:  time.Duration(cfg.Catalog.ConnMaxLifeSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to open catalog", zap.Error(err))
	}
	defer func() { _ = conn.Close() }()
	logger.Info("Connected to catalog", zap.String("table_prefix", cfg.Catalog.TablePrefix))

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Repositories
	settingsRepo := settingsrepo.New(store, cfg.SettingsStore.KeyPrefix)
	catalogRepo, err := catalogrepo.New(conn, catalogrepo.Config{
		TablePrefix: cfg.Catalog.TablePrefix,
		SiteURL:     cfg.Catalog.SiteURL,
		Currency: catalogrepo.Currency{
			Symbol:   cfg.Catalog.Currency.Symbol,
			Position: cfg.Catalog.Currency.Position,
			Decimals: cfg.Catalog.Currency.Decimals,
			Locale:   cfg.Catalog.Currency.Locale,
		},
	})
	if err != nil {
		logger.Fatal("Invalid catalog configuration", zap.Error(err))
	}

	// Use case services
	settingsSvc := settingsuc.New(settingsRepo)
	searchSvc := searchuc.New(
		settingsSvc,
		searchuc.NewInstrumentedCatalog(catalogRepo, logger),
		searchuc.WithTermLimit(cfg.Search.TaxonomyCap),
		searchuc.WithDescriptionWords(cfg.Search.DescriptionWords),
	)
	healthSvc := healthuc.New(store, catalogRepo)

	server := chiTransport.NewServer(searchSvc, settingsSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Mount(r, cfg.Auth.APIKeys)

	if len(cfg.Auth.APIKeys) == 0 {
		logger.Warn("Admin API is not protected: auth.api_keys is empty")
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that answers with the failure envelope instead of a stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"data": map[string]string{
							"code":    "internal_error",
							"message": "internal error",
						},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Search queries are not logged; they may carry personal data.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
				zap.String("total_count", ww.Header().Get("X-Total-Count")),
			)
		})
	}
}
