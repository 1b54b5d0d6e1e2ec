package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"homelib/db"
	"homelib/internal/config"
	"homelib/internal/httpx"
	"homelib/internal/library"
	"homelib/internal/logging"
	"homelib/internal/platform/covers"
	"homelib/internal/platform/huggingface"
	"homelib/internal/platform/openlibrary"
	"homelib/internal/recommend"
	"homelib/internal/web"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		bootstrap := logging.New(logging.Config{Level: "info", Format: "json"})
		bootstrap.Fatal().Err(err).Msg("configuration invalid")
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	pool := mustOpenDB(logger, cfg.DatabaseDSN)
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := db.MigrateUp(pool); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
		logger.Info().Msg("database schema up to date")
	}

	coverChecker := covers.NewValidator(covers.Config{
		Timeout:   cfg.CoverCheckTimeout,
		MinPixels: cfg.CoverMinPixels,
	})
	repo := library.NewPostgresRepo(pool, 5*time.Second)
	libraryService := library.NewService(repo, coverChecker, logger)

	generative := huggingface.NewClient(huggingface.Config{
		Endpoint: cfg.GenerativeURL,
		Timeout:  cfg.GenerativeTimeout,
	})
	catalog := openlibrary.NewClient(openlibrary.Config{
		BaseURL:   cfg.OpenLibraryURL,
		CoversURL: cfg.CoversURL,
		Timeout:   cfg.CatalogTimeout,
	})
	sampler := recommend.NewSampler()
	pipeline := recommend.NewPipeline(logger, cfg.DefaultCoverPath,
		recommend.NewGenerativeSuggester(generative, cfg.DefaultCoverPath),
		recommend.NewCatalogSuggester(catalog, sampler, cfg.DefaultCoverPath),
		recommend.NewLocalSuggester(coverChecker, sampler, cfg.DefaultCoverPath),
	)

	renderer, err := web.NewRenderer(cfg.DefaultCoverPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("templates failed to parse")
	}
	handler := web.NewHandler(libraryService, pipeline, renderer, web.NewFlashCodec(cfg.Secret), logger)

	// The recommendation endpoint fans out to two external services, so
	// it is the only route worth throttling per client.
	mux := web.NewRouter(handler, httpx.NewRateLimitMiddleware(1, 3))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Recovery sits inside access logging and metrics so a panic is
	// logged with the request id and still produces an access log line
	// and a counted 500.
	chain := httpx.RequestIDMiddleware(
		httpx.AccessLogMiddleware(logger)(
			httpx.MetricsMiddleware(mux)(
				httpx.RecoveryMiddleware(logger)(
					httpx.SecurityHeadersMiddleware(
						httpx.RequestSizeLimitMiddleware(1<<20)(mux))))))

	server := &http.Server{
		Addr:        cfg.Addr,
		Handler:     chain,
		ReadTimeout: 5 * time.Second,
		// A recommendation that walks every tier can spend the full
		// generative timeout plus two catalog calls plus a cover check.
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
	logger.Info().Msg("server stopped")
}

func mustOpenDB(logger zerolog.Logger, dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Fatal().Err(err).Str("dsn", redactDSN(dsn)).Msg("cannot ping database")
	}
	logger.Info().Msg("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
