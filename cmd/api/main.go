package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kaouthar-hr/Move2See-Project/internal/app"
	"github.com/Kaouthar-hr/Move2See-Project/internal/appconf"
	"github.com/Kaouthar-hr/Move2See-Project/internal/clock"
	"github.com/Kaouthar-hr/Move2See-Project/internal/logging"
	"github.com/Kaouthar-hr/Move2See-Project/internal/metrics"
	"github.com/Kaouthar-hr/Move2See-Project/internal/restapi"
	"github.com/Kaouthar-hr/Move2See-Project/internal/webui"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

const dbStatsInterval = 15 * time.Second

func main() {
	// A missing .env file is fine; flags and real env vars still apply.
	_ = godotenv.Load()

	var (
		port      = flag.Int("port", envInt("PORT", 4000), "API server port")
		envFlag   = flag.String("env", envString("APP_ENV", "development"), "Environment (development|test|production)")
		dbPath    = flag.String("db-path", envString("DB_PATH", "./move2see.db"), "Path to the SQLite tour database")
		apiKeys   = flag.String("api-keys", envString("API_KEYS", "test"), "Comma-separated list of valid API keys")
		adminKeys = flag.String("admin-keys", envString("ADMIN_KEYS", ""), "Comma-separated list of admin API keys")
		rateLimit = flag.Int("rate-limit", envInt("RATE_LIMIT", 100), "Maximum requests per second per API key")
		verbose   = flag.Bool("verbose", envBool("VERBOSE", false), "Enable verbose logging")
	)
	flag.Parse()

	cfg := appconf.Config{
		Name:      "move2see",
		Port:      *port,
		Env:       appconf.EnvFlagToEnvironment(*envFlag),
		DBPath:    *dbPath,
		ApiKeys:   ParseAPIKeys(*apiKeys),
		AdminKeys: ParseAPIKeys(*adminKeys),
		RateLimit: *rateLimit,
		Verbose:   *verbose,
	}

	coreApp, err := BuildApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to build application: %v\n", err)
		os.Exit(1)
	}

	srv, _ := CreateServer(coreApp, cfg)

	if err := Run(coreApp, srv); err != nil {
		logging.LogError(coreApp.Logger, "server exited with error", err)
		os.Exit(1)
	}
}

// BuildApplication wires up the logger, metrics, the tour database and
// the clock into an Application ready to serve requests.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	appMetrics := metrics.NewWithLogger(logger)

	dbClient, err := tourdb.NewClient(tourdb.NewConfig(cfg.DBPath, cfg.Env, cfg.Verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tour database: %w", err)
	}

	appMetrics.StartDBStatsCollector(dbClient.DB, dbStatsInterval)

	return &app.Application{
		Config:  cfg,
		Logger:  logger,
		DB:      dbClient,
		Clock:   clock.RealClock{},
		Metrics: appMetrics,
	}, nil
}

// CreateServer builds the HTTP server with the full middleware chain:
// request IDs, request logging, metrics, rate limiting and gzip.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	mux := http.NewServeMux()

	api := restapi.NewRestAPI(coreApp)
	api.SetRoutes(mux)

	ui := webui.NewWebUI(coreApp)
	ui.SetRoutes(mux)

	mux.Handle("GET /metrics", promhttp.HandlerFor(coreApp.Metrics.Registry, promhttp.HandlerOpts{}))

	rateLimiter := restapi.NewRateLimitMiddleware(cfg.RateLimit, time.Second, cfg.AdminKeys, coreApp.Clock)

	var handler http.Handler = mux
	handler = gzhttp.GzipHandler(handler)
	handler = rateLimiter.Handler()(handler)
	handler = restapi.MetricsHandler(coreApp.Metrics)(handler)
	handler = restapi.NewRequestLoggingMiddleware(coreApp.Logger)(handler)
	handler = restapi.RequestIDMiddleware(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return srv, api
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests
// before closing the database and stopping the metrics collector.
func Run(coreApp *app.Application, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.LogOperation(coreApp.Logger, "starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", coreApp.Config.Env.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.LogOperation(coreApp.Logger, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	coreApp.Metrics.Shutdown()

	if err := coreApp.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	return nil
}

// ParseAPIKeys splits a comma-separated key list, trimming whitespace
// around each entry. An empty input yields an empty slice.
func ParseAPIKeys(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		keys = append(keys, strings.TrimSpace(part))
	}
	return keys
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
