// Package main provides the long-running classification service: webhook
// and WebSocket ingestion, classification workers, persistence and metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"solana-swap-classifier/internal/alert"
	"solana-swap-classifier/internal/classifier"
	"solana-swap-classifier/internal/ingestion"
	"solana-swap-classifier/internal/observability"
	"solana-swap-classifier/internal/provider"
	"solana-swap-classifier/internal/storage"
	chstore "solana-swap-classifier/internal/storage/clickhouse"
	"solana-swap-classifier/internal/storage/memory"
	"solana-swap-classifier/internal/storage/migrations"
	pgstore "solana-swap-classifier/internal/storage/postgres"
)

func main() {
	// Optional .env for local runs
	_ = godotenv.Load()

	webhookAddr := flag.String("webhook-addr", envOr("WEBHOOK_ADDR", ":8080"), "Webhook HTTP listen address")
	metricsAddr := flag.String("metrics-addr", envOr("METRICS_ADDR", ":9090"), "Prometheus metrics HTTP address (empty to disable)")
	postgresDSN := flag.String("postgres-dsn", envOr("POSTGRES_DSN", ""), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", envOr("CLICKHOUSE_DSN", ""), "ClickHouse connection string for analytics (empty disables)")
	useMemory := flag.Bool("use-memory", envOr("USE_MEMORY", "") == "true", "Use in-memory storage instead of PostgreSQL")
	providerName := flag.String("provider", envOr("PROVIDER", provider.NameHelius), "Webhook payload provider: helius or quicknode")
	webhookAuth := flag.String("webhook-auth", envOr("WEBHOOK_AUTH", ""), "Required Authorization header value (empty disables)")
	wsEndpoint := flag.String("ws-endpoint", envOr("WS_ENDPOINT", ""), "Provider WebSocket endpoint (empty disables the stream)")
	wsAccounts := flag.String("ws-accounts", envOr("WS_ACCOUNTS", ""), "Comma-separated accounts for the WebSocket filter")
	workers := flag.Int("workers", envIntOr("WORKERS", 4), "Classification worker count")
	minValueSOL := flag.String("min-value-sol", envOr("MIN_VALUE_SOL", ""), "Minimum quote-leg value in SOL (empty selects the default)")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	if err := run(ctx, logger, options{
		webhookAddr:   *webhookAddr,
		metricsAddr:   *metricsAddr,
		postgresDSN:   *postgresDSN,
		clickhouseDSN: *clickhouseDSN,
		useMemory:     *useMemory,
		providerName:  *providerName,
		webhookAuth:   *webhookAuth,
		wsEndpoint:    *wsEndpoint,
		wsAccounts:    *wsAccounts,
		workers:       *workers,
		minValueSOL:   *minValueSOL,
	}); err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	close(done)
	logger.Println("Shutdown complete")
}

type options struct {
	webhookAddr   string
	metricsAddr   string
	postgresDSN   string
	clickhouseDSN string
	useMemory     bool
	providerName  string
	webhookAuth   string
	wsEndpoint    string
	wsAccounts    string
	workers       int
	minValueSOL   string
}

func run(ctx context.Context, logger *log.Logger, opts options) error {
	// Stores
	var swapStore storage.SwapStore = memory.NewSwapStore()
	var eraseStore storage.EraseStore = memory.NewEraseStore()

	if !opts.useMemory {
		if opts.postgresDSN == "" {
			return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
		}
		pool, err := pgstore.NewPool(ctx, opts.postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		swapStore = pgstore.NewSwapStore(pool)
		eraseStore = pgstore.NewEraseStore(pool)
		logger.Println("Using PostgreSQL storage")
	} else {
		logger.Println("Using in-memory storage")
	}

	// Optional ClickHouse analytics
	var analytics ingestion.AnalyticsSink
	if opts.clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, opts.clickhouseDSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()
		analytics = chstore.NewSwapAnalyticsStore(conn)
		logger.Println("ClickHouse analytics enabled")
	}

	// Classifier
	cfg := classifier.Config{}
	if opts.minValueSOL != "" {
		min, err := decimal.NewFromString(opts.minValueSOL)
		if err != nil {
			return fmt.Errorf("invalid --min-value-sol: %w", err)
		}
		cfg.MinValueSOL = min
	}
	c := classifier.New(cfg)
	notifier := alert.NewLogNotifier(logger)

	// Provider adapters
	plog := logrus.New()
	plog.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	adapters := []provider.Adapter{
		provider.NewHeliusAdapter(plog),
		provider.NewQuickNodeAdapter(plog),
	}

	// Metrics server
	if opts.metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", opts.metricsAddr)
			if err := http.ListenAndServe(opts.metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Webhook source + HTTP server
	webhook := ingestion.NewWebhookSource(ingestion.WebhookSourceOptions{
		Provider:  opts.providerName,
		AuthToken: opts.webhookAuth,
		Logger:    logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/webhook", webhook)
	srv := &http.Server{Addr: opts.webhookAddr, Handler: mux}
	go func() {
		logger.Printf("Starting webhook server on %s", opts.webhookAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("Webhook server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	errCh := make(chan error, 2)

	webhookRunner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:     webhook,
		Adapters:   adapters,
		Classifier: c,
		SwapStore:  swapStore,
		EraseStore: eraseStore,
		Analytics:  analytics,
		Notifier:   notifier,
		Workers:    opts.workers,
		Logger:     logger,
	})
	go func() { errCh <- webhookRunner.Run(ctx) }()
	runners := 1

	// Optional WebSocket stream
	if opts.wsEndpoint != "" {
		ws, err := ingestion.NewWSSource(ctx, ingestion.WSSourceOptions{
			Provider: opts.providerName,
			Endpoint: opts.wsEndpoint,
			Filter:   ingestion.TransactionFilter{AccountInclude: splitList(opts.wsAccounts)},
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("connect websocket: %w", err)
		}
		defer ws.Close()

		wsRunner := ingestion.NewRunner(ingestion.RunnerOptions{
			Source:     ws,
			Adapters:   adapters,
			Classifier: c,
			SwapStore:  swapStore,
			EraseStore: eraseStore,
			Analytics:  analytics,
			Notifier:   notifier,
			Workers:    opts.workers,
			Logger:     logger,
		})
		go func() { errCh <- wsRunner.Run(ctx) }()
		runners++
	}

	logger.Println("Server started")

	var firstErr error
	for i := 0; i < runners; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
