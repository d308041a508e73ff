package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"FXStrength/internal/api"
	"FXStrength/internal/collector"
	"FXStrength/internal/config"
	"FXStrength/internal/model"
	"FXStrength/internal/notifier"
	"FXStrength/internal/observability"
	"FXStrength/internal/recorder"
	"FXStrength/internal/scheduler"
	"FXStrength/internal/store"
	"FXStrength/internal/strength"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FXStrength starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics("fx_strength")

	// Init Postgres archive
	var pool *store.Pool
	var archive *store.ForexDataStore
	if cfg.Database.PostgresDSN != "" {
		pool, err = store.NewPool(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			log.Fatalf("[FATAL] connect postgres: %v", err)
		}
		defer pool.Close()
		if err := pool.Migrate(ctx); err != nil {
			log.Fatalf("[FATAL] migrate postgres: %v", err)
		}
		archive = store.NewForexDataStore(pool)
		log.Println("[INFO] postgres archive connected")
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Kind {
	case config.SourceREST:
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.SourcePostgres:
		fetcher = collector.NewForexDataFetcher(archive)
	case config.SourceMock:
		fetcher = &collector.MockFetcher{Seed: cfg.DataSource.MockSeed}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher, cfg.Universe, cfg.Pairs, cfg.DataSource.HistoryDays)
	col.Concurrency = cfg.DataSource.Concurrency
	col.Metrics = metrics
	if archive != nil && cfg.DataSource.Kind != config.SourcePostgres {
		col.Archive = archive
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			log.Printf("[WARN] create sqlite directory: %v", err)
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init strength service
	cache := strength.NewCache(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	svc := strength.NewService(cache, metrics, cfg.DisplayUnits)

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Println("[WARN] telegram not configured, notifications disabled")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, svc, n, rec, model.Period(cfg.Report.Period))
	sched.Metrics = metrics
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Load the first basket so the API has data; RUN_ON_START also notifies.
	notifyOnStart := os.Getenv("RUN_ON_START") == "true"
	go func() {
		if err := sched.Refresh(ctx, notifyOnStart); err != nil {
			log.Printf("[ERROR] initial refresh: %v", err)
		}
	}()

	// Start API server
	srv := api.NewServer(svc, metrics, pool, cfg.API.Port, cfg.API.APIKey, cfg.API.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] api server: %v", err)
		}
	}()

	log.Println("[INFO] FXStrength is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] api shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] FXStrength stopped")
}
