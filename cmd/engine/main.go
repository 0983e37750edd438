package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"gradpulse-engine/internal/clean"
	"gradpulse-engine/internal/config"
	"gradpulse-engine/internal/domain"
	"gradpulse-engine/internal/enrich"
	"gradpulse-engine/internal/events"
	"gradpulse-engine/internal/httpapi"
	"gradpulse-engine/internal/pipeline"
	"gradpulse-engine/internal/report"
	"gradpulse-engine/internal/scheduler"
	"gradpulse-engine/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	dataDir := os.Getenv("GRADPULSE_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	config.OverlayEnv(&cfg)

	cfg, val := config.NormalizeAndValidate(cfg)
	for _, w := range val.Warnings {
		log.Printf("[config] warn: %s", w)
	}
	if !val.OK() {
		for _, e := range val.Errors {
			log.Printf("[config] error: %s", e)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}

	if cfg.App.DataDir != "" {
		dataDir = cfg.App.DataDir
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	dbPath := filepath.Join(dataDir, "gradpulse.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	cleaner := clean.New()
	cleaner.Bounds = domain.Bounds{
		GPAMax:  cfg.Clean.GPAMax,
		YearMin: cfg.Clean.YearMin,
		YearMax: cfg.Clean.YearMax,
	}
	cleaner.Strict = cfg.Clean.Strict

	gate := pipeline.NewGate(filepath.Join(dataDir, "pull.lock"))
	runner := &pipeline.Runner{
		DB:       db.Pool,
		Gate:     gate,
		BaseURL:  cfg.Scrape.BaseURL,
		DataDir:  dataDir,
		Cleaner:  cleaner,
		Enricher: buildEnricher(cfg, cleaner.Bounds),
	}

	// Fresh database next to old snapshots: replay them so the table
	// does not start empty.
	if n, err := store.CountApplicants(context.Background(), db.Pool); err == nil && n == 0 {
		if _, err := runner.Seed(context.Background()); err != nil {
			log.Printf("[main] snapshot seed failed: %v", err)
		}
	}

	cardsDir := filepath.Join(dataDir, "cards")
	runAnalysis := func(ctx context.Context) ([]string, error) {
		return report.RunAll(ctx, db.Pool, cfg.Report.QueriesDir, cardsDir)
	}

	mux := httpapi.NewMux(httpapi.Deps{
		DB:            db.Pool,
		Hub:           hub,
		RunPull:       runner.Run,
		PullBusy:      gate.Busy,
		RunAnalysis:   runAnalysis,
		CardsDir:      cardsDir,
		DefaultPages:  cfg.Scrape.Pages,
		DefaultUseLLM: cfg.LLM.Enabled,
	})

	if cfg.Polling.Enabled {
		interval := time.Duration(cfg.Polling.IntervalMinutes) * time.Minute
		opts := pipeline.Opts{
			Pages:  cfg.Scrape.Pages,
			Delay:  time.Duration(cfg.Scrape.DelayMS) * time.Millisecond,
			UseLLM: cfg.LLM.Enabled,
		}
		go scheduler.Every(context.Background(), interval, "pull", func(ctx context.Context) error {
			res, err := runner.Run(ctx, opts)
			if err != nil {
				if err == pipeline.ErrBusy {
					return nil
				}
				return err
			}
			log.Printf("[pull] scraped=%d cleaned=%d inserted=%d skipped=%d",
				res.Scraped, res.Cleaned, res.Inserted, res.Skipped)
			hub.Publish(`{"type":"pull_completed"}`)
			return nil
		})
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}

// buildEnricher picks the canonicalizer transport from config: HTTP
// service if a URL is set, local command runner otherwise. No LLM
// config means enrichment stays off even when a pull requests it.
func buildEnricher(cfg config.Config, bounds domain.Bounds) *enrich.Extender {
	timeout := time.Duration(cfg.LLM.TimeoutS) * time.Second

	var client enrich.Canonicalizer
	switch {
	case cfg.LLM.URL != "":
		client = enrich.NewHTTPClient(cfg.LLM.URL, timeout)
	case len(cfg.LLM.Command) > 0:
		client = &enrich.CommandClient{
			Dir:     cfg.LLM.Dir,
			Argv:    cfg.LLM.Command,
			Timeout: timeout,
		}
	default:
		return nil
	}

	x := &enrich.Extender{Client: client}
	if cfg.Clean.Strict {
		x.Validate = func(e *domain.ExtendedEntry) error {
			return e.Validate(bounds)
		}
	}
	return x
}
