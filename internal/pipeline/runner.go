// Package pipeline runs the full pull cycle: fetch pages, clean the
// raw rows, optionally enrich them, and load the survivors into the
// store. Stages run strictly in order; each leaves a JSON snapshot.
package pipeline

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	"gradpulse-engine/internal/clean"
	"gradpulse-engine/internal/domain"
	"gradpulse-engine/internal/enrich"
	"gradpulse-engine/internal/scrape"
	"gradpulse-engine/internal/snapshot"
	"gradpulse-engine/internal/store"
)

// Opts are the per-invocation knobs.
type Opts struct {
	Pages  int           // max pages to fetch
	Delay  time.Duration // politeness delay between page fetches
	UseLLM bool          // run the enrichment stage
	Force  bool          // discard prior snapshots before starting
}

// Result is what a completed cycle reports.
type Result struct {
	Scraped   int `json:"scraped"`
	Cleaned   int `json:"cleaned"`
	ToLoad    int `json:"to_load"`
	Attempted int `json:"attempted"`
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
}

// Runner owns one storage target's pipeline.
type Runner struct {
	DB       *sql.DB
	Gate     *Gate
	BaseURL  string
	DataDir  string
	Cleaner  *clean.Cleaner
	Enricher *enrich.Extender

	// NewScraper is swappable for tests; nil uses the default client.
	NewScraper func(baseURL string, delay time.Duration) *scrape.Scraper
}

func (r *Runner) rawPath() string      { return filepath.Join(r.DataDir, "applicant_data.json") }
func (r *Runner) cleanedPath() string  { return filepath.Join(r.DataDir, "applicant_data.cleaned.json") }
func (r *Runner) extendedPath() string { return filepath.Join(r.DataDir, "llm_extend_applicant_data.json") }

// Run executes one cycle. A cycle already in flight yields ErrBusy
// immediately. Once started, the cycle runs to completion or errors;
// there is no mid-pipeline cancellation beyond ctx on the fetch stage.
func (r *Runner) Run(ctx context.Context, opts Opts) (Result, error) {
	if err := r.Gate.TryAcquire(); err != nil {
		return Result{}, err
	}
	defer r.Gate.Release()

	if opts.Pages <= 0 {
		opts.Pages = 1
	}
	if opts.Force {
		for _, p := range []string{r.rawPath(), r.cleanedPath(), r.extendedPath()} {
			_ = os.Remove(p)
		}
	}

	var result Result

	// Fetch.
	newScraper := r.NewScraper
	if newScraper == nil {
		newScraper = func(baseURL string, delay time.Duration) *scrape.Scraper {
			return scrape.New(baseURL, delay, nil)
		}
	}
	raw, err := newScraper(r.BaseURL, opts.Delay).Scrape(ctx, 1, opts.Pages, r.rawPath())
	if err != nil {
		return Result{}, err
	}
	result.Scraped = len(raw)

	// Clean.
	cleaned, err := r.Cleaner.Clean(raw)
	if err != nil {
		return Result{}, err
	}
	result.Cleaned = len(cleaned)
	if err := snapshot.Save(r.cleanedPath(), cleaned); err != nil {
		return Result{}, err
	}

	// Enrich. The stage never fails; an unreachable backend just
	// leaves every canon field null.
	var final []domain.ExtendedEntry
	if opts.UseLLM && r.Enricher != nil {
		final = r.Enricher.Extend(ctx, cleaned)
		if err := snapshot.Save(r.extendedPath(), final); err != nil {
			return Result{}, err
		}
	} else {
		final = make([]domain.ExtendedEntry, len(cleaned))
		for i, e := range cleaned {
			final[i] = domain.ExtendedEntry{Entry: e}
		}
	}
	result.ToLoad = len(final)

	// Load.
	stats, err := store.Load(ctx, r.DB, final)
	if err != nil {
		return Result{}, err
	}
	result.Attempted = stats.Attempted
	result.Inserted = stats.Inserted
	result.Skipped = stats.Skipped

	log.Printf("[pipeline] scraped=%d cleaned=%d to_load=%d inserted=%d skipped=%d",
		result.Scraped, result.Cleaned, result.ToLoad, result.Inserted, result.Skipped)
	return result, nil
}

// Seed replays the newest snapshot a previous cycle left behind.
// Meant for first boot against a fresh database file when the data
// dir still carries snapshot files; with no snapshots it is a no-op.
func (r *Runner) Seed(ctx context.Context) (store.Stats, error) {
	if err := r.Gate.TryAcquire(); err != nil {
		return store.Stats{}, err
	}
	defer r.Gate.Release()

	var final []domain.ExtendedEntry
	found, err := snapshot.Load(r.extendedPath(), &final)
	if err != nil {
		return store.Stats{}, err
	}
	if !found {
		var cleaned []domain.Entry
		found, err = snapshot.Load(r.cleanedPath(), &cleaned)
		if err != nil || !found {
			return store.Stats{}, err
		}
		final = make([]domain.ExtendedEntry, len(cleaned))
		for i, e := range cleaned {
			final[i] = domain.ExtendedEntry{Entry: e}
		}
	}

	stats, err := store.Load(ctx, r.DB, final)
	if err != nil {
		return store.Stats{}, err
	}
	log.Printf("[pipeline] seeded from snapshot: attempted=%d inserted=%d skipped=%d",
		stats.Attempted, stats.Inserted, stats.Skipped)
	return stats, nil
}
