package httpapi

import (
	"context"
	"database/sql"

	"gradpulse-engine/internal/events"
	"gradpulse-engine/internal/pipeline"
	"gradpulse-engine/internal/store"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Pipeline entrypoint (inject for testability)
	RunPull func(ctx context.Context, opts pipeline.Opts) (pipeline.Result, error)

	// PullBusy probes whether a cycle is currently in flight
	PullBusy func() bool

	// Analysis entrypoint; returns the card files it wrote
	RunAnalysis func(ctx context.Context) ([]string, error)

	// Directory the analysis GET endpoint serves card JSON from
	CardsDir string

	// Defaults the pull endpoint uses when the request omits knobs
	DefaultPages  int
	DefaultUseLLM bool

	ListApplicants func(ctx context.Context, db *sql.DB, limit int) ([]store.Applicant, error)
}

func (d *Deps) listApplicants() func(ctx context.Context, db *sql.DB, limit int) ([]store.Applicant, error) {
	if d.ListApplicants != nil {
		return d.ListApplicants
	}
	return store.ListApplicants
}
