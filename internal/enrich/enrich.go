// Package enrich merges canonical program/university labels from an
// external language-model service into cleaned entries. The merge is
// atomic per row: a post-merge validation failure rolls that row back.
package enrich

import (
	"context"
	"log"
	"strings"

	"gradpulse-engine/internal/domain"
)

// Label is one canonicalization result. Empty strings mean the
// service had nothing for that side.
type Label struct {
	Program    string
	University string
}

// Canonicalizer is the enrichment boundary: ordered, one label per
// input text. Transport is an implementation detail.
type Canonicalizer interface {
	CanonizeBatch(ctx context.Context, texts []string) ([]Label, error)
}

// Extender drives enrichment over a batch of cleaned entries.
type Extender struct {
	Client Canonicalizer

	// Validate, when set, runs against each merged row; a failure
	// reverts that row's merge. Nil disables post-merge validation.
	Validate func(*domain.ExtendedEntry) error
}

// Extend submits one batch and merges the labels back, row by row.
// Whatever goes wrong with the service, the output always has exactly
// one entry per input row; degradation means null canon fields, never
// an error.
func (x *Extender) Extend(ctx context.Context, rows []domain.Entry) []domain.ExtendedEntry {
	if len(rows) == 0 {
		return nil
	}

	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = strings.TrimSuffix(strings.TrimSpace(r.Program)+", "+strings.TrimSpace(r.University), ", ")
		texts[i] = strings.TrimPrefix(texts[i], ", ")
	}

	var labels []Label
	if x.Client != nil {
		var err error
		labels, err = x.Client.CanonizeBatch(ctx, texts)
		if err != nil {
			log.Printf("[enrich] batch failed, degrading to null labels: %v", err)
			labels = nil
		}
	}

	// Tolerate count mismatches: truncate extras, pad the shortfall.
	if len(labels) > len(rows) {
		labels = labels[:len(rows)]
	}
	for len(labels) < len(rows) {
		labels = append(labels, Label{})
	}

	out := make([]domain.ExtendedEntry, len(rows))
	for i, r := range rows {
		out[i] = merge(r, labels[i], x.Validate)
	}
	return out
}

// merge applies one label to one entry. Non-empty canon values
// override the primary fields; the canon fields are always attached
// (nil when the service returned nothing). Validation failure undoes
// everything for this row only.
func merge(e domain.Entry, lab Label, validate func(*domain.ExtendedEntry) error) domain.ExtendedEntry {
	out := domain.ExtendedEntry{Entry: e}

	prog := strings.TrimSpace(lab.Program)
	univ := strings.TrimSpace(lab.University)

	if prog != "" {
		out.ProgramCanon = &prog
		out.Program = prog
	}
	if univ != "" {
		out.UniversityCanon = &univ
		out.University = univ
	}

	if validate != nil && (prog != "" || univ != "") {
		if err := validate(&out); err != nil {
			log.Printf("[enrich] validation failed, reverting merge for %s: %v", e.URL, err)
			out.Entry = e
			out.ProgramCanon = nil
			out.UniversityCanon = nil
		}
	}
	return out
}
