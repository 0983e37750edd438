// Package clean turns raw scraped records into validated canonical
// entries: schema projection, field normalization, a required-field
// gate, optional strict validation, and dedupe by listing URL.
package clean

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"gradpulse-engine/internal/domain"
	"gradpulse-engine/internal/normalize"
)

type Cleaner struct {
	Bounds domain.Bounds

	// DedupeByURL keeps the first row per distinct trimmed URL.
	DedupeByURL bool

	// Strict makes the typed-schema check fatal for the whole Clean
	// call. The required-field gate stays a soft per-row drop either
	// way.
	Strict bool
}

func New() *Cleaner {
	return &Cleaner{
		Bounds:      domain.DefaultBounds(),
		DedupeByURL: true,
		Strict:      true,
	}
}

// Clean normalizes every raw row, drops rows missing any required
// field, optionally hard-fails on a strict validation error, and
// dedupes by URL. Output order is input order minus dropped rows.
func (c *Cleaner) Clean(rows []domain.RawRecord) ([]domain.Entry, error) {
	if c.Bounds.YearMin > c.Bounds.YearMax {
		return nil, fmt.Errorf("year_min %d greater than year_max %d", c.Bounds.YearMin, c.Bounds.YearMax)
	}

	cleaned := make([]domain.Entry, 0, len(rows))
	for _, raw := range rows {
		if raw == nil {
			continue
		}
		e := c.normalizeRow(raw)

		if e.Program == "" || e.University == "" || e.DateAdded == "" || e.URL == "" || e.Status == "" {
			// Missing a required field: silently excluded.
			continue
		}

		if c.Strict {
			if err := e.Validate(c.Bounds); err != nil {
				return nil, fmt.Errorf("strict validation: %w", err)
			}
		}
		cleaned = append(cleaned, e)
	}

	if c.DedupeByURL {
		cleaned = dedupeByURL(cleaned)
	}
	log.Printf("[clean] total=%d kept=%d", len(rows), len(cleaned))
	return cleaned, nil
}

// normalizeRow projects one raw record onto the schema. Unknown keys
// are ignored; missing keys become zero values here and nils below.
func (c *Cleaner) normalizeRow(raw domain.RawRecord) domain.Entry {
	var e domain.Entry

	e.Program = normalize.Text(asString(raw["program"]))
	e.University = normalize.Text(asString(raw["university"]))
	e.URL = normalize.Text(asString(raw["url"]))
	e.Status = normalize.Status(asString(raw["status"]))
	e.DateAdded = normalize.ISODate(asString(raw["date_added"]))

	e.Comments = optText(asString(raw["comments"]))
	e.Degree = optToken(normalize.Degree(asString(raw["degree"])))
	e.StartTerm = optToken(normalize.Term(asString(raw["start_term"])))
	e.Citizenship = optToken(normalize.Citizenship(asString(raw["citizenship"])))

	e.StartYear = normalize.IntInRange(raw["start_year"], c.Bounds.YearMin, c.Bounds.YearMax)
	e.GPA = normalize.FloatInRange(raw["gpa"], 0.0, c.Bounds.GPAMax)
	e.GRETotal = normalize.IntInRange(raw["gre_total"], 260, 340)
	e.GREVerbal = normalize.IntInRange(raw["gre_verbal"], 130, 170)
	e.GREAW = normalize.FloatInRange(raw["gre_aw"], 0.0, 6.0)

	// Short decision dates borrow their year from date_added.
	var defaultYear *int
	if len(e.DateAdded) >= 4 {
		if y, err := strconv.Atoi(e.DateAdded[:4]); err == nil {
			defaultYear = &y
		}
	}
	e.AcceptDate = optToken(normalize.BadgeDate(asString(raw["accept_date"]), defaultYear))
	e.RejectDate = optToken(normalize.BadgeDate(asString(raw["reject_date"]), defaultYear))

	return e
}

func dedupeByURL(rows []domain.Entry) []domain.Entry {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	for _, r := range rows {
		key := strings.TrimSpace(r.URL)
		if key == "" {
			// Unreachable after the required gate, but a blank URL
			// must pass through rather than crash or collide.
			out = append(out, r)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func optText(s string) *string {
	return optToken(normalize.Text(s))
}

func optToken(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
