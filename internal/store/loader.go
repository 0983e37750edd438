package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"gradpulse-engine/internal/domain"
)

// Stats is the loader's accounting. Attempted == Inserted + Skipped
// holds for every returned value.
type Stats struct {
	Attempted int `json:"attempted"`
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
}

// Load maps entries onto the applicants columns and inserts each one
// if its URL is not already present. The batch runs in one
// transaction: on any error everything rolls back and nothing is
// counted. Re-loading already-present rows only grows Skipped.
func Load(ctx context.Context, db *sql.DB, rows []domain.ExtendedEntry) (Stats, error) {
	var stats Stats
	if len(rows) == 0 {
		return stats, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin load batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO applicants
  (program, university, comments, date_added, url, status, term,
   accept_date, reject_date, us_or_international, gpa, gre, gre_v, gre_aw,
   degree, llm_generated_program, llm_generated_university)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return Stats{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range rows {
		if _, err := stmt.ExecContext(ctx, columnArgs(e)...); err != nil {
			return Stats{}, fmt.Errorf("insert applicant %s: %w", e.URL, err)
		}

		// INSERT OR IGNORE does not report rows affected reliably
		// across drivers; changes() does.
		var changes int
		if err := tx.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
			return Stats{}, fmt.Errorf("read changes: %w", err)
		}

		stats.Attempted++
		if changes > 0 {
			stats.Inserted++
		} else {
			stats.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit load batch: %w", err)
	}
	return stats, nil
}

// columnArgs is the fixed, total mapping from canonical field names to
// storage columns. start_term and start_year combine into the single
// term column ("Fall 2025").
func columnArgs(e domain.ExtendedEntry) []any {
	return []any{
		e.Program,
		e.University,
		e.Comments,
		e.DateAdded,
		e.URL,
		e.Status,
		termColumn(e.StartTerm, e.StartYear),
		e.AcceptDate,
		e.RejectDate,
		e.Citizenship,
		e.GPA,
		e.GRETotal,
		e.GREVerbal,
		e.GREAW,
		e.Degree,
		e.ProgramCanon,
		e.UniversityCanon,
	}
}

func termColumn(term *string, year *int) *string {
	var parts []string
	if term != nil {
		parts = append(parts, *term)
	}
	if year != nil {
		parts = append(parts, strconv.Itoa(*year))
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, " ")
	return &s
}
