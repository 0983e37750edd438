package store

import (
	"context"
	"database/sql"
)

// Applicant is one stored row, keyed for JSON the way the dashboard
// expects the columns.
type Applicant struct {
	ID                 int64    `json:"p_id"`
	Program            string   `json:"program"`
	University         string   `json:"university"`
	Comments           *string  `json:"comments"`
	DateAdded          string   `json:"date_added"`
	URL                string   `json:"url"`
	Status             string   `json:"status"`
	Term               *string  `json:"term"`
	AcceptDate         *string  `json:"accept_date"`
	RejectDate         *string  `json:"reject_date"`
	USOrInternational  *string  `json:"us_or_international"`
	GPA                *float64 `json:"gpa"`
	GRE                *int     `json:"gre"`
	GREV               *int     `json:"gre_v"`
	GREAW              *float64 `json:"gre_aw"`
	Degree             *string  `json:"degree"`
	LLMProgram         *string  `json:"llm_generated_program"`
	LLMUniversity      *string  `json:"llm_generated_university"`
}

// ListApplicants returns the most recently added rows, newest first.
func ListApplicants(ctx context.Context, db *sql.DB, limit int) ([]Applicant, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := db.QueryContext(ctx, `
SELECT p_id, program, university, comments, date_added, url, status, term,
       accept_date, reject_date, us_or_international, gpa, gre, gre_v, gre_aw,
       degree, llm_generated_program, llm_generated_university
FROM applicants
ORDER BY date_added DESC, p_id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Applicant{}
	for rows.Next() {
		var a Applicant
		if err := rows.Scan(
			&a.ID, &a.Program, &a.University, &a.Comments, &a.DateAdded,
			&a.URL, &a.Status, &a.Term, &a.AcceptDate, &a.RejectDate,
			&a.USOrInternational, &a.GPA, &a.GRE, &a.GREV, &a.GREAW,
			&a.Degree, &a.LLMProgram, &a.LLMUniversity,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountApplicants reports the table size.
func CountApplicants(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicants;`).Scan(&n)
	return n, err
}
