package store

import "database/sql"

// Migrate brings the applicants schema up to the current version. The
// column names are an external contract shared with the dashboard's
// SQL queries; they deliberately differ from the JSON field names
// (us_or_international, gre/gre_v/gre_aw, llm_generated_*).
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS applicants (
  p_id INTEGER PRIMARY KEY AUTOINCREMENT,
  program TEXT NOT NULL,
  university TEXT NOT NULL,
  comments TEXT,
  date_added TEXT NOT NULL,
  url TEXT NOT NULL,
  status TEXT NOT NULL,
  term TEXT,
  accept_date TEXT,
  reject_date TEXT,
  us_or_international TEXT,
  gpa REAL,
  gre INTEGER,
  gre_v INTEGER,
  gre_aw REAL,
  degree TEXT,
  llm_generated_program TEXT,
  llm_generated_university TEXT
);
`); err != nil {
		return err
	}

	// The natural key. All idempotency guarantees rest on this
	// constraint, not on in-process locking.
	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_applicants_url
ON applicants(url);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_applicants_date_added
ON applicants(date_added);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}
