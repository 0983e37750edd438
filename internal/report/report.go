// Package report executes the dashboard's analysis queries and dumps
// each result set to a JSON card file the web layer serves as-is.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"gradpulse-engine/internal/snapshot"
)

// RunAll executes every q*.sql file under queriesDir against db and
// writes q_<name>.json files into outDir. Queries run concurrently;
// one failing query fails the whole run.
func RunAll(ctx context.Context, db *sql.DB, queriesDir, outDir string) ([]string, error) {
	entries, err := os.ReadDir(queriesDir)
	if err != nil {
		return nil, fmt.Errorf("read queries dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "q") || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	g, gctx := errgroup.WithContext(ctx)
	written := make([]string, len(names))

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			sqlText, err := os.ReadFile(filepath.Join(queriesDir, name))
			if err != nil {
				return err
			}
			rows, err := runQuery(gctx, db, string(sqlText))
			if err != nil {
				return fmt.Errorf("query %s: %w", name, err)
			}

			base := strings.TrimSuffix(name, ".sql")
			out := filepath.Join(outDir, "q_"+strings.TrimPrefix(base, "q")+".json")
			if err := snapshot.Save(out, rows); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			written[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("[report] wrote %d card files to %s", len(written), outDir)
	return written, nil
}

// runQuery executes one SELECT and shapes every row as a column-keyed
// object, so the card files stay self-describing.
func runQuery(ctx context.Context, db *sql.DB, query string) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[c] = v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
