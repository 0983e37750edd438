package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildPageURL(t *testing.T) {
	s := New("https://site.test/results", 0, nil)
	require.Equal(t, "https://site.test/results?page=3", s.BuildPageURL(3))

	s = New("https://site.test/results?q=cs", 0, nil)
	require.Equal(t, "https://site.test/results?q=cs&page=2", s.BuildPageURL(2))

	s = New("https://site.test/results?page=9&q=cs", 0, nil)
	require.Equal(t, "https://site.test/results?page=4&q=cs", s.BuildPageURL(4))
}

func TestScrapeStopsOnEmptyPage(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		if page == "1" {
			_, _ = w.Write([]byte(fixturePage))
			return
		}
		// A table-less page reads as "no rows": end of the crawl.
		_, _ = w.Write([]byte("<html><body>done</body></html>"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "raw.json")
	s := New(srv.URL+"/results", time.Millisecond, NewClient("test-agent", 5*time.Second))

	rows, err := s.Scrape(context.Background(), 1, 10, out)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// Page 2 was fetched, found empty, and ended the loop cleanly.
	require.Equal(t, []string{"1", "2"}, pages)

	// Snapshot landed on disk as a JSON array.
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var saved []map[string]any
	require.NoError(t, json.Unmarshal(b, &saved))
	require.Len(t, saved, 3)
}

func TestScrapeSoftFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(srv.URL+"/results", time.Millisecond, NewClient("test-agent", 5*time.Second))
	rows, err := s.Scrape(context.Background(), 1, 5, "")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestScrapeRespectsMaxPages(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	s := New(srv.URL+"/results", time.Millisecond, NewClient("test-agent", 5*time.Second))
	rows, err := s.Scrape(context.Background(), 1, 2, "")
	require.NoError(t, err)
	require.Equal(t, 2, hits)
	require.Len(t, rows, 6)
}
