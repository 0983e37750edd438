package scrape

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"gradpulse-engine/internal/domain"
	"gradpulse-engine/internal/snapshot"
)

var rePageParam = regexp.MustCompile(`([?&]page=)\d+`)

// Scraper drives the page-by-page crawl over the listings site. Pages
// are fetched sequentially; the limiter enforces the politeness delay
// between requests.
type Scraper struct {
	baseURL string
	client  *resty.Client
	limiter *rate.Limiter
}

func New(baseURL string, delay time.Duration, client *resty.Client) *Scraper {
	if delay <= 0 {
		delay = time.Second
	}
	if client == nil {
		client = NewClient("", 0)
	}
	return &Scraper{
		baseURL: baseURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// BuildPageURL replaces an existing ?page= parameter or appends one.
func (s *Scraper) BuildPageURL(page int) string {
	if rePageParam.MatchString(s.baseURL) {
		return rePageParam.ReplaceAllString(s.baseURL, "${1}"+strconv.Itoa(page))
	}
	sep := "?"
	if strings.Contains(s.baseURL, "?") {
		sep = "&"
	}
	return s.baseURL + sep + "page=" + strconv.Itoa(page)
}

// Scrape crawls up to maxPages pages starting at startPage and returns
// the aggregated raw records. The loop ends cleanly on the first empty
// or row-less page; that is "reached the end", not an error. When
// outPath is non-empty the result is written there as an atomic JSON
// snapshot.
func (s *Scraper) Scrape(ctx context.Context, startPage, maxPages int, outPath string) ([]domain.RawRecord, error) {
	results := []domain.RawRecord{}

	for page := startPage; page < startPage+maxPages; page++ {
		pageURL := s.BuildPageURL(page)
		log.Printf("[scrape] fetching page %d: %s", page, pageURL)

		html, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			return results, err
		}
		if html == "" {
			log.Printf("[scrape] empty body for page %d; stopping", page)
			break
		}

		rows := ParsePage(strings.NewReader(html), pageURL)
		if len(rows) == 0 {
			log.Printf("[scrape] no rows on page %d; stopping", page)
			break
		}

		results = append(results, rows...)
		log.Printf("[scrape] page %d: %d rows (total %d)", page, len(rows), len(results))
	}

	if outPath != "" {
		if err := snapshot.Save(outPath, results); err != nil {
			return results, err
		}
		log.Printf("[scrape] saved %d records to %s", len(results), outPath)
	}
	return results, nil
}

// fetchPage GETs one page after waiting out the politeness delay.
// HTTP-level failures soft-fail to an empty body; only context
// cancellation propagates as an error.
func (s *Scraper) fetchPage(ctx context.Context, url string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("[scrape] fetch %s failed: %v", url, err)
		return "", nil
	}
	if resp.StatusCode() >= 400 {
		log.Printf("[scrape] fetch %s failed: status %d", url, resp.StatusCode())
		return "", nil
	}
	return resp.String(), nil
}
