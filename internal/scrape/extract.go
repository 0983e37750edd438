package scrape

import (
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gradpulse-engine/internal/domain"
	"gradpulse-engine/internal/normalize"
)

var (
	reDegree     = regexp.MustCompile(`(?i)\b(Masters|Master'?s|MS|PhD|MFA|MBA|JD|EdD|PsyD|Other)\b`)
	reBadgeClass = regexp.MustCompile(`tw-inline-flex|badge|rounded|tw-ring`)

	// Decision token plus an optional "on <date>" tail. RE2 has no
	// lookahead, so instead of stopping at UI chatter the date group
	// matches one of the concrete shapes the site uses ("3 Jan",
	// "Jan 5, 2024", "2024-01-05").
	reStatus = regexp.MustCompile(`(?i)\b(Accepted|Rejected|Interview|Wait\s*listed|Waitlisted)\b` +
		`(?:\s+on\s+(\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]{3,9}` +
		`|[A-Za-z]{3,9}\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})?` +
		`|\d{4}-\d{2}-\d{2}))?`)

	reTermYear = regexp.MustCompile(`(?i)\b(Fall|Spring|Summer)\s+(\d{4})\b`)
	reGPA      = regexp.MustCompile(`(?i)gpa[^0-9]*([0-9]+(?:[.,][0-9]+)?)`)
	reGREV     = regexp.MustCompile(`(?i)\bGRE\s*V[:\s]+(\d{2,3})\b`)
	reGREAW    = regexp.MustCompile(`(?i)\bGRE\s*AWA?[:\s]*([0-9]+(?:\.[0-9]+)?)`)
	reGRETotal = regexp.MustCompile(`(?i)\bGRE[:\s]+(\d{2,3})\b`)
	reSeeMore  = regexp.MustCompile(`(?i)^\s*See More\s*$`)
	reRowLink  = regexp.MustCompile(`/(survey|result)/`)
)

// ParsePage turns one listings page into raw records, one per detected
// result row. Malformed markup never errors: a page without a usable
// table simply yields nothing.
func ParsePage(r io.Reader, pageURL string) []domain.RawRecord {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	var out []domain.RawRecord
	table.Find("tbody > tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.ChildrenFiltered("td")
		if tds.Length() < 4 {
			// Detail/expansion rows and broken rows land here.
			return
		}
		out = append(out, extractRow(tr, tds, pageURL))
	})
	return out
}

func extractRow(tr, tds *goquery.Selection, pageURL string) domain.RawRecord {
	university := flatText(tds.Eq(0))

	// Program cell carries "Program · Degree"; split on the degree token.
	pdText := strings.TrimSpace(strings.ReplaceAll(flatText(tds.Eq(1)), "·", " "))
	program := pdText
	var degree any
	if loc := reDegree.FindStringSubmatchIndex(pdText); loc != nil {
		if d := normalize.Degree(pdText[loc[2]:loc[3]]); d != "" {
			degree = d
		}
		program = strings.Trim(pdText[:loc[0]], " .·-")
	}

	dateAdded := flatText(tds.Eq(2))

	blob := badgeBlob(tr)

	rec := domain.RawRecord{
		"program":     program,
		"university":  university,
		"date_added":  dateAdded,
		"url":         rowURL(tr, pageURL),
		"status":      nil,
		"comments":    nil,
		"accept_date": nil,
		"reject_date": nil,
		"start_term":  nil,
		"start_year":  nil,
		"citizenship": nil,
		"gre_total":   nil,
		"gre_verbal":  nil,
		"gre_aw":      nil,
		"degree":      degree,
		"gpa":         nil,
	}

	if m := reStatus.FindStringSubmatch(blob); m != nil {
		tok := strings.ReplaceAll(strings.ToLower(m[1]), " ", "")
		when := strings.TrimSpace(m[2])
		switch {
		case strings.Contains(tok, "wait"):
			rec["status"] = "Waitlisted"
		case tok == "accepted":
			rec["status"] = "Accepted"
			if when != "" {
				rec["accept_date"] = when
			}
		case tok == "rejected":
			rec["status"] = "Rejected"
			if when != "" {
				rec["reject_date"] = when
			}
		case tok == "interview":
			rec["status"] = "Interview"
		}
	}

	if m := reTermYear.FindStringSubmatch(blob); m != nil {
		rec["start_term"] = titleCase(m[1])
		if y, err := strconv.Atoi(m[2]); err == nil {
			rec["start_year"] = y
		}
	}

	// Badge data is positionally unstable, so citizenship is matched by
	// vocabulary. "international" wins when both tokens appear.
	low := strings.ToLower(blob)
	if strings.Contains(low, "international") {
		rec["citizenship"] = "International"
	} else if strings.Contains(low, "american") {
		rec["citizenship"] = "American"
	}

	if m := reGPA.FindStringSubmatch(blob); m != nil {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			rec["gpa"] = f
		}
	}

	// GRE subscores first; their match spans are cut out of the blob
	// before the bare "GRE <n>" pattern runs, since "GRE" is a prefix
	// of both "GRE V" and "GRE AW".
	greBlob := blob
	if loc := reGREV.FindStringSubmatchIndex(greBlob); loc != nil {
		if n, err := strconv.Atoi(greBlob[loc[2]:loc[3]]); err == nil {
			rec["gre_verbal"] = n
		}
		greBlob = cutSpan(greBlob, loc[0], loc[1])
	}
	if loc := reGREAW.FindStringSubmatchIndex(greBlob); loc != nil {
		if f, err := strconv.ParseFloat(greBlob[loc[2]:loc[3]], 64); err == nil {
			rec["gre_aw"] = f
		}
		greBlob = cutSpan(greBlob, loc[0], loc[1])
	}
	if m := reGRETotal.FindStringSubmatch(greBlob); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			rec["gre_total"] = n
		}
	}

	return rec
}

// badgeBlob concatenates badge/pill element texts, the whole row text
// and any following detail row, forming the search space for the
// vocabulary regexes above.
func badgeBlob(tr *goquery.Selection) string {
	var parts []string

	tr.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		cls, _ := s.Attr("class")
		if !reBadgeClass.MatchString(cls) {
			return
		}
		if t := flatText(s); t != "" {
			parts = append(parts, t)
		}
	})

	parts = append(parts, flatText(tr))

	next := tr.Next()
	if next.Is("tr") && next.Find("td[colspan]").Length() > 0 {
		parts = append(parts, flatText(next))
	}

	return strings.Join(parts, " ")
}

// rowURL prefers the "See More" anchor, then any /survey/ or /result/
// link, then the page URL itself. The degenerate shared-URL case is
// resolved downstream by dedupe.
func rowURL(tr *goquery.Selection, pageURL string) string {
	var href string

	tr.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if reSeeMore.MatchString(a.Text()) {
			href, _ = a.Attr("href")
			return false
		}
		return true
	})
	if href == "" {
		tr.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			h, _ := a.Attr("href")
			if reRowLink.MatchString(h) {
				href = h
				return false
			}
			return true
		})
	}
	if href == "" {
		return canonicalizeURL(pageURL)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return canonicalizeURL(href)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return canonicalizeURL(pageURL)
	}
	return canonicalizeURL(base.ResolveReference(ref).String())
}

// flatText mimics a space-joined text extraction: element boundaries
// become single spaces so adjacent cells never glue together.
func flatText(s *goquery.Selection) string {
	var parts []string
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			parts = append(parts, c.Text())
		} else {
			parts = append(parts, flatText(c))
		}
	})
	return normalize.Text(strings.Join(parts, " "))
}

func cutSpan(s string, start, end int) string {
	return s[:start] + " " + s[end:]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
