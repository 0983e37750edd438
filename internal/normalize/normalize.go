// Package normalize holds the pure field normalizers the cleaner runs
// every scraped value through. Each function is stateless: string in,
// canonical value (or empty/nil) out.
package normalize

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reTags    = regexp.MustCompile(`<[^>]+>`)
	reUITail  = regexp.MustCompile(`(?:Total comments|Open options|See More|Report)\b`)
	reDayMon  = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]{3,})\s*$`)
	reMonDay  = regexp.MustCompile(`(?i)^\s*([A-Za-z]{3,})\s+(\d{1,2})(?:st|nd|rd|th)?\s*$`)
)

// dateLayouts are tried in order for full dates.
var dateLayouts = []string{"2006-01-02", "January 2, 2006", "Jan 2, 2006"}

// Text strips embedded markup, unescapes HTML entities and collapses
// whitespace. Empty after trimming comes back as "".
func Text(s string) string {
	s = reTags.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// ISODate canonicalizes a date string to YYYY-MM-DD. Unrecognized
// formats pass through unchanged so the primary date column never
// loses data.
func ISODate(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// BadgeDate normalizes the short decision dates that ride along in the
// badge blob ("28 Aug", "Aug 28", or a full date with UI chatter glued
// on). defaultYear supplies the year for the short forms; when it is
// nil the short-date path yields "".
func BadgeDate(s string, defaultYear *int) string {
	s = Text(s)
	if s == "" {
		return ""
	}

	// UI tokens sometimes leak into the captured tail.
	if loc := reUITail.FindStringIndex(s); loc != nil {
		s = strings.TrimSpace(s[:loc[0]])
	}
	if s == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	var day, mon string
	if m := reDayMon.FindStringSubmatch(s); m != nil {
		day, mon = m[1], m[2]
	} else if m := reMonDay.FindStringSubmatch(s); m != nil {
		mon, day = m[1], m[2]
	} else {
		return ""
	}
	if defaultYear == nil {
		return ""
	}
	full := day + " " + mon + " " + strconv.Itoa(*defaultYear)
	for _, layout := range []string{"2 Jan 2006", "2 January 2006"} {
		if t, err := time.Parse(layout, full); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// Status folds raw decision text onto the closed status set. Anything
// containing "wait" is Waitlisted; the four exact tokens map to
// themselves; unknown non-empty text falls back to Pending; empty
// stays empty.
func Status(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	t := strings.ReplaceAll(strings.ToLower(s), " ", "")
	switch {
	case strings.Contains(t, "wait"):
		return "Waitlisted"
	case t == "accepted":
		return "Accepted"
	case t == "rejected":
		return "Rejected"
	case t == "interview":
		return "Interview"
	case t == "pending":
		return "Pending"
	default:
		return "Pending"
	}
}

var degreeMap = map[string]string{
	"masters": "Masters", "master's": "Masters", "ms": "Masters",
	"phd": "PhD", "mfa": "MFA", "mba": "MBA",
	"jd": "JD", "edd": "EdD", "psyd": "PsyD", "other": "Other",
}

// Degree maps a raw degree token onto the closed degree set; unknown
// tokens yield "".
func Degree(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	key := strings.ToLower(s)
	key = strings.ReplaceAll(key, ".", "")
	key = strings.ReplaceAll(key, "’", "'")
	if d, ok := degreeMap[key]; ok {
		return d
	}
	return ""
}

// Term folds a raw term token onto Fall/Spring/Summer. Autumn, Winter
// and quarter names fold per the fixed business mapping; anything else
// yields "".
func Term(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	switch t := strings.ToLower(s); {
	case t == "fall" || t == "autumn":
		return "Fall"
	case t == "spring":
		return "Spring"
	case strings.HasPrefix(t, "summer"):
		return "Summer"
	case t == "winter":
		return "Spring"
	case t == "q1" || t == "quarter1":
		return "Spring"
	case t == "q2" || t == "quarter2":
		return "Summer"
	case t == "q3" || t == "quarter3" || t == "q4" || t == "quarter4":
		return "Fall"
	default:
		return ""
	}
}

// Citizenship prefix-matches the raw value: inter* is International,
// amer* is American, everything else yields "".
func Citizenship(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	t := strings.ToLower(s)
	switch {
	case strings.HasPrefix(t, "inter"):
		return "International"
	case strings.HasPrefix(t, "amer"):
		return "American"
	default:
		return ""
	}
}

// IntInRange parses v as an integer and nils it outside [lo, hi].
// Accepts ints, floats and numeric strings since raw records are
// untyped.
func IntInRange(v any, lo, hi int) *int {
	n, ok := toInt(v)
	if !ok || n < lo || n > hi {
		return nil
	}
	return &n
}

// FloatInRange parses v as a float and nils it outside [lo, hi].
func FloatInRange(v any, lo, hi float64) *float64 {
	f, ok := toFloat(v)
	if !ok || f < lo || f > hi {
		return nil
	}
	return &f
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		// JSON numbers decode as float64.
		if x == float64(int(x)) {
			return int(x), true
		}
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
