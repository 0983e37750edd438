package clean

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gradpulse-engine/internal/domain"
)

func rawRow(url string) domain.RawRecord {
	return domain.RawRecord{
		"program":     "Computer Science",
		"university":  "MIT",
		"date_added":  "Jan 5, 2024",
		"url":         url,
		"status":      "Accepted",
		"accept_date": "3 Jan",
		"start_term":  "Fall",
		"start_year":  2024,
		"citizenship": "International",
		"gre_total":   325,
		"gre_verbal":  160,
		"gre_aw":      4.5,
		"degree":      "PhD",
		"gpa":         3.9,
	}
}

func TestCleanNormalizesFullRow(t *testing.T) {
	got, err := New().Clean([]domain.RawRecord{rawRow("https://x/1")})
	require.NoError(t, err)
	require.Len(t, got, 1)

	e := got[0]
	require.Equal(t, "Computer Science", e.Program)
	require.Equal(t, "MIT", e.University)
	require.Equal(t, "2024-01-05", e.DateAdded)
	require.Equal(t, "https://x/1", e.URL)
	require.Equal(t, "Accepted", e.Status)
	require.Equal(t, "2024-01-03", *e.AcceptDate)
	require.Nil(t, e.RejectDate)
	require.Equal(t, "Fall", *e.StartTerm)
	require.Equal(t, 2024, *e.StartYear)
	require.Equal(t, "International", *e.Citizenship)
	require.Equal(t, 325, *e.GRETotal)
	require.Equal(t, 160, *e.GREVerbal)
	require.Equal(t, 4.5, *e.GREAW)
	require.Equal(t, "PhD", *e.Degree)
	require.Equal(t, 3.9, *e.GPA)
	require.Nil(t, e.Comments)
}

func TestCleanDropsRowsMissingRequiredFields(t *testing.T) {
	missingStatus := rawRow("https://x/2")
	missingStatus["status"] = ""
	missingUni := rawRow("https://x/3")
	delete(missingUni, "university")

	got, err := New().Clean([]domain.RawRecord{
		rawRow("https://x/1"), missingStatus, missingUni, nil,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "https://x/1", got[0].URL)
}

func TestCleanNullsOutOfRangeNumerics(t *testing.T) {
	raw := rawRow("https://x/1")
	raw["gpa"] = 9.8
	raw["gre_total"] = 900
	raw["gre_verbal"] = "abc"
	raw["gre_aw"] = -1.0
	raw["start_year"] = 1800

	got, err := New().Clean([]domain.RawRecord{raw})
	require.NoError(t, err)
	require.Len(t, got, 1)

	e := got[0]
	require.Nil(t, e.GPA)
	require.Nil(t, e.GRETotal)
	require.Nil(t, e.GREVerbal)
	require.Nil(t, e.GREAW)
	require.Nil(t, e.StartYear)
}

func TestCleanUnknownStatusFallsBackToPending(t *testing.T) {
	raw := rawRow("https://x/1")
	raw["status"] = "Deferred until further notice"

	got, err := New().Clean([]domain.RawRecord{raw})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Pending", got[0].Status)
}

func TestCleanDedupeKeepsFirstOccurrence(t *testing.T) {
	first := rawRow("https://x/1")
	second := rawRow("https://x/1  ") // trims to the same key
	second["status"] = "Rejected"
	other := rawRow("https://x/2")

	got, err := New().Clean([]domain.RawRecord{first, second, other})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "https://x/1", got[0].URL)
	require.Equal(t, "Accepted", got[0].Status)
	require.Equal(t, "https://x/2", got[1].URL)
}

func TestCleanIsIdempotent(t *testing.T) {
	rows := []domain.RawRecord{rawRow("https://x/1"), rawRow("https://x/2"), rawRow("https://x/1")}

	c := New()
	a, err := c.Clean(rows)
	require.NoError(t, err)
	b, err := c.Clean(rows)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCleanDedupeCanBeDisabled(t *testing.T) {
	c := New()
	c.DedupeByURL = false
	got, err := c.Clean([]domain.RawRecord{rawRow("https://x/1"), rawRow("https://x/1")})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestCleanBadBoundsIsFatal(t *testing.T) {
	c := New()
	c.Bounds.YearMin = 3000
	c.Bounds.YearMax = 2000
	_, err := c.Clean([]domain.RawRecord{rawRow("https://x/1")})
	require.Error(t, err)
}

func TestCleanStripsMarkupAndEntities(t *testing.T) {
	raw := rawRow("https://x/1")
	raw["program"] = "<b>Computer&nbsp;Science</b>"
	raw["comments"] = "  great   news &amp; relief  "

	got, err := New().Clean([]domain.RawRecord{raw})
	require.NoError(t, err)
	require.Equal(t, "Computer Science", got[0].Program)
	require.Equal(t, "great news & relief", *got[0].Comments)
}
