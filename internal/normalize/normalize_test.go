package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  hello   world ", "hello world"},
		{"<b>CS</b> &amp; Math", "CS & Math"},
		{"a b", "a b"},
		{"<div></div>", ""},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Text(c.in), "input %q", c.in)
	}
}

func TestISODate(t *testing.T) {
	require.Equal(t, "2024-01-05", ISODate("2024-01-05"))
	require.Equal(t, "2024-01-05", ISODate("January 5, 2024"))
	require.Equal(t, "2024-01-05", ISODate("Jan 5, 2024"))
	// Unknown formats pass through untouched.
	require.Equal(t, "05/01/2024", ISODate("05/01/2024"))
	require.Equal(t, "", ISODate("   "))
}

func TestBadgeDate(t *testing.T) {
	year := intp(2024)

	require.Equal(t, "2024-08-28", BadgeDate("28 Aug", year))
	require.Equal(t, "2024-08-28", BadgeDate("Aug 28", year))
	require.Equal(t, "2024-08-28", BadgeDate("28th Aug", year))
	require.Equal(t, "2024-01-03", BadgeDate("3 Jan Total comments 4", year))
	require.Equal(t, "2024-01-05", BadgeDate("Jan 5, 2024 See More", year))
	require.Equal(t, "2023-02-01", BadgeDate("2023-02-01", nil))

	// Short forms need a default year.
	require.Equal(t, "", BadgeDate("28 Aug", nil))
	require.Equal(t, "", BadgeDate("not a date", year))
	require.Equal(t, "", BadgeDate("", year))
}

func TestStatus(t *testing.T) {
	require.Equal(t, "Accepted", Status("Accepted"))
	require.Equal(t, "Rejected", Status("rejected"))
	require.Equal(t, "Interview", Status("INTERVIEW"))
	require.Equal(t, "Waitlisted", Status("Wait listed"))
	require.Equal(t, "Waitlisted", Status("waitlisted"))
	require.Equal(t, "Pending", Status("pending"))
	// Unknown non-empty text deliberately falls back to Pending.
	require.Equal(t, "Pending", Status("Deferred"))
	// Empty stays empty so the required-field gate can drop the row.
	require.Equal(t, "", Status("  "))
}

func TestDegree(t *testing.T) {
	require.Equal(t, "Masters", Degree("Masters"))
	require.Equal(t, "Masters", Degree("Master's"))
	require.Equal(t, "Masters", Degree("MS"))
	require.Equal(t, "Masters", Degree("M.S."))
	require.Equal(t, "PhD", Degree("PhD"))
	require.Equal(t, "EdD", Degree("EdD"))
	require.Equal(t, "", Degree("BSc"))
	require.Equal(t, "", Degree(""))
}

func TestTerm(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Fall", "Fall"}, {"autumn", "Fall"},
		{"Spring", "Spring"}, {"winter", "Spring"},
		{"Summer", "Summer"}, {"summer II", "Summer"},
		{"Q1", "Spring"}, {"Q2", "Summer"}, {"Q3", "Fall"}, {"Q4", "Fall"},
		{"trimester", ""}, {"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Term(c.in), "input %q", c.in)
	}
}

func TestCitizenship(t *testing.T) {
	require.Equal(t, "International", Citizenship("International"))
	require.Equal(t, "International", Citizenship("intern'l"))
	require.Equal(t, "American", Citizenship("american"))
	require.Equal(t, "", Citizenship("canadian"))
	require.Equal(t, "", Citizenship(""))
}

func TestIntInRange(t *testing.T) {
	require.Equal(t, intp(300), IntInRange("300", 260, 340))
	require.Equal(t, intp(300), IntInRange(300, 260, 340))
	require.Equal(t, intp(300), IntInRange(float64(300), 260, 340))
	require.Nil(t, IntInRange("359", 260, 340))
	require.Nil(t, IntInRange("abc", 260, 340))
	require.Nil(t, IntInRange(nil, 260, 340))
	require.Nil(t, IntInRange(300.5, 260, 340))
}

func TestFloatInRange(t *testing.T) {
	got := FloatInRange("3,9", 0, 5)
	require.NotNil(t, got)
	require.InDelta(t, 3.9, *got, 1e-9)

	require.Nil(t, FloatInRange("5.5", 0, 5))
	require.Nil(t, FloatInRange("x", 0, 5))
	require.Nil(t, FloatInRange(nil, 0, 5))
}
