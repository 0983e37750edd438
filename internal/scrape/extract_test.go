package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixturePage = `<html><body>
<table>
<tbody>
<tr>
  <td>MIT</td>
  <td>Computer Science · PhD</td>
  <td>Jan 5, 2024</td>
  <td><a href="/result/12345">See More</a></td>
</tr>
<tr>
  <td colspan="4">
    <span class="tw-inline-flex rounded">Accepted on 3 Jan</span>
    <span class="badge">Fall 2024</span>
    <span class="badge">International</span>
    <span class="badge">GPA 3.85</span>
    <span class="badge">GRE 325</span>
    <span class="badge">GRE V 160</span>
    <span class="badge">GRE AW 4.5</span>
  </td>
</tr>
<tr>
  <td>Oberlin</td>
  <td>History MA program</td>
  <td>Feb 2, 2024</td>
  <td><a href="https://www.example.com/survey/999">details</a></td>
</tr>
<tr>
  <td>Broken row</td>
  <td>too few cells</td>
</tr>
<tr>
  <td>Linkless U</td>
  <td>Chemistry Masters</td>
  <td>Mar 1, 2024</td>
  <td>Rejected on Feb 20, 2024 American</td>
</tr>
</tbody>
</table>
</body></html>`

func TestParsePageExtractsFullRow(t *testing.T) {
	rows := ParsePage(strings.NewReader(fixturePage), "https://site.test/results?page=1")
	require.Len(t, rows, 3)

	r := rows[0]
	require.Equal(t, "MIT", r["university"])
	require.Equal(t, "Computer Science", r["program"])
	require.Equal(t, "PhD", r["degree"])
	require.Equal(t, "Jan 5, 2024", r["date_added"])
	require.Equal(t, "https://site.test/result/12345", r["url"])
	require.Equal(t, "Accepted", r["status"])
	require.Equal(t, "3 Jan", r["accept_date"])
	require.Nil(t, r["reject_date"])
	require.Equal(t, "Fall", r["start_term"])
	require.Equal(t, 2024, r["start_year"])
	require.Equal(t, "International", r["citizenship"])
	require.Equal(t, 3.85, r["gpa"])
	require.Equal(t, 325, r["gre_total"])
	require.Equal(t, 160, r["gre_verbal"])
	require.Equal(t, 4.5, r["gre_aw"])
}

func TestParsePageSkipsMalformedRows(t *testing.T) {
	rows := ParsePage(strings.NewReader(fixturePage), "https://site.test/results")
	for _, r := range rows {
		require.NotEqual(t, "Broken row", r["university"])
	}
}

func TestParsePageURLFallbacks(t *testing.T) {
	rows := ParsePage(strings.NewReader(fixturePage), "https://site.test/results?page=2")
	require.Len(t, rows, 3)

	// Second row has no "See More" anchor but a /survey/ link.
	require.Equal(t, "https://www.example.com/survey/999", rows[1]["url"])

	// Third row has no per-row link at all; the page URL stands in.
	require.Equal(t, "https://site.test/results?page=2", rows[2]["url"])
}

func TestParsePageRejectDate(t *testing.T) {
	rows := ParsePage(strings.NewReader(fixturePage), "https://site.test/results")
	r := rows[2]
	require.Equal(t, "Rejected", r["status"])
	require.Equal(t, "Feb 20, 2024", r["reject_date"])
	require.Nil(t, r["accept_date"])
	require.Equal(t, "American", r["citizenship"])
	require.Equal(t, "Masters", r["degree"])
	require.Equal(t, "Chemistry", r["program"])
}

func TestParsePageNoTable(t *testing.T) {
	rows := ParsePage(strings.NewReader("<html><body><p>nothing here</p></body></html>"), "https://site.test/")
	require.Empty(t, rows)

	rows = ParsePage(strings.NewReader("not html at all"), "https://site.test/")
	require.Empty(t, rows)
}

func TestGRESubscoresDoNotFeedTotal(t *testing.T) {
	page := `<table><tbody><tr>
	  <td>U</td><td>Math PhD</td><td>2024-01-01</td>
	  <td>Accepted GRE V 165 GRE AW 5.0</td>
	</tr></tbody></table>`
	rows := ParsePage(strings.NewReader(page), "https://site.test/")
	require.Len(t, rows, 1)
	require.Equal(t, 165, rows[0]["gre_verbal"])
	require.Equal(t, 5.0, rows[0]["gre_aw"])
	// No bare GRE score present: the subscores must not leak into it.
	require.Nil(t, rows[0]["gre_total"])
}

func TestWaitlistedNeverCapturesDate(t *testing.T) {
	page := `<table><tbody><tr>
	  <td>U</td><td>Bio PhD</td><td>2024-01-01</td>
	  <td>Wait listed on 5 Feb</td>
	</tr></tbody></table>`
	rows := ParsePage(strings.NewReader(page), "https://site.test/")
	require.Len(t, rows, 1)
	require.Equal(t, "Waitlisted", rows[0]["status"])
	require.Nil(t, rows[0]["accept_date"])
	require.Nil(t, rows[0]["reject_date"])
}
