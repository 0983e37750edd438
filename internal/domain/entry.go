package domain

import (
	"fmt"
	"strings"
)

// RawRecord is the loosely-typed shape a scraped table row has before
// cleaning. No key is guaranteed to be present or well-typed.
type RawRecord = map[string]any

// Closed value sets for the canonical schema.
var (
	StatusAllowed = map[string]bool{
		"Accepted": true, "Rejected": true, "Interview": true,
		"Waitlisted": true, "Pending": true,
	}
	DegreeAllowed = map[string]bool{
		"Masters": true, "PhD": true, "MFA": true, "MBA": true,
		"JD": true, "EdD": true, "PsyD": true, "Other": true,
	}
	TermAllowed = map[string]bool{"Fall": true, "Spring": true, "Summer": true}
	CitAllowed  = map[string]bool{"International": true, "American": true}
)

// Bounds are the tunable numeric limits applied during validation.
type Bounds struct {
	GPAMax  float64
	YearMin int
	YearMax int
}

func DefaultBounds() Bounds {
	return Bounds{GPAMax: 5.0, YearMin: 1950, YearMax: 2035}
}

// Entry is one cleaned admissions result. Required fields are plain
// strings; optionals are pointers so "absent" survives JSON round-trips.
type Entry struct {
	Program    string `json:"program"`
	University string `json:"university"`
	DateAdded  string `json:"date_added"`
	URL        string `json:"url"`
	Status     string `json:"status"`

	Comments    *string  `json:"comments"`
	AcceptDate  *string  `json:"accept_date"`
	RejectDate  *string  `json:"reject_date"`
	StartTerm   *string  `json:"start_term"`
	StartYear   *int     `json:"start_year"`
	Citizenship *string  `json:"citizenship"`
	GRETotal    *int     `json:"gre_total"`
	GREVerbal   *int     `json:"gre_verbal"`
	GREAW       *float64 `json:"gre_aw"`
	Degree      *string  `json:"degree"`
	GPA         *float64 `json:"gpa"`
}

// ExtendedEntry is an Entry plus the canonical labels produced by the
// enrichment service. Both canon fields are nil until enrichment runs.
type ExtendedEntry struct {
	Entry
	ProgramCanon    *string `json:"program_canon"`
	UniversityCanon *string `json:"university_canon"`
}

// Validate enforces the typed schema: required fields non-empty, enum
// fields inside their closed sets, numbers inside bounds. This is the
// strict check the cleaner treats as fatal.
func (e *Entry) Validate(b Bounds) error {
	for name, v := range map[string]string{
		"program": e.Program, "university": e.University,
		"date_added": e.DateAdded, "url": e.URL, "status": e.Status,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("required field %q is empty", name)
		}
	}
	if !StatusAllowed[e.Status] {
		return fmt.Errorf("status %q not in allowed set", e.Status)
	}
	if e.Degree != nil && !DegreeAllowed[*e.Degree] {
		return fmt.Errorf("degree %q not in allowed set", *e.Degree)
	}
	if e.StartTerm != nil && !TermAllowed[*e.StartTerm] {
		return fmt.Errorf("start_term %q not in allowed set", *e.StartTerm)
	}
	if e.Citizenship != nil && !CitAllowed[*e.Citizenship] {
		return fmt.Errorf("citizenship %q not in allowed set", *e.Citizenship)
	}
	if e.StartYear != nil && (*e.StartYear < b.YearMin || *e.StartYear > b.YearMax) {
		return fmt.Errorf("start_year %d outside [%d, %d]", *e.StartYear, b.YearMin, b.YearMax)
	}
	if e.GPA != nil && (*e.GPA < 0.0 || *e.GPA > b.GPAMax) {
		return fmt.Errorf("gpa %v outside [0, %v]", *e.GPA, b.GPAMax)
	}
	if e.GRETotal != nil && (*e.GRETotal < 260 || *e.GRETotal > 340) {
		return fmt.Errorf("gre_total %d outside [260, 340]", *e.GRETotal)
	}
	if e.GREVerbal != nil && (*e.GREVerbal < 130 || *e.GREVerbal > 170) {
		return fmt.Errorf("gre_verbal %d outside [130, 170]", *e.GREVerbal)
	}
	if e.GREAW != nil && (*e.GREAW < 0.0 || *e.GREAW > 6.0) {
		return fmt.Errorf("gre_aw %v outside [0.0, 6.0]", *e.GREAW)
	}
	return nil
}
