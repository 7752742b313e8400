package coursesearch

import (
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
)

// SearchMode controls how many keywords a course must contain.
type SearchMode string

// Search mode constants.
const (
	ModeBroad SearchMode = SearchMode(mode.Broad)
	ModeHoned SearchMode = SearchMode(mode.Honed)
)

// Course is one catalog entry.
type Course struct {
	Title         string
	Description   string
	Code          string
	HubUnits      []string
	Prerequisites string   // empty when absent
	Credits       *float64 // nil when absent
}

// Result is the outcome of one search.
type Result struct {
	// Keywords is the normalized form of the query that was matched.
	Keywords []string
	// Courses keeps catalog order. Empty, never nil, when nothing matched.
	Courses []Course
}

// BatchResult is one item of a batch search.
type BatchResult struct {
	Result Result
	Err    error
}

// ImportReport summarizes a catalog import.
type ImportReport struct {
	Loaded  int
	Skipped map[string]int // reason → count
	Trimmed int
}

func courseFromEntry(e *course.Entry) Course {
	c := course.ToRecord(*e)
	return Course{
		Title:         c.Title,
		Description:   c.Description,
		Code:          c.Code,
		HubUnits:      c.HubUnits,
		Prerequisites: c.Prerequisites,
		Credits:       c.Credits,
	}
}

func coursesFromEntries(entries []course.Entry) []Course {
	out := make([]Course, len(entries))
	for i := range entries {
		out[i] = courseFromEntry(&entries[i])
	}
	return out
}

func (c Course) record() course.Record {
	return course.Record{
		Title:         c.Title,
		Description:   c.Description,
		Code:          c.Code,
		HubUnits:      c.HubUnits,
		Prerequisites: c.Prerequisites,
		Credits:       c.Credits,
	}
}

func records(courses []Course) []course.Record {
	out := make([]course.Record, len(courses))
	for i := range courses {
		out[i] = courses[i].record()
	}
	return out
}
