// Package filter implements the predicate pipeline that narrows a
// bookmark collection down to the records matching a declarative
// filter state and an optional parsed query.
package filter

// Sort fields accepted by the comparator engine. Out-of-enum values
// are expected to be rejected at the boundary that builds FilterState,
// not here.
const (
	SortByTitle         = "title"
	SortByTimestamp     = "timestamp"
	SortByCreatedAt     = "createdAt"
	SortByDescription   = "description"
	SortByTags          = "tags"
	SortByMediaFileName = "mediaFileName"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DateRange bounds createdAt to a closed interval. Either bound may be
// empty, leaving that side open. Values are ISO date strings.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SortCriterion is one entry of a multi-criteria sort. Lower priority
// values are applied first.
type SortCriterion struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
	Priority  int    `json:"priority"`
}

// FilterState is the declarative filter description for one named
// view. When EnableMultiSort is false, SortBy and SortDirection alone
// determine order; when true, SortCriteria ordered by priority does.
type FilterState struct {
	SearchTerm      string          `json:"searchTerm"`
	DateRange       DateRange       `json:"dateRange"`
	Tags            []string        `json:"tags"`
	SortBy          string          `json:"sortBy"`
	SortDirection   string          `json:"sortDirection"`
	FileFilter      string          `json:"fileFilter"`
	SortCriteria    []SortCriterion `json:"sortCriteria"`
	EnableMultiSort bool            `json:"enableMultiSort"`
}

// DefaultFilterState returns the state a fresh view starts with:
// nothing filtered, newest first.
func DefaultFilterState() FilterState {
	return FilterState{
		Tags:          []string{},
		SortBy:        SortByCreatedAt,
		SortDirection: SortDesc,
		SortCriteria:  []SortCriterion{},
	}
}
