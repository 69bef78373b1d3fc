package filter

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark/pkg/bookmarks"
	"github.com/shelfmark/shelfmark/pkg/query"
)

// Facets are the distinct values available for filter selection,
// computed over the entire unfiltered input.
type Facets struct {
	AvailableFiles []string `json:"availableFiles"`
	AvailableTags  []string `json:"availableTags"`
}

// Analytics summarizes a filter pass.
type Analytics struct {
	TotalBookmarks      int     `json:"totalBookmarks"`
	FilteredCount       int     `json:"filteredCount"`
	ReductionPercentage float64 `json:"reductionPercentage"`
	HasActiveFilters    bool    `json:"hasActiveFilters"`
}

// Result is the output of one predicate pass: the surviving records in
// input order, plus facets and analytics.
type Result struct {
	Bookmarks []bookmarks.Bookmark `json:"bookmarks"`
	Facets    Facets               `json:"facets"`
	Analytics Analytics            `json:"analytics"`
}

// Engine runs the predicate pipeline. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	dates *query.DateMatcher
}

// NewEngine creates a predicate engine using the system clock for date
// filters.
func NewEngine() *Engine {
	return &Engine{dates: query.NewDateMatcher()}
}

// NewEngineWithClock creates a predicate engine with an injected
// clock, for deterministic date-filter evaluation.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{dates: &query.DateMatcher{Now: now}}
}

// Apply filters records against the state and optional parsed query.
// Input order is preserved; this stage only removes elements. An empty
// state and nil query return every record.
func (e *Engine) Apply(records []bookmarks.Bookmark, state FilterState, parsed *query.ParsedQuery) Result {
	filtered := make([]bookmarks.Bookmark, 0, len(records))
	for i := range records {
		if e.matches(&records[i], state, parsed) {
			filtered = append(filtered, records[i])
		}
	}

	total := len(records)
	count := len(filtered)
	return Result{
		Bookmarks: filtered,
		Facets:    computeFacets(records),
		Analytics: Analytics{
			TotalBookmarks:      total,
			FilteredCount:       count,
			ReductionPercentage: reductionPercentage(total, count),
			HasActiveFilters:    count != total,
		},
	}
}

// matches runs every pipeline stage against one record. Stage order is
// cheap-first but correctness does not depend on it.
func (e *Engine) matches(b *bookmarks.Bookmark, state FilterState, parsed *query.ParsedQuery) bool {
	if parsed != nil {
		if !e.matchesAdvanced(b, parsed) {
			return false
		}
	} else if state.SearchTerm != "" {
		if !matchesAnyField(b, state.SearchTerm) {
			return false
		}
	}

	if state.FileFilter != "" && b.FilePath != state.FileFilter {
		return false
	}

	for _, tag := range state.Tags {
		if !b.HasTag(tag) {
			return false
		}
	}

	return matchesDateRange(b, state.DateRange)
}

// matchesAdvanced applies a parsed query: every populated condition
// must hold. A query with all fields empty matches every record.
func (e *Engine) matchesAdvanced(b *bookmarks.Bookmark, parsed *query.ParsedQuery) bool {
	fs := parsed.FieldSearches
	if fs.Title != "" && !containsFold(b.Title, fs.Title) {
		return false
	}
	if fs.Description != "" && !containsFold(b.Description, fs.Description) {
		return false
	}
	if fs.FilePath != "" && !containsFold(b.FilePath, fs.FilePath) {
		return false
	}
	for _, want := range fs.Tags {
		if !anyTagContains(b.Tags, want) {
			return false
		}
	}

	if parsed.DateFilter != nil && !e.dates.Matches(b.CreatedTime(), parsed.DateFilter) {
		return false
	}

	// NOT is a veto over every field.
	for _, term := range parsed.Operators[query.OpNot] {
		if matchesTerm(b, term) {
			return false
		}
	}
	for _, term := range parsed.Operators[query.OpAnd] {
		if !matchesTerm(b, term) {
			return false
		}
	}
	if terms := parsed.Operators[query.OpOr]; len(terms) > 0 {
		matched := false
		for _, term := range terms {
			if matchesTerm(b, term) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if parsed.TextSearch != "" && !matchesAnyField(b, parsed.TextSearch) {
		return false
	}
	return true
}

// matchesTerm evaluates one boolean-operator term. A field-qualified
// term ("tag:done", "title:meeting") is tested against that field
// only; a bare term against every field.
func matchesTerm(b *bookmarks.Bookmark, term string) bool {
	if field, value, ok := strings.Cut(term, ":"); ok && value != "" {
		switch field {
		case "title":
			return containsFold(b.Title, value)
		case "description":
			return containsFold(b.Description, value)
		case "filepath":
			return containsFold(b.FilePath, value)
		case "tag":
			return anyTagContains(b.Tags, value)
		}
	}
	return matchesAnyField(b, term)
}

// matchesAnyField is the basic search test: case-insensitive substring
// against title, description, filepath, or any tag.
func matchesAnyField(b *bookmarks.Bookmark, term string) bool {
	if containsFold(b.Title, term) ||
		containsFold(b.Description, term) ||
		containsFold(b.FilePath, term) {
		return true
	}
	return anyTagContains(b.Tags, term)
}

func anyTagContains(tags []string, term string) bool {
	for _, tag := range tags {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesDateRange(b *bookmarks.Bookmark, r DateRange) bool {
	if r.Start == "" && r.End == "" {
		return true
	}
	created := b.CreatedTime()
	if start, ok := parseRangeBound(r.Start); ok {
		if created.Before(start) {
			return false
		}
	}
	if end, ok := parseRangeBound(r.End); ok {
		// Closed interval: the whole end day is inside.
		if !created.Before(end.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}

func parseRangeBound(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// computeFacets collects the sorted distinct filepaths and tags across
// the whole collection, independent of the active filter.
func computeFacets(records []bookmarks.Bookmark) Facets {
	fileSet := make(map[string]struct{})
	tagSet := make(map[string]struct{})
	for i := range records {
		if records[i].FilePath != "" {
			fileSet[records[i].FilePath] = struct{}{}
		}
		for _, tag := range records[i].Tags {
			tagSet[tag] = struct{}{}
		}
	}
	return Facets{
		AvailableFiles: sortedKeys(fileSet),
		AvailableTags:  sortedKeys(tagSet),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func reductionPercentage(total, filtered int) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(total-filtered) / float64(total) * 100
	return math.Round(pct*10) / 10
}
