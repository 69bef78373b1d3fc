// Package sorting implements the comparator engine: stable single- and
// multi-criteria ordering of bookmark collections with per-field
// comparison semantics.
package sorting

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shelfmark/shelfmark/pkg/bookmarks"
	"github.com/shelfmark/shelfmark/pkg/filter"
)

// Engine sorts bookmark collections. The underlying collators carry
// internal buffers, so an Engine must not be shared across goroutines
// without external synchronization.
type Engine struct {
	collator *collate.Collator // natural case, for titles
	folded   *collate.Collator // case-insensitive
}

// NewEngine creates a comparator engine with locale-aware collation.
func NewEngine() *Engine {
	return &Engine{
		collator: collate.New(language.Und),
		folded:   collate.New(language.Und, collate.IgnoreCase),
	}
}

// Sort returns the records ordered per the filter state. The input
// slice is not modified. The sort is stable: records comparing equal
// keep their relative input order.
func (e *Engine) Sort(records []bookmarks.Bookmark, state filter.FilterState) []bookmarks.Bookmark {
	sorted := make([]bookmarks.Bookmark, len(records))
	copy(sorted, records)

	if state.EnableMultiSort {
		criteria := orderedCriteria(state.SortCriteria)
		sort.SliceStable(sorted, func(i, j int) bool {
			return e.compareMulti(&sorted[i], &sorted[j], criteria) < 0
		})
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return e.compare(&sorted[i], &sorted[j], state.SortBy, state.SortDirection) < 0
	})
	return sorted
}

// compareMulti applies each criterion in priority order and returns
// the first non-zero result. A full tie compares equal, leaving the
// stable sort to preserve input order.
func (e *Engine) compareMulti(a, b *bookmarks.Bookmark, criteria []filter.SortCriterion) int {
	for _, c := range criteria {
		if cmp := e.compare(a, b, c.Field, c.Direction); cmp != 0 {
			return cmp
		}
	}
	return 0
}

func (e *Engine) compare(a, b *bookmarks.Bookmark, field, direction string) int {
	cmp := e.compareField(a, b, field)
	if direction == filter.SortDesc {
		return -cmp
	}
	return cmp
}

func (e *Engine) compareField(a, b *bookmarks.Bookmark, field string) int {
	switch field {
	case filter.SortByTitle:
		return e.collator.CompareString(a.Title, b.Title)
	case filter.SortByDescription:
		return e.folded.CompareString(a.Description, b.Description)
	case filter.SortByTags:
		return e.folded.CompareString(a.TagsJoined(), b.TagsJoined())
	case filter.SortByMediaFileName:
		return e.folded.CompareString(a.MediaFileName(), b.MediaFileName())
	case filter.SortByTimestamp:
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	default: // createdAt
		return a.CreatedTime().Compare(b.CreatedTime())
	}
}

// orderedCriteria returns the criteria sorted ascending by priority
// without touching the caller's slice. Any length is accepted; capping
// the list is a UI concern.
func orderedCriteria(criteria []filter.SortCriterion) []filter.SortCriterion {
	ordered := make([]filter.SortCriterion, len(criteria))
	copy(ordered, criteria)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}
