package sorting

import (
	"testing"

	"github.com/shelfmark/shelfmark/pkg/bookmarks"
	"github.com/shelfmark/shelfmark/pkg/filter"
)

func sortRecords() []bookmarks.Bookmark {
	return []bookmarks.Bookmark{
		{ID: "1", Title: "banana", Timestamp: 30, CreatedAt: "2024-01-03T00:00:00Z", FilePath: "clips/third.mp4", Description: "ripe"},
		{ID: "2", Title: "Apple", Timestamp: 10, CreatedAt: "2024-01-01T00:00:00Z", FilePath: "clips/First.mp4", Description: "Tart"},
		{ID: "3", Title: "cherry", Timestamp: 20, CreatedAt: "2024-01-02T00:00:00Z", FilePath: "clips/second.mp4", Description: "sweet"},
	}
}

func ids(records []bookmarks.Bookmark) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].ID
	}
	return out
}

func assertOrder(t *testing.T, got []bookmarks.Bookmark, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got order %v, want %v", gotIDs, want)
		}
	}
}

func TestSortSingleCriterion(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		direction string
		expected  []string
	}{
		{"title asc", filter.SortByTitle, filter.SortAsc, []string{"2", "1", "3"}},
		{"title desc", filter.SortByTitle, filter.SortDesc, []string{"3", "1", "2"}},
		{"timestamp asc", filter.SortByTimestamp, filter.SortAsc, []string{"2", "3", "1"}},
		{"timestamp desc", filter.SortByTimestamp, filter.SortDesc, []string{"1", "3", "2"}},
		{"createdAt asc", filter.SortByCreatedAt, filter.SortAsc, []string{"2", "3", "1"}},
		{"mediaFileName asc is case-insensitive", filter.SortByMediaFileName, filter.SortAsc, []string{"2", "3", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine()
			state := filter.DefaultFilterState()
			state.SortBy = tt.sortBy
			state.SortDirection = tt.direction
			got := engine.Sort(sortRecords(), state)
			assertOrder(t, got, tt.expected...)
		})
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	engine := NewEngine()
	records := sortRecords()
	state := filter.DefaultFilterState()
	state.SortBy = filter.SortByTitle
	state.SortDirection = filter.SortAsc

	engine.Sort(records, state)
	assertOrder(t, records, "1", "2", "3")
}

func TestSortStability(t *testing.T) {
	// All sort keys tie; input order must survive.
	engine := NewEngine()
	records := []bookmarks.Bookmark{
		{ID: "a", Title: "same", Timestamp: 1},
		{ID: "b", Title: "same", Timestamp: 1},
		{ID: "c", Title: "same", Timestamp: 1},
	}

	state := filter.DefaultFilterState()
	state.EnableMultiSort = true
	state.SortCriteria = []filter.SortCriterion{
		{Field: filter.SortByTitle, Direction: filter.SortAsc, Priority: 1},
		{Field: filter.SortByTimestamp, Direction: filter.SortDesc, Priority: 2},
	}

	got := engine.Sort(records, state)
	assertOrder(t, got, "a", "b", "c")
}

func TestSortMultiCriteria(t *testing.T) {
	engine := NewEngine()
	records := []bookmarks.Bookmark{
		{ID: "1", Title: "same", Timestamp: 5},
		{ID: "2", Title: "same", Timestamp: 9},
		{ID: "3", Title: "other", Timestamp: 7},
	}

	// Title breaks first, timestamp breaks the tie, highest first.
	state := filter.DefaultFilterState()
	state.EnableMultiSort = true
	state.SortCriteria = []filter.SortCriterion{
		{Field: filter.SortByTimestamp, Direction: filter.SortDesc, Priority: 2},
		{Field: filter.SortByTitle, Direction: filter.SortAsc, Priority: 1},
	}

	got := engine.Sort(records, state)
	assertOrder(t, got, "3", "2", "1")
}

func TestSortMultiEqualsSingleForOneCriterion(t *testing.T) {
	fields := []string{
		filter.SortByTitle,
		filter.SortByTimestamp,
		filter.SortByCreatedAt,
		filter.SortByDescription,
		filter.SortByMediaFileName,
	}

	for _, field := range fields {
		for _, direction := range []string{filter.SortAsc, filter.SortDesc} {
			engine := NewEngine()

			single := filter.DefaultFilterState()
			single.SortBy = field
			single.SortDirection = direction

			multi := filter.DefaultFilterState()
			multi.EnableMultiSort = true
			multi.SortCriteria = []filter.SortCriterion{
				{Field: field, Direction: direction, Priority: 1},
			}

			singleOrder := ids(engine.Sort(sortRecords(), single))
			multiOrder := ids(engine.Sort(sortRecords(), multi))
			for i := range singleOrder {
				if singleOrder[i] != multiOrder[i] {
					t.Fatalf("%s/%s: single %v != multi %v", field, direction, singleOrder, multiOrder)
				}
			}
		}
	}
}

func TestSortEmptyCollection(t *testing.T) {
	engine := NewEngine()
	got := engine.Sort(nil, filter.DefaultFilterState())
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
