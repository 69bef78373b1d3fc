// Package engine ties the query parser, predicate pipeline and
// comparator together behind one entry point for callers that hold a
// raw query string and a filter state.
package engine

import (
	"strings"
	"time"

	"github.com/shelfmark/shelfmark/pkg/bookmarks"
	"github.com/shelfmark/shelfmark/pkg/filter"
	"github.com/shelfmark/shelfmark/pkg/history"
	"github.com/shelfmark/shelfmark/pkg/query"
	"github.com/shelfmark/shelfmark/pkg/sorting"
)

// Engine is the full search pipeline. It shares the comparator's
// collation buffers, so it must not be used from multiple goroutines
// at once.
type Engine struct {
	parser  *query.Parser
	filters *filter.Engine
	sorter  *sorting.Engine
	history *history.Store
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory attaches a history store; Search then records every
// non-blank raw query as a recent search.
func WithHistory(store *history.Store) Option {
	return func(e *Engine) {
		e.history = store
	}
}

// WithClock injects the time source used by date filters, for
// deterministic evaluation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.filters = filter.NewEngineWithClock(now)
	}
}

// New creates an engine with the system clock and no history store.
func New(opts ...Option) *Engine {
	e := &Engine{
		parser:  query.NewParser(),
		filters: filter.NewEngine(),
		sorter:  sorting.NewEngine(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search parses the raw query, filters the collection against it and
// the state, and returns the sorted result with facets and analytics.
// An empty raw query falls back to the state's basic search term.
func (e *Engine) Search(records []bookmarks.Bookmark, state filter.FilterState, rawQuery string) filter.Result {
	var parsed *query.ParsedQuery
	if strings.TrimSpace(rawQuery) != "" {
		p := e.parser.Parse(rawQuery)
		parsed = &p
		if e.history != nil {
			e.history.AddRecentSearch(rawQuery)
		}
	}

	result := e.filters.Apply(records, state, parsed)
	result.Bookmarks = e.sorter.Sort(result.Bookmarks, state)
	return result
}

// Filter applies the declarative state without a raw query: basic
// substring search plus the file, tag and date-range stages, then the
// sort.
func (e *Engine) Filter(records []bookmarks.Bookmark, state filter.FilterState) filter.Result {
	result := e.filters.Apply(records, state, nil)
	result.Bookmarks = e.sorter.Sort(result.Bookmarks, state)
	return result
}

// Parse exposes the query parser for callers that want the structured
// query without running a search.
func (e *Engine) Parse(rawQuery string) query.ParsedQuery {
	return e.parser.Parse(rawQuery)
}
