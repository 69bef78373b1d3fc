// Package query implements the bookmark mini query language: free text
// mixed with field filters (title:, description:, tag:, filepath:,
// created:) and boolean operator terms (AND/OR/NOT).
package query

import (
	"regexp"
	"strings"
)

// Operator keys used in ParsedQuery.Operators.
const (
	OpAnd = "AND"
	OpOr  = "OR"
	OpNot = "NOT"
)

// Date filter shortcut operators.
const (
	DateToday     = "today"
	DateYesterday = "yesterday"
	DateThisWeek  = "this-week"
	DateThisMonth = "this-month"
)

// DateFilter is a parsed created: condition. Operator is either a
// shortcut (today, yesterday, this-week, this-month) or one of ">",
// "<", "=" with Value carrying the date to compare against.
type DateFilter struct {
	Operator string `json:"operator"`
	Value    string `json:"value,omitempty"`
}

// FieldSearches holds per-field substring filters. Tags accumulates
// every tag: occurrence; the other fields keep the last occurrence.
type FieldSearches struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	FilePath    string   `json:"filepath,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ParsedQuery is the structured form of a raw query string. Every
// field is independently optional; the zero value matches everything.
type ParsedQuery struct {
	TextSearch    string              `json:"textSearch"`
	FieldSearches FieldSearches       `json:"fieldSearches"`
	Operators     map[string][]string `json:"operators,omitempty"`
	DateFilter    *DateFilter         `json:"dateFilter,omitempty"`
}

// IsEmpty reports whether the query carries no constraints at all.
func (q *ParsedQuery) IsEmpty() bool {
	return q.TextSearch == "" &&
		q.FieldSearches.Title == "" &&
		q.FieldSearches.Description == "" &&
		q.FieldSearches.FilePath == "" &&
		len(q.FieldSearches.Tags) == 0 &&
		len(q.Operators[OpAnd]) == 0 &&
		len(q.Operators[OpOr]) == 0 &&
		len(q.Operators[OpNot]) == 0 &&
		q.DateFilter == nil
}

// Parser turns raw query strings into ParsedQuery values. It is
// stateless and safe for concurrent use.
type Parser struct {
	quotedFieldPattern *regexp.Regexp
	bareFieldPattern   *regexp.Regexp
	operatorPattern    *regexp.Regexp
	spacePattern       *regexp.Regexp
}

// NewParser creates a query parser with its patterns compiled.
func NewParser() *Parser {
	return &Parser{
		quotedFieldPattern: regexp.MustCompile(`(title|description|tag|filepath|created):"([^"]*)"`),
		bareFieldPattern:   regexp.MustCompile(`(title|description|tag|filepath|created):(\S+)`),
		operatorPattern:    regexp.MustCompile(`\b(AND|OR|NOT)\s+(\S+)`),
		spacePattern:       regexp.MustCompile(`\s+`),
	}
}

// Parse converts a raw query string into a ParsedQuery. It is total:
// any input, including empty or malformed strings, yields a valid
// query. Unrecognized created: values are dropped rather than raised,
// so an in-progress query never errors.
func (p *Parser) Parse(raw string) ParsedQuery {
	parsed := ParsedQuery{
		Operators: map[string][]string{
			OpAnd: {},
			OpOr:  {},
			OpNot: {},
		},
	}

	working := p.normalize(raw)
	if working == "" {
		return parsed
	}

	// Quoted field phrases first: a phrase like title:"Meeting AND Notes"
	// must not be torn apart by the operator pass.
	working = p.quotedFieldPattern.ReplaceAllStringFunc(working, func(match string) string {
		sub := p.quotedFieldPattern.FindStringSubmatch(match)
		p.applyField(&parsed, sub[1], sub[2])
		return ""
	})

	// Boolean operator terms next, left to right, so a bare field-qualified
	// term like "NOT tag:done" stays bound to its operator instead of
	// being swallowed by the field pass.
	working = p.operatorPattern.ReplaceAllStringFunc(working, func(match string) string {
		sub := p.operatorPattern.FindStringSubmatch(match)
		op, term := sub[1], sub[2]
		parsed.Operators[op] = append(parsed.Operators[op], term)
		return ""
	})

	// Remaining bare field filters; each match is removed from the
	// working string so the residual pass never sees it.
	working = p.bareFieldPattern.ReplaceAllStringFunc(working, func(match string) string {
		sub := p.bareFieldPattern.FindStringSubmatch(match)
		p.applyField(&parsed, sub[1], sub[2])
		return ""
	})

	// Whatever survived extraction is the residual free-text search.
	parsed.TextSearch = p.normalize(working)
	return parsed
}

func (p *Parser) normalize(s string) string {
	return strings.TrimSpace(p.spacePattern.ReplaceAllString(s, " "))
}

func (p *Parser) applyField(parsed *ParsedQuery, field, value string) {
	switch field {
	case "title":
		parsed.FieldSearches.Title = value
	case "description":
		parsed.FieldSearches.Description = value
	case "filepath":
		parsed.FieldSearches.FilePath = value
	case "tag":
		parsed.FieldSearches.Tags = append(parsed.FieldSearches.Tags, value)
	case "created":
		if f := parseDateFilter(value); f != nil {
			parsed.DateFilter = f
		}
	}
}

// parseDateFilter interprets a created: value. Unrecognized fragments
// return nil and are dropped from the query.
func parseDateFilter(value string) *DateFilter {
	switch value {
	case DateToday, DateYesterday, DateThisWeek, DateThisMonth:
		return &DateFilter{Operator: value}
	}
	if len(value) > 0 {
		switch value[0] {
		case '>', '<', '=':
			return &DateFilter{Operator: string(value[0]), Value: value[1:]}
		}
	}
	return nil
}
