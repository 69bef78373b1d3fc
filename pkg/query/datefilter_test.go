package query

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDateMatcherShortcuts(t *testing.T) {
	// Wednesday 2024-03-20 15:30 local time.
	now := time.Date(2024, 3, 20, 15, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		operator string
		record   time.Time
		expected bool
	}{
		{"today matches this morning", DateToday, time.Date(2024, 3, 20, 0, 0, 1, 0, time.Local), true},
		{"today matches current instant", DateToday, now, true},
		{"today rejects yesterday evening", DateToday, time.Date(2024, 3, 19, 23, 59, 0, 0, time.Local), false},
		{"yesterday matches within the day", DateYesterday, time.Date(2024, 3, 19, 12, 0, 0, 0, time.Local), true},
		{"yesterday rejects today", DateYesterday, time.Date(2024, 3, 20, 0, 0, 0, 0, time.Local), false},
		{"yesterday rejects two days ago", DateYesterday, time.Date(2024, 3, 18, 23, 0, 0, 0, time.Local), false},
		{"this-week is a rolling window", DateThisWeek, now.Add(-6 * 24 * time.Hour), true},
		{"this-week rejects eight days ago", DateThisWeek, now.Add(-8 * 24 * time.Hour), false},
		{"this-month matches the 1st", DateThisMonth, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), true},
		{"this-month rejects last month", DateThisMonth, time.Date(2024, 2, 29, 12, 0, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &DateMatcher{Now: fixedClock(now)}
			got := m.Matches(tt.record, &DateFilter{Operator: tt.operator})
			if got != tt.expected {
				t.Errorf("Matches(%v, %s) = %v, want %v", tt.record, tt.operator, got, tt.expected)
			}
		})
	}
}

func TestDateMatcherComparisons(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		filter   DateFilter
		record   time.Time
		expected bool
	}{
		{"after matches later day", DateFilter{Operator: ">", Value: "2024-01-01"}, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), true},
		{"after is strict", DateFilter{Operator: ">", Value: "2024-01-01"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), false},
		{"before matches earlier day", DateFilter{Operator: "<", Value: "2024-01-01"}, time.Date(2023, 12, 31, 23, 0, 0, 0, time.Local), true},
		{"before is strict", DateFilter{Operator: "<", Value: "2024-01-01"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), false},
		{"equal matches within the day", DateFilter{Operator: "=", Value: "2024-03-15"}, time.Date(2024, 3, 15, 18, 45, 0, 0, time.Local), true},
		{"equal rejects the next day", DateFilter{Operator: "=", Value: "2024-03-15"}, time.Date(2024, 3, 16, 0, 0, 0, 0, time.Local), false},
		{"unparseable value matches", DateFilter{Operator: ">", Value: "soon"}, time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local), true},
		{"empty value matches", DateFilter{Operator: "<"}, now, true},
		{"unknown operator matches", DateFilter{Operator: "~"}, now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &DateMatcher{Now: fixedClock(now)}
			got := m.Matches(tt.record, &tt.filter)
			if got != tt.expected {
				t.Errorf("Matches(%v, %+v) = %v, want %v", tt.record, tt.filter, got, tt.expected)
			}
		})
	}
}

func TestDateMatcherNilFilter(t *testing.T) {
	m := NewDateMatcher()
	if !m.Matches(time.Now(), nil) {
		t.Error("nil filter must match")
	}
}
