package query

import "time"

// DateMatcher evaluates parsed date filters against concrete
// timestamps. Shortcut operators are rolling windows relative to Now,
// so results deliberately change across calls; tests inject a fixed
// clock.
type DateMatcher struct {
	// Now supplies the evaluation instant. Defaults to time.Now.
	Now func() time.Time
}

// NewDateMatcher creates a matcher using the system clock.
func NewDateMatcher() *DateMatcher {
	return &DateMatcher{Now: time.Now}
}

// Matches reports whether recordDate satisfies the filter. A nil
// filter, an unknown operator, or an unparseable comparison value all
// match: a date filter never rejects on malformed input.
func (m *DateMatcher) Matches(recordDate time.Time, filter *DateFilter) bool {
	if filter == nil {
		return true
	}

	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch filter.Operator {
	case DateToday:
		return !recordDate.Before(startOfDay)

	case DateYesterday:
		startOfYesterday := startOfDay.AddDate(0, 0, -1)
		return !recordDate.Before(startOfYesterday) && recordDate.Before(startOfDay)

	case DateThisWeek:
		// Rolling seven days, not calendar-week aligned.
		return !recordDate.Before(now.Add(-7 * 24 * time.Hour))

	case DateThisMonth:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return !recordDate.Before(firstOfMonth)

	case ">":
		value, ok := parseFilterDate(filter.Value, now.Location())
		if !ok {
			return true
		}
		return recordDate.After(value)

	case "<":
		value, ok := parseFilterDate(filter.Value, now.Location())
		if !ok {
			return true
		}
		return recordDate.Before(value)

	case "=":
		value, ok := parseFilterDate(filter.Value, now.Location())
		if !ok {
			return true
		}
		dayStart := time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
		return !recordDate.Before(dayStart) && recordDate.Before(dayStart.AddDate(0, 0, 1))
	}

	// Unknown operator: no constraint.
	return true
}

func parseFilterDate(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
