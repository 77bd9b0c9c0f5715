package filter

import (
	"fmt"
	"strings"
	"time"

	"dojoreport/src-server/report"
)

// Op is one comparison a condition can make against a cell.
type Op string

const (
	OpEquals   Op = "equals"
	OpContains Op = "contains"
	OpAbsent   Op = "absent"
)

func ParseOp(s string) (Op, error) {
	switch Op(s) {
	case OpEquals, OpContains, OpAbsent:
		return Op(s), nil
	default:
		return "", fmt.Errorf("ParseOp: unknown op %q", s)
	}
}

// Condition is one column test. Value is ignored for OpAbsent.
type Condition struct {
	Column string
	Op     Op
	Value  string
}

// Criteria narrows a report. The zero value matches every row.
type Criteria struct {
	Start      time.Time
	End        time.Time
	EventNames []string
	Conditions []Condition
}

// Empty reports whether the criteria narrow anything at all.
func (c Criteria) Empty() bool {
	return c.Start.IsZero() && c.End.IsZero() && len(c.EventNames) == 0 && len(c.Conditions) == 0
}

// Day drops the time-of-day part, keeping the calendar day in UTC. Date
// bounds in criteria are day-granular.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Apply returns the rows satisfying every part of the criteria, in
// their original order, sharing the original rows. Empty criteria give
// back every row.
func Apply(t *report.Table, c Criteria) (*report.Table, error) {
	for _, condition := range c.Conditions {
		if _, ok := t.ColumnIndex(condition.Column); !ok {
			return nil, fmt.Errorf("Apply: unknown column %q", condition.Column)
		}
	}

	names := make(map[string]struct{}, len(c.EventNames))
	for _, name := range c.EventNames {
		names[name] = struct{}{}
	}

	out := &report.Table{
		Columns: t.Columns,
		Rows:    make([]*report.Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		if !matchDates(row, c.Start, c.End) {
			continue
		}
		if len(names) > 0 {
			if _, ok := names[row.EventName]; !ok {
				continue
			}
		}
		if !matchConditions(t, row, c.Conditions) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// matchDates checks the event start against day-granular bounds, both
// inclusive. A row without a parsed start never matches a bounded
// range.
func matchDates(row *report.Row, start time.Time, end time.Time) bool {
	if !start.IsZero() {
		if row.EventStart.IsZero() || row.EventStart.Before(start) {
			return false
		}
	}
	if !end.IsZero() {
		if row.EventStart.IsZero() || !row.EventStart.Before(end.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}

// matchConditions requires every condition to hold. An absent cell only
// ever satisfies OpAbsent, never a positive comparison.
func matchConditions(t *report.Table, row *report.Row, conditions []Condition) bool {
	for _, condition := range conditions {
		value := t.Cell(row, condition.Column)
		switch condition.Op {
		case OpAbsent:
			if value.Present {
				return false
			}
		case OpEquals:
			if !value.Present || !strings.EqualFold(value.Text, condition.Value) {
				return false
			}
		case OpContains:
			if !value.Present || !strings.Contains(strings.ToLower(value.Text), strings.ToLower(condition.Value)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
