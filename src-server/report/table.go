package report

import "time"

// AbsentMarker is what an absent cell renders as, everywhere: page,
// CSV, XLSX.
const AbsentMarker = "N/A"

// Value is one table cell. An absent value is not the same thing as an
// empty string: absent means the upstream record never had the field.
type Value struct {
	Present bool
	Text    string
}

func Text(s string) Value {
	return Value{Present: true, Text: s}
}

func Absent() Value {
	return Value{}
}

func (v Value) String() string {
	if !v.Present {
		return AbsentMarker
	}
	return v.Text
}

// Row is one attendee on one event. EventStart and EventEnd are kept as
// parsed times next to the rendered cells so date filtering never has
// to parse display text.
type Row struct {
	EventID    string
	AttendeeID string
	EventName  string
	EventStart time.Time
	EventEnd   time.Time
	Values     []Value
}

// Table is the flat report: one row per attendee record, cells parallel
// to Columns.
type Table struct {
	Columns []string
	Rows    []*Row
}

// ColumnIndex finds a column by its exact name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, column := range t.Columns {
		if column == name {
			return i, true
		}
	}
	return 0, false
}

// Cell returns the value at a named column, absent when the column does
// not exist.
func (t *Table) Cell(row *Row, column string) Value {
	idx, ok := t.ColumnIndex(column)
	if !ok || idx >= len(row.Values) {
		return Absent()
	}
	return row.Values[idx]
}

// EventNames lists the distinct event names in row order, for the
// event checklist.
func (t *Table) EventNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, row := range t.Rows {
		if _, ok := seen[row.EventName]; ok {
			continue
		}
		seen[row.EventName] = struct{}{}
		names = append(names, row.EventName)
	}
	return names
}

// Project returns a copy narrowed to the given columns, in the given
// order. Unknown column names are skipped.
func (t *Table) Project(columns []string) *Table {
	indexes := make([]int, 0, len(columns))
	kept := make([]string, 0, len(columns))
	for _, column := range columns {
		if idx, ok := t.ColumnIndex(column); ok {
			indexes = append(indexes, idx)
			kept = append(kept, column)
		}
	}
	projected := &Table{
		Columns: kept,
		Rows:    make([]*Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		values := make([]Value, len(indexes))
		for i, idx := range indexes {
			values[i] = row.Values[idx]
		}
		projected.Rows = append(projected.Rows, &Row{
			EventID:    row.EventID,
			AttendeeID: row.AttendeeID,
			EventName:  row.EventName,
			EventStart: row.EventStart,
			EventEnd:   row.EventEnd,
			Values:     values,
		})
	}
	return projected
}
