package report

import "sort"

// FrequencyRow is one bar of a distribution: a distinct value, how many
// rows carry it, and its share of the counted rows in percent.
type FrequencyRow struct {
	Value   string
	Count   int
	Percent float64
}

// Distribution counts the distinct present values of one column. Absent
// cells stay out of both the counts and the denominator. Rows come back
// ordered by count, largest first, capped at limit when limit is
// positive.
func Distribution(t *Table, column string, limit int) []FrequencyRow {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}
	counts := make(map[string]int)
	order := make([]string, 0)
	total := 0
	for _, row := range t.Rows {
		if idx >= len(row.Values) {
			continue
		}
		value := row.Values[idx]
		if !value.Present {
			continue
		}
		if _, seen := counts[value.Text]; !seen {
			order = append(order, value.Text)
		}
		counts[value.Text]++
		total++
	}
	if total == 0 {
		return nil
	}
	rows := make([]FrequencyRow, 0, len(order))
	for _, value := range order {
		rows = append(rows, FrequencyRow{
			Value:   value,
			Count:   counts[value],
			Percent: float64(counts[value]) / float64(total) * 100,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
