package utils

import (
	"sync"
	"time"

	"dojoreport/src-server/filter"
	"dojoreport/src-server/report"
)

// ReportState is everything one session has on screen: the table of the
// last fetch, the active criteria and the view they produce. It lives
// in memory only and a new fetch replaces it wholesale.
type ReportState struct {
	mutex    sync.Mutex
	fetching bool

	table      *report.Table
	view       *report.Table
	criteria   filter.Criteria
	rangeStart time.Time
	rangeEnd   time.Time
	fetchedAt  time.Time
}

// ReportSnapshot is a consistent copy of the state for one request.
// Table and View are shared pointers, rows are never mutated after a
// build.
type ReportSnapshot struct {
	Table      *report.Table
	View       *report.Table
	Criteria   filter.Criteria
	RangeStart time.Time
	RangeEnd   time.Time
	FetchedAt  time.Time
	Fetching   bool
}

func (rs *ReportState) Snapshot() ReportSnapshot {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	return ReportSnapshot{
		Table:      rs.table,
		View:       rs.view,
		Criteria:   rs.criteria,
		RangeStart: rs.rangeStart,
		RangeEnd:   rs.rangeEnd,
		FetchedAt:  rs.fetchedAt,
		Fetching:   rs.fetching,
	}
}

// BeginFetch marks the state busy. It reports false when another fetch
// for the same session is still running.
func (rs *ReportState) BeginFetch() bool {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	if rs.fetching {
		return false
	}
	rs.fetching = true
	return true
}

// FinishFetch installs a freshly built table and resets the criteria; a
// nil table means the fetch failed and whatever was on screen stays.
func (rs *ReportState) FinishFetch(table *report.Table, rangeStart time.Time, rangeEnd time.Time) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	rs.fetching = false
	if table == nil {
		return
	}
	rs.table = table
	rs.view = table
	rs.criteria = filter.Criteria{}
	rs.rangeStart = rangeStart
	rs.rangeEnd = rangeEnd
	rs.fetchedAt = time.Now().UTC()
}

// SetView installs a filtered view with the criteria that produced it.
func (rs *ReportState) SetView(view *report.Table, criteria filter.Criteria) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	rs.view = view
	rs.criteria = criteria
}
