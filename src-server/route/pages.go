package route

import (
	"dojoreport/src-server/eventbrite"
	"dojoreport/src-server/filter"
	"dojoreport/src-server/model"
	"dojoreport/src-server/report"
	"dojoreport/src-server/utils"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// tableRowLimit caps how many rows the report page renders. Exports
// always carry the full view.
const tableRowLimit = 200

type authView struct {
	Notice string
}

type eventChoice struct {
	Name     string
	Selected bool
}

type reportView struct {
	UserName string

	Banner       string
	Retryable    bool
	ExportNotice string

	Fetching   bool
	HasTable   bool
	RangeStart string
	RangeEnd   string
	FetchedAt  string

	EventNames  []eventChoice
	AllSelected bool

	Ops              []filter.Op
	ActiveConditions []string
	NarrowStart      string
	NarrowEnd        string

	Columns   []string
	Rows      [][]string
	RowCount  int
	Truncated bool

	AgeRows    []report.FrequencyRow
	GenderRows []report.FrequencyRow
}

func renderAuth(w http.ResponseWriter, notice string) {
	if err := templates.ExecuteTemplate(w, "auth.html", authView{Notice: notice}); err != nil {
		slog.Error("can't render auth page", "error", err)
	}
}

func renderReport(w http.ResponseWriter, as *utils.AppState, sessionModel *model.Session, banner string, retryable bool, exportNotice string) {
	view := buildReportView(as, sessionModel, banner, retryable, exportNotice)
	if err := templates.ExecuteTemplate(w, "report.html", view); err != nil {
		slog.Error("can't render report page", "error", err)
	}
}

func buildReportView(as *utils.AppState, sessionModel *model.Session, banner string, retryable bool, exportNotice string) reportView {
	snap := as.Report(sessionModel.Secret).Snapshot()
	view := reportView{
		UserName:     sessionModel.UserName,
		Banner:       banner,
		Retryable:    retryable,
		ExportNotice: exportNotice,
		Fetching:     snap.Fetching,
		Ops:          []filter.Op{filter.OpEquals, filter.OpContains, filter.OpAbsent},
	}
	if !snap.RangeStart.IsZero() {
		view.RangeStart = snap.RangeStart.Format("2006-01-02")
	}
	if !snap.RangeEnd.IsZero() {
		view.RangeEnd = snap.RangeEnd.Format("2006-01-02")
	}
	if snap.Table == nil {
		return view
	}

	view.HasTable = true
	if !snap.FetchedAt.IsZero() {
		view.FetchedAt = snap.FetchedAt.In(as.Config.GetLocation()).Format(time.RFC1123)
	}

	selected := make(map[string]bool, len(snap.Criteria.EventNames))
	for _, name := range snap.Criteria.EventNames {
		selected[name] = true
	}
	view.AllSelected = len(snap.Criteria.EventNames) == 0
	for _, name := range snap.Table.EventNames() {
		view.EventNames = append(view.EventNames, eventChoice{
			Name:     name,
			Selected: selected[name],
		})
	}

	for _, cond := range snap.Criteria.Conditions {
		view.ActiveConditions = append(view.ActiveConditions, formatCondition(cond))
	}
	if !snap.Criteria.Start.IsZero() {
		view.NarrowStart = snap.Criteria.Start.Format("2006-01-02")
	}
	if !snap.Criteria.End.IsZero() {
		view.NarrowEnd = snap.Criteria.End.Format("2006-01-02")
	}

	view.Columns = snap.View.Columns
	view.RowCount = len(snap.View.Rows)
	rows := snap.View.Rows
	if len(rows) > tableRowLimit {
		rows = rows[:tableRowLimit]
		view.Truncated = true
	}
	for _, row := range rows {
		cells := make([]string, len(row.Values))
		for i, value := range row.Values {
			cells[i] = value.String()
		}
		view.Rows = append(view.Rows, cells)
	}

	view.AgeRows = report.Distribution(snap.View, "Age", 15)
	view.GenderRows = report.Distribution(snap.View, "Gender", 0)
	return view
}

func formatCondition(cond filter.Condition) string {
	if cond.Op == filter.OpAbsent {
		return fmt.Sprintf("%s is absent", cond.Column)
	}
	return fmt.Sprintf("%s %s %q", cond.Column, cond.Op, cond.Value)
}

// fetchBanner maps an upstream failure to the message shown on the
// report page. Auth failures never reach this, the handlers destroy
// the session instead.
func fetchBanner(err error) (string, bool) {
	var transientErr *eventbrite.TransientError
	var upstreamErr *eventbrite.UpstreamError
	switch {
	case errors.As(err, &transientErr):
		return transientErr.Detail, true
	case errors.As(err, &upstreamErr):
		return fmt.Sprintf("An error occurred: Eventbrite replied with status %d: %s", upstreamErr.Status, upstreamErr.Body), false
	default:
		return "An error occurred. Please try again.", false
	}
}
