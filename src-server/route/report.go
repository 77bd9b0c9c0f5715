package route

import (
	"dojoreport/src-server/eventbrite"
	"dojoreport/src-server/filter"
	"dojoreport/src-server/model"
	"dojoreport/src-server/report"
	"dojoreport/src-server/utils"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

func Report(muxer *http.ServeMux, as *utils.AppState) {
	// report page
	muxer.HandleFunc("GET /report", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := sessionFromCtx(r)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from context"))
			return
		}
		renderReport(w, as, sessionModel, "", false, "")
	}))

	// fetch events + attendees for a date range and (re)build the table
	muxer.HandleFunc("POST /report/fetch", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := sessionFromCtx(r)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from context"))
			return
		}
		if err := r.ParseForm(); err != nil {
			renderReport(w, as, sessionModel, "Invalid form data", false, "")
			return
		}
		startRaw := strings.TrimSpace(r.FormValue("start-date"))
		endRaw := strings.TrimSpace(r.FormValue("end-date"))
		if startRaw == "" || endRaw == "" {
			renderReport(w, as, sessionModel, "Please select both start and end dates.", false, "")
			return
		}
		start, err := parseDateInput(as, startRaw)
		if err != nil {
			renderReport(w, as, sessionModel, fmt.Sprintf("Can't understand start date %q", startRaw), false, "")
			return
		}
		end, err := parseDateInput(as, endRaw)
		if err != nil {
			renderReport(w, as, sessionModel, fmt.Sprintf("Can't understand end date %q", endRaw), false, "")
			return
		}
		if end.Before(start) {
			renderReport(w, as, sessionModel, "The start date must not be after the end date.", false, "")
			return
		}

		rs := as.Report(sessionModel.Secret)
		if !rs.BeginFetch() {
			renderReport(w, as, sessionModel, "A fetch is already running for this session, hold on.", true, "")
			return
		}

		startTimer := time.Now()
		sets, err := as.Eventbrite.EventsWithAttendees(r.Context(), sessionModel.ApiToken, sessionModel.OrganizationID, start, end)
		if err != nil {
			rs.FinishFetch(nil, time.Time{}, time.Time{})
			var authErr *eventbrite.AuthError
			if errors.As(err, &authErr) {
				// token revoked upstream, the session can never work again
				if _, err := as.BunDB.
					NewDelete().
					Model((*model.Session)(nil)).
					Where("secret = ?", sessionModel.Secret).
					Exec(r.Context()); err != nil {
					slog.Error("can't delete session model in DB", "error", err)
				}
				as.DropReport(sessionModel.Secret)
				clearSessionCookie(w)
				redirectToAuth(w, r, "Eventbrite rejected your token, please sign in again.")
				return
			}
			slog.Error("can't fetch events from Eventbrite", "error", err)
			message, retryable := fetchBanner(err)
			renderReport(w, as, sessionModel, message, retryable, "")
			return
		}
		as.MetricChans.UpstreamFetch <- float64(time.Since(startTimer).Microseconds())

		table := report.Build(sets)
		rs.FinishFetch(table, start, end)
		as.MetricChans.ReportRows <- float64(len(table.Rows))
		slog.Debug("report built", "user", sessionModel.UserName, "events", len(sets), "rows", len(table.Rows))
		http.Redirect(w, r, "/report", http.StatusSeeOther)
	}))

	// narrow the table to the checked events
	muxer.HandleFunc("POST /report/events", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := sessionFromCtx(r)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from context"))
			return
		}
		if err := r.ParseForm(); err != nil {
			renderReport(w, as, sessionModel, "Invalid form data", false, "")
			return
		}
		rs := as.Report(sessionModel.Secret)
		snap := rs.Snapshot()
		if snap.Table == nil {
			http.Redirect(w, r, "/report", http.StatusSeeOther)
			return
		}

		criteria := snap.Criteria
		if r.FormValue("all") != "" {
			criteria.EventNames = nil
		} else {
			criteria.EventNames = r.Form["events"]
		}
		view, err := filter.Apply(snap.Table, criteria)
		if err != nil {
			renderReport(w, as, sessionModel, "An error occurred: "+err.Error(), false, "")
			return
		}
		rs.SetView(view, criteria)
		http.Redirect(w, r, "/report", http.StatusSeeOther)
	}))

	// add a column condition and/or tighten the event-start range
	muxer.HandleFunc("POST /report/filter", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := sessionFromCtx(r)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from context"))
			return
		}
		if err := r.ParseForm(); err != nil {
			renderReport(w, as, sessionModel, "Invalid form data", false, "")
			return
		}
		rs := as.Report(sessionModel.Secret)
		snap := rs.Snapshot()
		if snap.Table == nil {
			http.Redirect(w, r, "/report", http.StatusSeeOther)
			return
		}

		criteria := snap.Criteria
		switch r.FormValue("action") {
		case "clear":
			criteria.Conditions = nil
			criteria.Start = time.Time{}
			criteria.End = time.Time{}
		default:
			if column := strings.TrimSpace(r.FormValue("column")); column != "" {
				op, err := filter.ParseOp(r.FormValue("op"))
				if err != nil {
					renderReport(w, as, sessionModel, "An error occurred: "+err.Error(), false, "")
					return
				}
				criteria.Conditions = append(criteria.Conditions, filter.Condition{
					Column: column,
					Op:     op,
					Value:  strings.TrimSpace(r.FormValue("value")),
				})
			}
			criteria.Start = time.Time{}
			if raw := strings.TrimSpace(r.FormValue("narrow-start")); raw != "" {
				t, err := parseDateInput(as, raw)
				if err != nil {
					renderReport(w, as, sessionModel, fmt.Sprintf("Can't understand date %q", raw), false, "")
					return
				}
				criteria.Start = t
			}
			criteria.End = time.Time{}
			if raw := strings.TrimSpace(r.FormValue("narrow-end")); raw != "" {
				t, err := parseDateInput(as, raw)
				if err != nil {
					renderReport(w, as, sessionModel, fmt.Sprintf("Can't understand date %q", raw), false, "")
					return
				}
				criteria.End = t
			}
		}

		view, err := filter.Apply(snap.Table, criteria)
		if err != nil {
			renderReport(w, as, sessionModel, "An error occurred: "+err.Error(), false, "")
			return
		}
		rs.SetView(view, criteria)
		http.Redirect(w, r, "/report", http.StatusSeeOther)
	}))
}

// parseDateInput accepts YYYY-MM-DD or natural language ("last month",
// "next friday") and normalizes to a day-granular bound.
func parseDateInput(as *utils.AppState, input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("parseDateInput: input is blank")
	}
	if t, err := time.Parse("2006-01-02", input); err == nil {
		return filter.Day(t), nil
	}
	result, err := as.When.Parse(input, time.Now().In(as.Config.GetLocation()))
	if err != nil {
		return time.Time{}, fmt.Errorf("parseDateInput: %w", err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("parseDateInput: can't understand %q", input)
	}
	return filter.Day(result.Time), nil
}
