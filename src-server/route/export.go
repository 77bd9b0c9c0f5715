package route

import (
	"dojoreport/src-server/export"
	"dojoreport/src-server/utils"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

func Export(muxer *http.ServeMux, as *utils.AppState) {
	// download the current view as csv, xlsx or ics
	muxer.HandleFunc("GET /report/export", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := sessionFromCtx(r)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from context"))
			return
		}
		snap := as.Report(sessionModel.Secret).Snapshot()
		if snap.View == nil {
			http.Redirect(w, r, "/report", http.StatusSeeOther)
			return
		}

		format, err := export.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			renderReport(w, as, sessionModel, "", false, "Unknown export format")
			return
		}
		view := snap.View
		if columns := r.URL.Query()["columns"]; len(columns) > 0 {
			view = view.Project(columns)
		}

		// the scratch file gets a throwaway name, the download name is
		// set by the content-disposition header
		scratchPath := filepath.Join(as.Config.GetExportDir(), uuid.NewString()+"."+string(format))
		startTimer := time.Now()
		if err := export.File(scratchPath, format, view); err != nil {
			slog.Error("can't export report", "format", format, "error", err)
			renderReport(w, as, sessionModel, "", false, "Export failed: "+err.Error())
			return
		}
		as.MetricChans.Export <- float64(time.Since(startTimer).Microseconds())
		defer func() {
			if err := os.Remove(scratchPath); err != nil {
				slog.Warn("can't remove export scratch file", "path", scratchPath, "error", err)
			}
		}()

		filename := export.Filename(format, snap.RangeStart, snap.RangeEnd)
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		http.ServeFile(w, r, scratchPath)
	}))
}
