package scheduler

import (
	"context"
	"dojoreport/src-server/model"
	"dojoreport/src-server/utils"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

func SessionSweep(as *utils.AppState) {
	for {
		time.Sleep(as.Config.GetSessionSweepInterval())

		// sessions older than the cookie lifetime can never be presented again
		cutoff := time.Now().UTC().Add(-as.Config.GetJWTExpire()).Unix()
		if _, err := as.BunDB.NewDelete().
			Model((*model.Session)(nil)).
			Where("created_at < ?", cutoff).
			Exec(context.Background()); err != nil {
			slog.Error("SessionSweep: can't delete expired sessions", "error", err)
			continue
		}

		sessionModels := make([]model.Session, 0)
		if err := as.BunDB.NewSelect().
			Model(&sessionModels).
			Column("secret").
			Scan(context.Background()); err != nil {
			slog.Error("SessionSweep: can't get sessions", "error", err)
			continue
		}
		alive := make(map[string]struct{}, len(sessionModels))
		for _, sessionModel := range sessionModels {
			alive[sessionModel.Secret] = struct{}{}
		}
		if dropped := as.SweepReports(alive); dropped > 0 {
			slog.Debug("SessionSweep: dropped in-memory reports", "count", dropped)
		}

		sweepExportDir(as)
	}
}

// sweepExportDir drops scratch files the export handler never got to
// remove, e.g. after a crash mid-download.
func sweepExportDir(as *utils.AppState) {
	entries, err := os.ReadDir(as.Config.GetExportDir())
	if err != nil {
		slog.Error("SessionSweep: can't read export dir", "error", err)
		return
	}
	cutoff := time.Now().Add(-as.Config.GetSessionSweepInterval())
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(as.Config.GetExportDir(), entry.Name())); err != nil {
			slog.Warn("SessionSweep: can't remove stale export file", "file", entry.Name(), "error", err)
		}
	}
}
