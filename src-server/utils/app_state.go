package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"time"

	"dojoreport/src-server/eventbrite"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config     *Config
	RawDB      *sql.DB
	BunDB      *bun.DB
	Eventbrite *eventbrite.Client
	When       *when.Parser

	MetricChans        *Metric
	AppCloseSignalChan chan os.Signal

	startedAt time.Time

	gracefulShutdownMutex sync.Mutex
	gracefulShutdownChans []*chan struct{}

	// per-session report state, in memory only; key is the session
	// secret
	reportMutex sync.Mutex
	reports     map[string]*ReportState
}

func NewAppState() *AppState {
	as := &AppState{
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
		startedAt:          time.Now().UTC(),
		reports:            make(map[string]*ReportState),
	}

	// date parser
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// upstream API client
	as.Eventbrite = eventbrite.NewClient(as.Config.GetEventbriteBaseUrl())

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetSqlitePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(as.Config.GetDev()),
		bundebug.FromEnv("BUNDEBUG"),
	))

	return as
}

// Report returns the session's report state, creating it on first use.
func (as *AppState) Report(sessionSecret string) *ReportState {
	as.reportMutex.Lock()
	defer as.reportMutex.Unlock()
	state, ok := as.reports[sessionSecret]
	if !ok {
		state = &ReportState{}
		as.reports[sessionSecret] = state
	}
	return state
}

// DropReport forgets everything a session had on screen.
func (as *AppState) DropReport(sessionSecret string) {
	as.reportMutex.Lock()
	defer as.reportMutex.Unlock()
	delete(as.reports, sessionSecret)
}

// SweepReports drops every report state whose session secret is not in
// keep and returns how many went.
func (as *AppState) SweepReports(keep map[string]struct{}) int {
	as.reportMutex.Lock()
	defer as.reportMutex.Unlock()
	swept := 0
	for secret := range as.reports {
		if _, ok := keep[secret]; !ok {
			delete(as.reports, secret)
			swept++
		}
	}
	return swept
}

func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownMutex.Lock()
	defer as.gracefulShutdownMutex.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, &ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownMutex.Lock()
	defer as.gracefulShutdownMutex.Unlock()
	for _, ch := range as.gracefulShutdownChans {
		close(*ch)
	}
	as.gracefulShutdownChans = nil
}

func (as *AppState) GetUptime() time.Duration {
	return time.Since(as.startedAt)
}
