package metric

import (
	"dojoreport/src-server/utils"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dojoreport_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register dojoreport_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("dojoreport_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("dojoreport_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("dojoreport_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dojoreport_database_read_microsec",
		Help: "The latency of a database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register dojoreport_database_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("dojoreport_database_read_microsec metric registered")
		databaseRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseRead) {
				case true:
					slog.Debug("dojoreport_database_read_microsec metric unregistered")
				case false:
					slog.Warn("dojoreport_database_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseRead:
				databaseRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseRead.Set(0)
			}
		}
	}()
}

func upstreamFetch(as *utils.AppState, clearTickerInterval *time.Duration) {
	upstreamFetch := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dojoreport_upstream_fetch_microsec",
		Help: "The latency of an Eventbrite fetch in microseconds",
	})
	good := true
	if err := prometheus.Register(upstreamFetch); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register dojoreport_upstream_fetch_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("dojoreport_upstream_fetch_microsec metric registered")
		upstreamFetch.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(upstreamFetch) {
				case true:
					slog.Debug("dojoreport_upstream_fetch_microsec metric unregistered")
				case false:
					slog.Warn("dojoreport_upstream_fetch_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.UpstreamFetch:
				upstreamFetch.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				upstreamFetch.Set(0)
			}
		}
	}()
}

func reportRows(as *utils.AppState) {
	reportRows := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dojoreport_report_rows",
		Help: "The row count of the most recently built report",
	})
	good := true
	if err := prometheus.Register(reportRows); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register dojoreport_report_rows metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("dojoreport_report_rows metric registered")
		reportRows.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(reportRows) {
				case true:
					slog.Debug("dojoreport_report_rows metric unregistered")
				case false:
					slog.Warn("dojoreport_report_rows metric not registered")
				}
				return
			case rows := <-as.MetricChans.ReportRows:
				reportRows.Set(rows)
			}
		}
	}()
}

func exportLatency(as *utils.AppState, clearTickerInterval *time.Duration) {
	exportLatency := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dojoreport_export_microsec",
		Help: "The latency of a report export in microseconds",
	})
	good := true
	if err := prometheus.Register(exportLatency); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("dojoreport_export_microsec metric can't register", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("dojoreport_export_microsec metric registered")
		exportLatency.Set(0)
	}
	go func() {
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(exportLatency) {
				case true:
					slog.Debug("dojoreport_export_microsec metric unregistered")
				case false:
					slog.Warn("dojoreport_export_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.Export:
				exportLatency.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				exportLatency.Set(0)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	databaseRead(as, &clearTickerInterval)
	upstreamFetch(as, &clearTickerInterval)
	reportRows(as)
	exportLatency(as, &clearTickerInterval)
}
