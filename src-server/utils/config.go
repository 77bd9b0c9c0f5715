package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	port string

	jwtSecret string
	jwtExpire time.Duration

	eventbriteBaseUrl string
	eventbriteOrgID   string

	location *time.Location

	sqlitePath string
	exportDir  string

	sessionSweepInterval     time.Duration
	metricCollectionInterval time.Duration

	dev bool
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		jwtSecret: func() string {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				slog.Warn("JWT_SECRET is not set")
				secret = "secret"
			}
			return secret
		}(),
		jwtExpire: func() time.Duration {
			jwtExpire := os.Getenv("JWT_EXPIRE")
			if jwtExpire == "" {
				slog.Warn("JWT_EXPIRE is not set")
				jwtExpire = "168h" // 1 week
			}
			duration, err := time.ParseDuration(jwtExpire)
			if err != nil {
				slog.Error("invalid JWT_EXPIRE", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "JWT_EXPIRE", jwtExpire, "duration", duration)
			return duration
		}(),

		eventbriteBaseUrl: func() string {
			baseUrl := os.Getenv("EVENTBRITE_BASE_URL")
			if baseUrl == "" {
				baseUrl = "https://www.eventbriteapi.com"
			}
			slog.Debug("env", "EVENTBRITE_BASE_URL", baseUrl)
			return baseUrl
		}(),
		eventbriteOrgID: func() string {
			orgID := os.Getenv("EVENTBRITE_ORG_ID")
			if orgID == "" {
				slog.Warn("EVENTBRITE_ORG_ID is not set, the first organization of whoever signs in will be used")
				return ""
			}
			slog.Debug("env", "EVENTBRITE_ORG_ID", orgID)
			return orgID
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				slog.Warn("TIMEZONE is set to UTC, using UTC timezone", "timezone", time.UTC)
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		sqlitePath: func() string {
			sqlitePath := os.Getenv("SQLITE_PATH")
			if sqlitePath == "" {
				sqlitePath = "./sqlite.db"
			}
			slog.Debug("env", "SQLITE_PATH", sqlitePath)
			return sqlitePath
		}(),
		exportDir: func() string {
			exportDir := os.Getenv("EXPORT_DIR")
			if exportDir == "" {
				exportDir = filepath.Join(os.TempDir(), "dojoreport")
			}
			if err := os.MkdirAll(exportDir, 0o755); err != nil {
				slog.Error("can't create EXPORT_DIR", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "EXPORT_DIR", exportDir)
			return filepath.Clean(exportDir)
		}(),

		sessionSweepInterval: func() time.Duration {
			sweepInterval := os.Getenv("SESSION_SWEEP_INTERVAL")
			if sweepInterval == "" {
				sweepInterval = "1h"
			}
			duration, err := time.ParseDuration(sweepInterval)
			if err != nil {
				slog.Error("invalid SESSION_SWEEP_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "SESSION_SWEEP_INTERVAL", sweepInterval, "duration", duration)
			return duration
		}(),
		metricCollectionInterval: func() time.Duration {
			metricInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricInterval == "" {
				metricInterval = "1m"
			}
			duration, err := time.ParseDuration(metricInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", metricInterval, "duration", duration)
			return duration
		}(),

		dev: func() bool {
			dev := os.Getenv("DEV") == "true"
			slog.Debug("env", "DEV", dev)
			return dev
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get JWT_SECRET env
func (c *Config) GetJWTSecret() string {
	return c.jwtSecret
}

// Get JWT_EXPIRE env, doubles as the session time to live
func (c *Config) GetJWTExpire() time.Duration {
	return c.jwtExpire
}

// Get EVENTBRITE_BASE_URL env
func (c *Config) GetEventbriteBaseUrl() string {
	return c.eventbriteBaseUrl
}

// Get EVENTBRITE_ORG_ID env, blank means resolve per user at sign-in
func (c *Config) GetEventbriteOrgID() string {
	return c.eventbriteOrgID
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get SQLITE_PATH env
func (c *Config) GetSqlitePath() string {
	return c.sqlitePath
}

// Get EXPORT_DIR env
func (c *Config) GetExportDir() string {
	return c.exportDir
}

// Get SESSION_SWEEP_INTERVAL env
func (c *Config) GetSessionSweepInterval() time.Duration {
	return c.sessionSweepInterval
}

// Get METRIC_COLLECTION_INTERVAL env
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get DEV env
func (c *Config) GetDev() bool {
	return c.dev
}
