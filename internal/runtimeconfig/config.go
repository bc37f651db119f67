package runtimeconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultOutputDir is where rendered documents go when no directory is given.
const DefaultOutputDir = "output/textbook"

// Environment variables read by ApplyEnv.
const (
	EnvEmbeddingsURL    = "EMBEDDINGS_SUPABASE_URL"
	EnvEmbeddingsAPIKey = "EMBEDDINGS_SUPABASE_API_KEY"
	EnvLogURL           = "LOG_SUPABASE_URL"
	EnvLogAPIKey        = "LOG_SUPABASE_API_KEY"
	EnvCMSBaseURL       = "TEXTBOOK_CMS_BASE_URL"
	EnvCMSToken         = "TEXTBOOK_CMS_TOKEN"
	EnvLogLevel         = "TEXTBOOK_LOG_LEVEL"
	EnvLogProvider      = "TEXTBOOK_LOG_PROVIDER"
	EnvReportDSN        = "TEXTBOOK_REPORT_DSN"
	EnvWorkers          = "TEXTBOOK_WORKERS"
	EnvMonitorVolume    = "TEXTBOOK_MONITOR_VOLUME"
	EnvMonitorSchedule  = "TEXTBOOK_MONITOR_SCHEDULE"
)

var ErrOutputDirRequired = errors.New("textbook config: output directory is required")
var ErrWorkersInvalid = errors.New("textbook config: workers must be zero or positive")
var ErrCMSTimeoutInvalid = errors.New("textbook config: cms timeout must be zero or positive")
var ErrEmbeddingsIncomplete = errors.New("textbook config: embeddings url and api key must be set together")
var ErrReportLogIncomplete = errors.New("textbook config: report log url and api key must be set together")
var ErrLoggingProviderRequired = errors.New("textbook config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("textbook config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("textbook config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("textbook config: logging format is invalid")

// Config aggregates every setting of the fetch pipeline.
type Config struct {
	CMS        CMSConfig
	Output     OutputConfig
	Render     RenderConfig
	Embeddings EmbeddingsConfig
	ReportLog  ReportLogConfig
	Monitor    MonitorConfig
	Logging    LoggingConfig
}

// CMSConfig locates the volume API.
type CMSConfig struct {
	// BaseURL and Query fall back to the hosted CMS defaults when empty.
	BaseURL string
	Query   string
	Token   string
	Timeout time.Duration
}

// OutputConfig controls where and how documents are written.
type OutputConfig struct {
	Dir string
	// Clean removes the directory before writing.
	Clean  bool
	DryRun bool
}

// RenderConfig tunes page rendering.
type RenderConfig struct {
	// Workers bounds concurrent rendering; zero uses GOMAXPROCS.
	Workers int
}

// EmbeddingsConfig locates the embeddings table used for reconciliation.
type EmbeddingsConfig struct {
	URL    string
	APIKey string
	Table  string
}

// Enabled reports whether reconciliation can run.
func (c EmbeddingsConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.APIKey) != ""
}

// ReportLogConfig selects where health check reports are persisted. Both
// destinations may be set.
type ReportLogConfig struct {
	URL    string
	APIKey string
	Table  string
	// DSN stores reports through a SQL database (sqlite path or postgres URL).
	DSN string
}

// SupabaseEnabled reports whether reports are posted to the Supabase log table.
func (c ReportLogConfig) SupabaseEnabled() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.APIKey) != ""
}

// DatabaseEnabled reports whether reports are stored through Bun.
func (c ReportLogConfig) DatabaseEnabled() bool {
	return strings.TrimSpace(c.DSN) != ""
}

// MonitorConfig schedules a recurring health check of one volume.
type MonitorConfig struct {
	VolumeID string
	// Schedule is a cron expression; empty means daily.
	Schedule string
}

// Enabled reports whether a volume is scheduled for monitoring.
func (c MonitorConfig) Enabled() bool {
	return strings.TrimSpace(c.VolumeID) != ""
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the configuration used by the fetch command.
func DefaultConfig() Config {
	return Config{
		CMS: CMSConfig{
			Timeout: 60 * time.Second,
		},
		Output: OutputConfig{
			Dir:   DefaultOutputDir,
			Clean: true,
		},
		Embeddings: EmbeddingsConfig{
			Table: "embeddings",
		},
		ReportLog: ReportLogConfig{
			Table: "log_rs",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return ErrOutputDirRequired
	}
	if cfg.Render.Workers < 0 {
		return ErrWorkersInvalid
	}
	if cfg.CMS.Timeout < 0 {
		return ErrCMSTimeoutInvalid
	}
	if (strings.TrimSpace(cfg.Embeddings.URL) == "") != (strings.TrimSpace(cfg.Embeddings.APIKey) == "") {
		return ErrEmbeddingsIncomplete
	}
	if (strings.TrimSpace(cfg.ReportLog.URL) == "") != (strings.TrimSpace(cfg.ReportLog.APIKey) == "") {
		return ErrReportLogIncomplete
	}

	provider := NormalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

// ApplyEnv overlays environment values onto cfg. lookup has the signature of
// os.LookupEnv; unset and blank variables leave cfg untouched.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if cfg == nil || lookup == nil {
		return nil
	}
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	if v, ok := get(EnvEmbeddingsURL); ok {
		cfg.Embeddings.URL = v
	}
	if v, ok := get(EnvEmbeddingsAPIKey); ok {
		cfg.Embeddings.APIKey = v
	}
	if v, ok := get(EnvLogURL); ok {
		cfg.ReportLog.URL = v
	}
	if v, ok := get(EnvLogAPIKey); ok {
		cfg.ReportLog.APIKey = v
	}
	if v, ok := get(EnvCMSBaseURL); ok {
		cfg.CMS.BaseURL = v
	}
	if v, ok := get(EnvCMSToken); ok {
		cfg.CMS.Token = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Logging.Level = v
	}
	if v, ok := get(EnvLogProvider); ok {
		cfg.Logging.Provider = v
	}
	if v, ok := get(EnvReportDSN); ok {
		cfg.ReportLog.DSN = v
	}
	if v, ok := get(EnvMonitorVolume); ok {
		cfg.Monitor.VolumeID = v
	}
	if v, ok := get(EnvMonitorSchedule); ok {
		cfg.Monitor.Schedule = v
	}
	if v, ok := get(EnvWorkers); ok {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("textbook config: %s: %w", EnvWorkers, err)
		}
		cfg.Render.Workers = workers
	}
	return nil
}

// NormalizeProvider lowercases and trims a logging provider name.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zap":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	switch provider {
	case "gologger":
		return format == "json" || format == "console" || format == "text" || format == "pretty"
	case "zap":
		return format == "json" || format == "console" || format == "production" || format == "development"
	default:
		return false
	}
}
