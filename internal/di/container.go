package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-textbook/internal/commands"
	volumecmd "github.com/goliatone/go-textbook/internal/commands/volume"
	"github.com/goliatone/go-textbook/internal/embeddings"
	"github.com/goliatone/go-textbook/internal/generator"
	"github.com/goliatone/go-textbook/internal/healthcheck"
	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/internal/logging/console"
	"github.com/goliatone/go-textbook/internal/logging/gologger"
	"github.com/goliatone/go-textbook/internal/logging/zaplogger"
	"github.com/goliatone/go-textbook/internal/reportlog"
	"github.com/goliatone/go-textbook/internal/runtimeconfig"
	"github.com/goliatone/go-textbook/internal/strapi"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

const schemaTimeout = 10 * time.Second

// Container wires the pipeline collaborators from configuration.
type Container struct {
	cfg runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	httpClient     *http.Client

	source    interfaces.VolumeSource
	index     interfaces.EmbeddingIndex
	sinks     []healthcheck.Sink
	bunDB     *bun.DB
	ownsBunDB bool

	generator      generator.Service
	checker        *healthcheck.Service
	pipeline       *volumecmd.Pipeline
	fetchHandler   *volumecmd.FetchVolumeHandler
	checkHandler   *volumecmd.HealthCheckHandler
	monitorHandler *volumecmd.MonitorVolumeHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by cfg.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter redirects the console logger output.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithHTTPClient sets the client shared by every remote collaborator.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithVolumeSource replaces the CMS client.
func WithVolumeSource(source interfaces.VolumeSource) Option {
	return func(c *Container) {
		c.source = source
	}
}

// WithEmbeddingIndex replaces the embeddings client. Setting an index
// enables the health check regardless of cfg.Embeddings.
func WithEmbeddingIndex(index interfaces.EmbeddingIndex) Option {
	return func(c *Container) {
		c.index = index
	}
}

// WithReportSink adds a sink alongside the configured ones.
func WithReportSink(sink healthcheck.Sink) Option {
	return func(c *Container) {
		if sink != nil {
			c.sinks = append(c.sinks, sink)
		}
	}
}

// WithBunDB stores reports in db. The caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// NewContainer validates cfg and builds the pipeline.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if c.httpClient == nil && cfg.CMS.Timeout > 0 {
		c.httpClient = &http.Client{Timeout: cfg.CMS.Timeout}
	}
	if err := c.configureReportSinks(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configurePipeline()

	logging.ModuleLogger(c.loggerProvider, "textbook").Debug("container.configured",
		"health_check", c.pipeline.HealthCheckEnabled(),
		"report_sinks", len(c.sinks),
		"output_dir", cfg.Output.Dir,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.cfg.Logging
	switch runtimeconfig.NormalizeProvider(logCfg.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "zap":
		provider, err := zaplogger.NewProvider(zaplogger.Config{Mode: logCfg.Format, Level: logCfg.Level})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, err := console.ParseLevel(logCfg.Level)
		if err != nil {
			return err
		}
		c.loggerProvider = console.NewProvider(console.Options{
			Writer:   c.logWriter,
			MinLevel: &level,
			Color:    true,
		})
	}
	return nil
}

func (c *Container) configureReportSinks() error {
	reportCfg := c.cfg.ReportLog
	if reportCfg.SupabaseEnabled() {
		c.sinks = append(c.sinks, reportlog.NewSupabaseSink(reportlog.SupabaseConfig{
			URL:    reportCfg.URL,
			APIKey: reportCfg.APIKey,
			Table:  reportCfg.Table,
		}, c.httpClient))
	}

	if c.bunDB == nil && reportCfg.DatabaseEnabled() {
		db, err := reportlog.OpenDB(reportCfg.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsBunDB = true
	}
	if c.bunDB != nil {
		sink := reportlog.NewBunSink(c.bunDB)
		ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
		defer cancel()
		if err := sink.EnsureSchema(ctx); err != nil {
			return err
		}
		c.sinks = append(c.sinks, sink)
	}
	return nil
}

func (c *Container) configurePipeline() {
	if c.source == nil {
		c.source = strapi.NewClient(strapi.Config{
			BaseURL: c.cfg.CMS.BaseURL,
			Query:   c.cfg.CMS.Query,
			Token:   c.cfg.CMS.Token,
		}, c.httpClient, logging.ModuleLogger(c.loggerProvider, "textbook.strapi"))
	}
	if c.index == nil && c.cfg.Embeddings.Enabled() {
		c.index = embeddings.NewClient(embeddings.Config{
			URL:    c.cfg.Embeddings.URL,
			APIKey: c.cfg.Embeddings.APIKey,
			Table:  c.cfg.Embeddings.Table,
		}, c.httpClient, logging.ModuleLogger(c.loggerProvider, "textbook.embeddings"))
	}

	c.generator = generator.NewService(generator.Config{
		OutputDir: c.cfg.Output.Dir,
		Workers:   c.cfg.Render.Workers,
	}, generator.Dependencies{Logger: logging.GeneratorLogger(c.loggerProvider)})

	if c.index != nil {
		var sink healthcheck.Sink
		switch len(c.sinks) {
		case 0:
		case 1:
			sink = c.sinks[0]
		default:
			sink = reportlog.MultiSink(c.sinks)
		}
		c.checker = healthcheck.NewService(c.index, sink, logging.HealthCheckLogger(c.loggerProvider))
	}

	c.pipeline = volumecmd.NewPipeline(volumecmd.Dependencies{
		Source:    c.source,
		Generator: c.generator,
		Checker:   c.checker,
		Logger:    logging.IngestLogger(c.loggerProvider),
	})
	commandLogger := commands.CommandLogger(c.loggerProvider, "volume")
	c.fetchHandler = volumecmd.NewFetchVolumeHandler(c.pipeline, commandLogger)
	c.checkHandler = volumecmd.NewHealthCheckHandler(c.pipeline, commandLogger)
	c.monitorHandler = volumecmd.NewMonitorVolumeHandler(c.pipeline, commandLogger,
		volumecmd.MonitorWithVolume(c.cfg.Monitor.VolumeID),
		volumecmd.MonitorWithCronExpression(c.cfg.Monitor.Schedule),
	)
}

// Config returns the validated configuration.
func (c *Container) Config() runtimeconfig.Config { return c.cfg }

// LoggerProvider returns the provider every module logger is drawn from.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Pipeline returns the fetch and health check stages.
func (c *Container) Pipeline() *volumecmd.Pipeline { return c.pipeline }

// Generator returns the document generator.
func (c *Container) Generator() generator.Service { return c.generator }

// FetchHandler returns the fetch command handler.
func (c *Container) FetchHandler() *volumecmd.FetchVolumeHandler { return c.fetchHandler }

// HealthCheckHandler returns the health check command handler.
func (c *Container) HealthCheckHandler() *volumecmd.HealthCheckHandler { return c.checkHandler }

// MonitorHandler returns the scheduled health check handler.
func (c *Container) MonitorHandler() *volumecmd.MonitorVolumeHandler { return c.monitorHandler }

// Close releases the database opened from the configured DSN and flushes
// buffered loggers.
func (c *Container) Close() error {
	var errs []error
	if c.ownsBunDB && c.bunDB != nil {
		if err := c.bunDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close report database: %w", err))
		}
		c.bunDB = nil
	}
	if syncer, ok := c.loggerProvider.(interface{ Sync() error }); ok {
		// zap reports EINVAL when syncing stderr on some platforms.
		_ = syncer.Sync()
	}
	return errors.Join(errs...)
}
