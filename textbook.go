package textbook

import (
	volumecmd "github.com/goliatone/go-textbook/internal/commands/volume"
	"github.com/goliatone/go-textbook/internal/di"
	"github.com/goliatone/go-textbook/internal/generator"
	"github.com/goliatone/go-textbook/internal/healthcheck"
	"github.com/goliatone/go-textbook/internal/volume"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

// Volume exports the normalized volume model.
type Volume = volume.Volume

// Page exports a normalized page.
type Page = volume.Page

// Report exports the embeddings reconciliation report.
type Report = healthcheck.Report

// BuildResult exports the generator outcome.
type BuildResult = generator.BuildResult

// FetchVolumeCommand exports the fetch command message.
type FetchVolumeCommand = volumecmd.FetchVolumeCommand

// HealthCheckCommand exports the reconciliation command message.
type HealthCheckCommand = volumecmd.HealthCheckCommand

// MonitorVolumeCommand exports the scheduled reconciliation message.
type MonitorVolumeCommand = volumecmd.MonitorVolumeCommand

// Module is the top level façade over the fetch pipeline.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pipeline returns the fetch, build and check steps.
func (m *Module) Pipeline() *volumecmd.Pipeline {
	return m.container.Pipeline()
}

// Generator returns the document generator.
func (m *Module) Generator() generator.Service {
	return m.container.Generator()
}

// FetchHandler returns the command handler that fetches and writes a volume.
func (m *Module) FetchHandler() *volumecmd.FetchVolumeHandler {
	return m.container.FetchHandler()
}

// HealthCheckHandler returns the reconciliation handler. Its commands fail
// unless HealthCheckEnabled reports true.
func (m *Module) HealthCheckHandler() *volumecmd.HealthCheckHandler {
	return m.container.HealthCheckHandler()
}

// MonitorHandler returns the scheduled health check handler.
func (m *Module) MonitorHandler() *volumecmd.MonitorVolumeHandler {
	return m.container.MonitorHandler()
}

// HealthCheckEnabled reports whether reconciliation can run.
func (m *Module) HealthCheckEnabled() bool {
	pipeline := m.container.Pipeline()
	return pipeline != nil && pipeline.HealthCheckEnabled()
}

// LoggerProvider returns the provider every component logs through.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
