package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-textbook/pkg/interfaces"
)

const (
	rootModule        = "textbook"
	ingestModule      = "textbook.ingest"
	generatorModule   = "textbook.generator"
	healthcheckModule = "textbook.healthcheck"
	commandsModule    = "textbook.commands"
)

const (
	fieldVolumeID   = "volume_id"
	fieldVolumeSlug = "volume_slug"
	fieldPageSlug   = "page_slug"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// IngestLogger returns the logger namespace reserved for CMS ingestion.
func IngestLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ingestModule)
}

// GeneratorLogger returns the logger namespace reserved for document output.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// HealthCheckLogger returns the logger namespace reserved for reconciliation.
func HealthCheckLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, healthcheckModule)
}

// CommandLogger returns a logger scoped below the commands namespace.
func CommandLogger(provider interfaces.LoggerProvider, name string) interfaces.Logger {
	name = strings.TrimSpace(name)
	if name == "" {
		return ModuleLogger(provider, commandsModule)
	}
	return ModuleLogger(provider, commandsModule+"."+name)
}

// WithVolumeContext enriches logger with the volume identifier and slug.
// Empty values are ignored.
func WithVolumeContext(logger interfaces.Logger, volumeID, volumeSlug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(volumeID); trimmed != "" {
		fields[fieldVolumeID] = trimmed
	}
	if trimmed := strings.TrimSpace(volumeSlug); trimmed != "" {
		fields[fieldVolumeSlug] = trimmed
	}
	return WithFields(logger, fields)
}

// WithPage adds the page slug field.
func WithPage(logger interfaces.Logger, pageSlug string) interfaces.Logger {
	if strings.TrimSpace(pageSlug) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldPageSlug: pageSlug})
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
