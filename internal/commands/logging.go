package commands

import (
	"strings"

	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

// CommandLogger returns a module-scoped logger for command handlers, enriched with
// the component fields every command entry carries.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.CommandLogger(provider, name), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
