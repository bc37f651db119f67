package commands

import (
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-textbook/internal/di"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry      CommandRegistry
	Dispatcher    CommandDispatcher
	CronRegistrar CronRegistrar
}

// RegistrationResult captures the registered handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
	// Scheduled lists handlers handed to the cron registrar.
	Scheduled []any
}

// ErrNoHandlers is returned when the container exposes no command handlers.
var ErrNoHandlers = errors.New("no command handlers registered; ensure the container is configured")

// RegisterContainerCommands collects the volume command handlers built by
// container and registers them with the optional registry, dispatcher and
// cron integrations. The health check and monitor handlers are only
// registered when an embeddings index is configured, and the monitor is only
// scheduled when a volume is configured for it.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0, 3),
		Subscriptions: make([]CommandSubscription, 0),
	}
	if container == nil {
		return result, nil
	}

	var errs error

	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	if handler := container.FetchHandler(); handler != nil {
		register(handler)
	}

	pipeline := container.Pipeline()
	if pipeline != nil && pipeline.HealthCheckEnabled() {
		if handler := container.HealthCheckHandler(); handler != nil {
			register(handler)
		}
		if monitor := container.MonitorHandler(); monitor != nil {
			register(monitor)
			if opts.CronRegistrar != nil && container.Config().Monitor.Enabled() {
				if err := opts.CronRegistrar(monitor.CronOptions(), monitor.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				} else {
					result.Scheduled = append(result.Scheduled, monitor)
				}
			}
		}
	}

	if len(result.Handlers) == 0 {
		return result, errors.Join(ErrNoHandlers, errs)
	}
	return result, errs
}
