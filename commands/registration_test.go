package commands

import (
	"context"
	"errors"
	"io"
	"testing"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-textbook"
	volumecmd "github.com/goliatone/go-textbook/internal/commands/volume"
	"github.com/goliatone/go-textbook/internal/di"
)

type stubSource struct{}

func (stubSource) FetchVolume(context.Context, string) (map[string]any, error) {
	return nil, errors.New("not used")
}

type stubIndex struct{}

func (stubIndex) ChunkSlugs(context.Context, string) ([]string, error) {
	return nil, nil
}

func newContainer(t *testing.T, cfg textbook.Config, opts ...di.Option) *di.Container {
	t.Helper()
	opts = append([]di.Option{di.WithLogWriter(io.Discard), di.WithVolumeSource(stubSource{})}, opts...)
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	cfg := textbook.DefaultConfig()
	cfg.Monitor.VolumeID = "12"
	cfg.Monitor.Schedule = "@weekly"

	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}
	cron := &recordingCron{}

	container := newContainer(t, cfg, di.WithEmbeddingIndex(stubIndex{}))

	result, err := RegisterContainerCommands(container, RegistrationOptions{
		Registry:      registry,
		Dispatcher:    dispatcher,
		CronRegistrar: cron.Registrar(),
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) != 3 {
		t.Fatalf("expected fetch, health check and monitor handlers, got %d", len(result.Handlers))
	}
	if len(registry.handlers) != len(result.Handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(dispatcher.subscriptions) != len(result.Handlers) {
		t.Fatalf("expected a subscription per handler, got %d", len(dispatcher.subscriptions))
	}
	if len(cron.registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(cron.registrations))
	}
	if got := cron.registrations[0].config.Expression; got != "@weekly" {
		t.Fatalf("expected monitor cron expression override, got %q", got)
	}
	if cron.registrations[0].handler == nil {
		t.Fatal("expected cron handler func")
	}
	if len(result.Scheduled) != 1 {
		t.Fatalf("expected monitor to be scheduled, got %d", len(result.Scheduled))
	}
}

func TestRegisterContainerCommandsWithoutEmbeddings(t *testing.T) {
	container := newContainer(t, textbook.DefaultConfig())

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 1 {
		t.Fatalf("expected only the fetch handler, got %d", len(result.Handlers))
	}
	if _, ok := result.Handlers[0].(*volumecmd.FetchVolumeHandler); !ok {
		t.Fatalf("expected fetch handler, got %T", result.Handlers[0])
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no dispatcher subscriptions without dispatcher, got %d", len(result.Subscriptions))
	}
}

func TestRegisterContainerCommandsSkipsCronWithoutMonitorVolume(t *testing.T) {
	cron := &recordingCron{}
	container := newContainer(t, textbook.DefaultConfig(), di.WithEmbeddingIndex(stubIndex{}))

	result, err := RegisterContainerCommands(container, RegistrationOptions{CronRegistrar: cron.Registrar()})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(cron.registrations) != 0 || len(result.Scheduled) != 0 {
		t.Fatalf("expected no cron registration, got %d", len(cron.registrations))
	}
}

func TestRegisterContainerCommandsJoinsRegistrarErrors(t *testing.T) {
	boom := errors.New("dispatcher down")
	container := newContainer(t, textbook.DefaultConfig())

	result, err := RegisterContainerCommands(container, RegistrationOptions{
		Dispatcher: &recordingDispatcher{err: boom},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected dispatcher error, got %v", err)
	}
	if len(result.Handlers) != 1 {
		t.Fatalf("expected handlers to be collected despite errors, got %d", len(result.Handlers))
	}
}

func TestRegisterContainerCommandsNilContainer(t *testing.T) {
	result, err := RegisterContainerCommands(nil, RegistrationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Handlers) != 0 {
		t.Fatalf("expected no handlers, got %d", len(result.Handlers))
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type cronRegistration struct {
	config  command.HandlerConfig
	handler func() error
}

type recordingCron struct {
	registrations []cronRegistration
	err           error
}

func (c *recordingCron) Registrar() CronRegistrar {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		var fn func() error
		if h, ok := handler.(func() error); ok {
			fn = h
		}
		c.registrations = append(c.registrations, cronRegistration{
			config:  cfg,
			handler: fn,
		})
		return nil
	}
}

type recordingDispatcher struct {
	handlers      []any
	subscriptions []*recordingSubscription
	err           error
}

func (d *recordingDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.handlers = append(d.handlers, handler)
	sub := &recordingSubscription{handler: handler}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

type recordingSubscription struct {
	handler      any
	unsubscribed bool
}

func (s *recordingSubscription) Unsubscribe() {
	s.unsubscribed = true
}
