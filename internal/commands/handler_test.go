package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-textbook/pkg/interfaces"
)

type testMessage struct{}

func (testMessage) Type() string { return "textbook.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "textbook.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerKeepsUnderlyingError(t *testing.T) {
	execErr := errors.New("page 'Intro' must set Order")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if !errors.Is(err, execErr) {
		t.Fatalf("expected wrapped error to unwrap to the cause, got %v", err)
	}
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	var infos []TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithOperation[testMessage]("volume.fetch"),
		WithMessageFields(func(testMessage) map[string]any {
			return map[string]any{"volume_id": "12"}
		}),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
			infos = append(infos, info)
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected one telemetry call, got %d", len(infos))
	}
	info := infos[0]
	if info.Status != TelemetryStatusSuccess || info.Operation != "volume.fetch" || info.Command != "textbook.test.message" {
		t.Fatalf("unexpected telemetry info %+v", info)
	}
	if info.Fields["volume_id"] != "12" || info.Fields["command"] != "textbook.test.message" {
		t.Fatalf("unexpected telemetry fields %v", info.Fields)
	}
}

func TestHandlerTelemetryContextStatus(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return context.Canceled
	}, WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
		status = info.Status
	}))

	err := h.Execute(context.Background(), testMessage{})
	if status != TelemetryStatusContextError {
		t.Fatalf("expected context status, got %s", status)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestDefaultTelemetryLogsOutcome(t *testing.T) {
	logger := &recordingLogger{}
	telemetry := DefaultTelemetry[testMessage](logger)

	telemetry(context.Background(), testMessage{}, TelemetryInfo{Status: TelemetryStatusSuccess})
	telemetry(context.Background(), testMessage{}, TelemetryInfo{Status: TelemetryStatusFailed, Error: errors.New("boom")})

	if len(logger.entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", logger.entries)
	}
	if logger.entries[0] != "INFO command.execute.success" || logger.entries[1] != "ERROR command.execute.failed" {
		t.Fatalf("unexpected entries %v", logger.entries)
	}
}

func TestCommandLoggerAddsComponentFields(t *testing.T) {
	logger := &recordingLogger{}
	provider := providerFunc(func(name string) interfaces.Logger {
		logger.name = name
		return logger
	})

	CommandLogger(provider, "volume").Info("ready")
	if logger.name != "textbook.commands.volume" {
		t.Fatalf("unexpected logger name %q", logger.name)
	}
	if logger.fields["component"] != "command" || logger.fields["command_module"] != "volume" {
		t.Fatalf("unexpected fields %v", logger.fields)
	}
}

type providerFunc func(name string) interfaces.Logger

func (f providerFunc) GetLogger(name string) interfaces.Logger { return f(name) }

type recordingLogger struct {
	name    string
	entries []string
	fields  map[string]any
}

func (l *recordingLogger) record(level, msg string) { l.entries = append(l.entries, level+" "+msg) }

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record("TRACE", msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record("DEBUG", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("INFO", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("WARN", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record("ERROR", msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record("FATAL", msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if l.fields == nil {
		l.fields = map[string]any{}
	}
	for k, v := range fields {
		l.fields[k] = v
	}
	return l
}
