package volumecmd

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-textbook/internal/commands"
	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

const (
	monitorVolumeMessageType = "textbook.volume.monitor"
	monitorOperation         = "volume.monitor"

	// DefaultMonitorExpression runs the scheduled reconciliation once a day.
	DefaultMonitorExpression = "@daily"
)

// MonitorVolumeCommand fetches a volume and reconciles it against the
// embedding index without writing any documents.
type MonitorVolumeCommand struct {
	VolumeID string `json:"volume_id"`

	ResultCallback func(CheckResult) `json:"-"`
}

// Type implements command.Message.
func (MonitorVolumeCommand) Type() string { return monitorVolumeMessageType }

// Validate ensures a volume id is present.
func (cmd MonitorVolumeCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.VolumeID, validation.Required, validation.By(notBlank("textbook.volume.monitor.volume_id_required", "volume id is required"))),
	)
}

type monitorConfig struct {
	volumeID   string
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// MonitorOption customises the monitor handler.
type MonitorOption func(*monitorConfig)

// MonitorWithVolume sets the volume checked by cron runs.
func MonitorWithVolume(volumeID string) MonitorOption {
	return func(cfg *monitorConfig) {
		cfg.volumeID = strings.TrimSpace(volumeID)
	}
}

// MonitorWithCronExpression overrides the cron expression.
func MonitorWithCronExpression(expression string) MonitorOption {
	return func(cfg *monitorConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// MonitorWithTimeout overrides the per-run timeout.
func MonitorWithTimeout(timeout time.Duration) MonitorOption {
	return func(cfg *monitorConfig) {
		cfg.timeout = timeout
	}
}

var (
	_ command.Commander[MonitorVolumeCommand] = (*MonitorVolumeHandler)(nil)
	_ command.CronCommand                     = (*MonitorVolumeHandler)(nil)
)

// MonitorVolumeHandler runs the load and check stages on demand or on a
// schedule.
type MonitorVolumeHandler struct {
	inner      *commands.Handler[MonitorVolumeCommand]
	volumeID   string
	cronConfig command.HandlerConfig
}

// NewMonitorVolumeHandler creates a handler bound to pipeline.
func NewMonitorVolumeHandler(pipeline *Pipeline, logger interfaces.Logger, opts ...MonitorOption) *MonitorVolumeHandler {
	cfg := monitorConfig{
		cronConfig: command.HandlerConfig{Expression: DefaultMonitorExpression},
		timeout:    commands.DefaultHandlerTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg MonitorVolumeCommand) error {
		if !pipeline.HealthCheckEnabled() {
			return ErrHealthCheckDisabled
		}
		ctx = logging.ContextWithVolume(ctx, msg.VolumeID)
		vol, _, err := loadVolume(ctx, pipeline, msg.VolumeID)
		if err != nil {
			return err
		}
		return checkAndReport(ctx, pipeline, baseLogger, msg.VolumeID, vol, msg.ResultCallback)
	}

	inner := commands.NewHandler(exec,
		commands.WithLogger[MonitorVolumeCommand](baseLogger),
		commands.WithOperation[MonitorVolumeCommand](monitorOperation),
		commands.WithTimeout[MonitorVolumeCommand](cfg.timeout),
		commands.WithMessageFields(func(msg MonitorVolumeCommand) map[string]any {
			return map[string]any{"volume_id": msg.VolumeID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MonitorVolumeCommand](baseLogger)),
	)

	return &MonitorVolumeHandler{
		inner:      inner,
		volumeID:   cfg.volumeID,
		cronConfig: cfg.cronConfig,
	}
}

// Execute satisfies command.Commander[MonitorVolumeCommand].
func (h *MonitorVolumeHandler) Execute(ctx context.Context, msg MonitorVolumeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// VolumeID returns the volume checked by cron runs.
func (h *MonitorVolumeHandler) VolumeID() string {
	return h.volumeID
}

// CronHandler satisfies command.CronCommand.
func (h *MonitorVolumeHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), MonitorVolumeCommand{VolumeID: h.volumeID})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *MonitorVolumeHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}
