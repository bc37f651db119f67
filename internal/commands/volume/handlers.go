package volumecmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-textbook/internal/commands"
	"github.com/goliatone/go-textbook/internal/healthcheck"
	"github.com/goliatone/go-textbook/internal/ingest"
	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/internal/volume"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

const (
	fetchOperation       = "volume.fetch"
	healthCheckOperation = "volume.health_check"

	volumeInvalidCode = "VOLUME_INVALID"
)

var (
	_ command.Commander[FetchVolumeCommand] = (*FetchVolumeHandler)(nil)
	_ command.Commander[HealthCheckCommand] = (*HealthCheckHandler)(nil)
)

// FetchVolumeHandler runs fetch, ingest, prepare and build.
type FetchVolumeHandler struct {
	inner *commands.Handler[FetchVolumeCommand]
}

// NewFetchVolumeHandler creates a handler bound to pipeline.
func NewFetchVolumeHandler(pipeline *Pipeline, logger interfaces.Logger, opts ...commands.HandlerOption[FetchVolumeCommand]) *FetchVolumeHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg FetchVolumeCommand) error {
		ctx = logging.ContextWithVolume(ctx, msg.VolumeID)
		vol, duplicates, err := loadVolume(ctx, pipeline, msg.VolumeID)
		if err != nil {
			return err
		}

		result, err := pipeline.Build(ctx, vol, BuildRequest{
			OutputDir: msg.OutputDir,
			Clean:     msg.Clean,
			DryRun:    msg.DryRun,
		})
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"volume_slug": vol.Slug,
			"pages":       result.PagesBuilt,
			"output_dir":  result.OutputDir,
			"dry_run":     result.DryRun,
		}).Info("volume.command.fetch.completed")

		if msg.ResultCallback != nil {
			msg.ResultCallback(FetchResult{
				VolumeID:   msg.VolumeID,
				Volume:     vol,
				Build:      result,
				Duplicates: duplicates,
			})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[FetchVolumeCommand]{
		commands.WithLogger[FetchVolumeCommand](baseLogger),
		commands.WithOperation[FetchVolumeCommand](fetchOperation),
		commands.WithMessageFields(func(msg FetchVolumeCommand) map[string]any {
			fields := map[string]any{"volume_id": msg.VolumeID}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[FetchVolumeCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &FetchVolumeHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[FetchVolumeCommand].
func (h *FetchVolumeHandler) Execute(ctx context.Context, msg FetchVolumeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// HealthCheckHandler reconciles a volume against the embedding index. A
// report that could not be saved does not fail the command.
type HealthCheckHandler struct {
	inner *commands.Handler[HealthCheckCommand]
}

// NewHealthCheckHandler creates a handler bound to pipeline.
func NewHealthCheckHandler(pipeline *Pipeline, logger interfaces.Logger, opts ...commands.HandlerOption[HealthCheckCommand]) *HealthCheckHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg HealthCheckCommand) error {
		ctx = logging.ContextWithVolume(ctx, msg.VolumeID)
		return checkAndReport(ctx, pipeline, baseLogger, msg.VolumeID, msg.Volume, msg.ResultCallback)
	}

	handlerOpts := []commands.HandlerOption[HealthCheckCommand]{
		commands.WithLogger[HealthCheckCommand](baseLogger),
		commands.WithOperation[HealthCheckCommand](healthCheckOperation),
		commands.WithMessageFields(func(msg HealthCheckCommand) map[string]any {
			return map[string]any{"volume_id": msg.VolumeID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[HealthCheckCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &HealthCheckHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[HealthCheckCommand].
func (h *HealthCheckHandler) Execute(ctx context.Context, msg HealthCheckCommand) error {
	return h.inner.Execute(ctx, msg)
}

// loadVolume fetches and ingests a volume. Content failures are reported
// as validation errors.
func loadVolume(ctx context.Context, pipeline *Pipeline, volumeID string) (*volume.Volume, []ingest.DuplicateChunkSlug, error) {
	vol, duplicates, err := pipeline.Load(ctx, volumeID)
	if err != nil {
		if errors.Is(err, ingest.ErrValidation) || errors.Is(err, ingest.ErrFormat) {
			return nil, nil, goerrors.Wrap(err, goerrors.CategoryValidation, "volume content is invalid").
				WithTextCode(volumeInvalidCode)
		}
		return nil, nil, err
	}
	return vol, duplicates, nil
}

func checkAndReport(ctx context.Context, pipeline *Pipeline, logger interfaces.Logger, volumeID string, vol *volume.Volume, callback func(CheckResult)) error {
	report, err := pipeline.Check(ctx, volumeID, vol)
	var saveErr error
	if err != nil {
		if report == nil || !errors.Is(err, healthcheck.ErrReportNotSaved) {
			return err
		}
		saveErr = err
		logger.Warn("volume.command.health_check.report_not_saved", "error", err)
	}

	logging.WithFields(logger, map[string]any{
		"volume_slug":    report.VolumeSlug,
		"total_chunks":   report.TotalChunks,
		"missing_chunks": report.MissingChunksCount,
		"passed":         report.Passed(),
	}).Info("volume.command.health_check.completed")

	if callback != nil {
		callback(CheckResult{Report: report, SaveErr: saveErr})
	}
	return nil
}
