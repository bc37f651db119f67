package healthcheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/internal/volume"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

var (
	// ErrIndexRequired is returned when no embedding index is configured.
	ErrIndexRequired = errors.New("healthcheck: embedding index is required")
	// ErrReportNotSaved wraps a sink failure. The report itself is still valid.
	ErrReportNotSaved = errors.New("healthcheck: report not saved")
)

// Sink persists reports.
type Sink interface {
	Save(ctx context.Context, report *Report) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, report *Report) error

func (f SinkFunc) Save(ctx context.Context, report *Report) error {
	return f(ctx, report)
}

// Service runs the reconciliation stage of the pipeline.
type Service struct {
	index  interfaces.EmbeddingIndex
	sink   Sink
	logger interfaces.Logger
}

// NewService wires a health check service. sink and logger are optional.
func NewService(index interfaces.EmbeddingIndex, sink Sink, logger interfaces.Logger) *Service {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{index: index, sink: sink, logger: logger}
}

// Check fetches the indexed slugs for vol, reconciles them and saves the
// report. A failed save is returned wrapped in ErrReportNotSaved alongside
// the report.
func (s *Service) Check(ctx context.Context, volumeID string, vol *volume.Volume) (*Report, error) {
	if s == nil || s.index == nil {
		return nil, ErrIndexRequired
	}
	if vol == nil {
		return nil, fmt.Errorf("healthcheck: volume is required")
	}
	logger := logging.WithVolumeContext(s.logger.WithContext(ctx), volumeID, vol.Slug)

	slugs, err := s.index.ChunkSlugs(ctx, vol.Slug)
	if err != nil {
		logger.Error("healthcheck.slugs.fetch_failed", "error", err)
		return nil, fmt.Errorf("get embedding slugs: %w", err)
	}
	logger.Debug("healthcheck.slugs.fetched", "count", len(slugs))

	report := ReconcileVolume(volumeID, vol, slugs)
	logger.Info("healthcheck.reconciled",
		"total_chunks", report.TotalChunks,
		"existing_chunks", report.ExistingChunksCount,
		"missing_chunks", report.MissingChunksCount,
		"passed", report.Passed(),
	)

	if s.sink == nil {
		return report, nil
	}
	if err := s.sink.Save(ctx, report); err != nil {
		logger.Warn("healthcheck.report.save_failed", "error", err)
		return report, fmt.Errorf("%w: %w", ErrReportNotSaved, err)
	}
	logger.Info("healthcheck.report.saved")
	return report, nil
}
