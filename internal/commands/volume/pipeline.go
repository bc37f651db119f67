package volumecmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-textbook/internal/generator"
	"github.com/goliatone/go-textbook/internal/healthcheck"
	"github.com/goliatone/go-textbook/internal/ingest"
	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/internal/volume"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

var (
	// ErrSourceRequired is returned when no volume source is configured.
	ErrSourceRequired = errors.New("volume command: volume source is required")
	// ErrGeneratorRequired is returned when no generator is configured.
	ErrGeneratorRequired = errors.New("volume command: generator is required")
	// ErrHealthCheckDisabled is returned when reconciliation is requested
	// without an embedding index.
	ErrHealthCheckDisabled = errors.New("volume command: health check is not configured")
)

// Dependencies wires the pipeline stages. Checker is nil when no embedding
// index is configured.
type Dependencies struct {
	Source    interfaces.VolumeSource
	Generator generator.Service
	Checker   *healthcheck.Service
	Logger    interfaces.Logger
}

// Pipeline runs the fetch and health check stages. The stages only share
// the validated volume.
type Pipeline struct {
	source    interfaces.VolumeSource
	generator generator.Service
	checker   *healthcheck.Service
	logger    interfaces.Logger
}

// NewPipeline constructs a Pipeline.
func NewPipeline(deps Dependencies) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Pipeline{
		source:    deps.Source,
		generator: deps.Generator,
		checker:   deps.Checker,
		logger:    logger,
	}
}

// HealthCheckEnabled reports whether Check can run.
func (p *Pipeline) HealthCheckEnabled() bool {
	return p != nil && p.checker != nil
}

// Load fetches and ingests a volume. Nothing is written.
func (p *Pipeline) Load(ctx context.Context, volumeID string) (*volume.Volume, []ingest.DuplicateChunkSlug, error) {
	if p.source == nil {
		return nil, nil, ErrSourceRequired
	}
	logger := logging.WithVolumeContext(p.logger.WithContext(ctx), volumeID, "")

	raw, err := p.source.FetchVolume(ctx, volumeID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch volume %s: %w", volumeID, err)
	}
	vol, err := ingest.Parse(raw)
	if err != nil {
		logger.Error("ingest.volume.invalid", "error", err)
		return nil, nil, err
	}

	logger = logging.WithVolumeContext(logger, "", vol.Slug)
	duplicates := ingest.DuplicateChunkSlugs(vol)
	for _, dup := range duplicates {
		logger.Warn("ingest.chunk.duplicate_slug", "chunk_slug", dup.Slug, "pages", dup.Pages)
	}
	logger.Info("ingest.volume.parsed", "pages", len(vol.Pages), "chunks", vol.ChunkCount())
	return vol, duplicates, nil
}

// BuildRequest narrows the write stage.
type BuildRequest struct {
	OutputDir string
	Clean     bool
	DryRun    bool
}

// Build prepares the output directory and writes every document.
func (p *Pipeline) Build(ctx context.Context, vol *volume.Volume, req BuildRequest) (*generator.BuildResult, error) {
	if p.generator == nil {
		return nil, ErrGeneratorRequired
	}
	if !req.DryRun {
		if err := generator.PrepareOutputDir(req.OutputDir, req.Clean); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	return p.generator.Build(ctx, vol, generator.BuildOptions{
		OutputDir: req.OutputDir,
		DryRun:    req.DryRun,
	})
}

// Check reconciles vol against the embedding index. A failed report save is
// returned as healthcheck.ErrReportNotSaved together with the report.
func (p *Pipeline) Check(ctx context.Context, volumeID string, vol *volume.Volume) (*healthcheck.Report, error) {
	if !p.HealthCheckEnabled() {
		return nil, ErrHealthCheckDisabled
	}
	return p.checker.Check(ctx, volumeID, vol)
}
