package generator

import (
	"context"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/internal/markdown"
	"github.com/goliatone/go-textbook/internal/volume"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

// Service writes a volume's documents to an output directory.
type Service interface {
	Build(ctx context.Context, vol *volume.Volume, opts BuildOptions) (*BuildResult, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir string
	// Workers bounds concurrent page rendering. Zero uses GOMAXPROCS and one
	// renders sequentially.
	Workers int
}

// BuildOptions narrows a single build.
type BuildOptions struct {
	// OutputDir overrides Config.OutputDir when set.
	OutputDir string
	// DryRun renders every document without touching the filesystem.
	DryRun bool
}

// BuildResult reports what a build produced.
type BuildResult struct {
	OutputDir  string
	PagesBuilt int
	Volume     RenderedFile
	Rendered   []RenderedPage
	Duration   time.Duration
	DryRun     bool
}

// RenderedFile describes one written (or, for dry runs, rendered) document.
type RenderedFile struct {
	Path     string
	Checksum string
	Bytes    int
}

// RenderedPage is a RenderedFile for a page document.
type RenderedPage struct {
	RenderedFile
	Slug     string
	Order    int
	NextSlug *string
	Content  string
}

// Dependencies lists optional collaborators.
type Dependencies struct {
	Logger interfaces.Logger
}

// NewService wires a generator with the provided configuration.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{cfg: cfg, logger: logger, now: time.Now}
}

type service struct {
	cfg    Config
	logger interfaces.Logger
	now    func() time.Time
}

type pageJob struct {
	page     volume.Page
	nextSlug *string
	fileName string
}

func (s *service) Build(ctx context.Context, vol *volume.Volume, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if vol == nil {
		return nil, ErrVolumeRequired
	}

	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = strings.TrimSpace(s.cfg.OutputDir)
	}
	if outputDir == "" {
		return nil, ErrOutputDirRequired
	}

	start := s.now()
	logger := logging.WithVolumeContext(s.logger.WithContext(ctx), "", vol.Slug)

	sorted := OrderPages(vol.Pages)
	next := NextSlugs(sorted)
	jobs := make([]pageJob, len(sorted))
	for i, page := range sorted {
		name, err := pageFileName(page.Slug)
		if err != nil {
			return nil, &IOError{Op: opCreate, Path: page.Slug, Slug: page.Slug, Err: err}
		}
		if !slug.IsValid(page.Slug) {
			logger.Warn("generator.page.slug_not_normalized", "page_slug", page.Slug)
		}
		jobs[i] = pageJob{page: page, nextSlug: next[i], fileName: name}
	}

	volumeDoc, err := markdown.RenderVolumeMetadata(vol)
	if err != nil {
		return nil, err
	}
	documents, err := s.renderPages(ctx, jobs)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		OutputDir: outputDir,
		DryRun:    opts.DryRun,
		Rendered:  make([]RenderedPage, 0, len(jobs)),
	}

	writer := newArtifactWriter(opts.DryRun)
	if err := writer.EnsureDir(ctx, outputDir); err != nil {
		return nil, err
	}

	volumePath := joinOutputPath(outputDir, volumeFileName)
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:     volumePath,
		Content:  []byte(volumeDoc),
		Category: categoryVolume,
	}); err != nil {
		logger.Error("generator.volume.write_failed", "path", volumePath, "error", err)
		return nil, err
	}
	result.Volume = describe(volumePath, volumeDoc)

	for i, job := range jobs {
		path := joinOutputPath(outputDir, job.fileName)
		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:     path,
			Slug:     job.page.Slug,
			Content:  []byte(documents[i]),
			Category: categoryPage,
		}); err != nil {
			logging.WithPage(logger, job.page.Slug).Error("generator.page.write_failed", "path", path, "error", err)
			result.Duration = s.now().Sub(start)
			return result, fmt.Errorf("write page %s: %w", job.page.Slug, err)
		}

		result.Rendered = append(result.Rendered, RenderedPage{
			RenderedFile: describe(path, documents[i]),
			Slug:         job.page.Slug,
			Order:        job.page.Order,
			NextSlug:     job.nextSlug,
			Content:      documents[i],
		})
		result.PagesBuilt++
		logger.Debug("generator.page.written", "page_slug", job.page.Slug, "path", path, "dry_run", opts.DryRun)
	}

	result.Duration = s.now().Sub(start)
	logger.Info("generator.build.completed",
		"pages", result.PagesBuilt,
		"output_dir", outputDir,
		"dry_run", opts.DryRun,
		"duration", result.Duration,
	)
	return result, nil
}

// renderPages renders every job, concurrently when more than one worker is
// configured. Output keeps job order and the first failure cancels the rest.
func (s *service) renderPages(ctx context.Context, jobs []pageJob) ([]string, error) {
	documents := make([]string, len(jobs))
	workers := s.effectiveWorkerCount(len(jobs))

	if workers <= 1 {
		for i, job := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			doc, err := markdown.RenderPage(job.page, job.nextSlug)
			if err != nil {
				return nil, fmt.Errorf("render page %s: %w", job.page.Slug, err)
			}
			documents[i] = doc
		}
		return documents, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, job := range jobs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			doc, err := markdown.RenderPage(job.page, job.nextSlug)
			if err != nil {
				return fmt.Errorf("render page %s: %w", job.page.Slug, err)
			}
			documents[i] = doc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return documents, nil
}

func (s *service) effectiveWorkerCount(jobs int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > jobs {
		workers = jobs
	}
	return workers
}

func describe(path, content string) RenderedFile {
	sum := blake3.Sum256([]byte(content))
	return RenderedFile{
		Path:     path,
		Checksum: hex.EncodeToString(sum[:]),
		Bytes:    len(content),
	}
}
