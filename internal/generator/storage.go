package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	opEnsureDir = "ensure_dir"
	opCreate    = "create"
	opWrite     = "write"
	opRemove    = "remove"
)

type writeCategory string

const (
	categoryPage   writeCategory = "page"
	categoryVolume writeCategory = "volume"
)

// writeFileRequest describes one document handed to the artifact writer.
type writeFileRequest struct {
	Path     string
	Slug     string
	Content  []byte
	Category writeCategory
}

// artifactWriter abstracts where generator outputs go.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
}

func newArtifactWriter(dryRun bool) artifactWriter {
	if dryRun {
		return noopWriter{}
	}
	return fsWriter{}
}

// fsWriter creates files exclusively: an existing file is an error, never
// overwritten.
type fsWriter struct{}

func (fsWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &IOError{Op: opEnsureDir, Path: path, Err: err}
	}
	return nil
}

func (fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return &IOError{Op: opCreate, Slug: req.Slug, Err: errors.New("write requires path")}
	}

	file, err := os.OpenFile(req.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &IOError{Op: opCreate, Path: req.Path, Slug: req.Slug, Err: err}
	}
	if _, err := file.Write(req.Content); err != nil {
		file.Close()
		return &IOError{Op: opWrite, Path: req.Path, Slug: req.Slug, Err: err}
	}
	if err := file.Close(); err != nil {
		return &IOError{Op: opWrite, Path: req.Path, Slug: req.Slug, Err: err}
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }

// PrepareOutputDir makes dir ready for a build. With clean set an existing
// directory is removed first so exclusive file creation can succeed.
func PrepareOutputDir(dir string, clean bool) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ErrOutputDirRequired
	}
	if clean {
		if abs, err := filepath.Abs(dir); err == nil && filepath.Dir(abs) == abs {
			return &IOError{Op: opRemove, Path: dir, Err: errors.New("refusing to remove filesystem root")}
		}
		if err := os.RemoveAll(dir); err != nil {
			return &IOError{Op: opRemove, Path: dir, Err: err}
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: opEnsureDir, Path: dir, Err: err}
	}
	return nil
}
