package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrVolumeRequired is returned when Build is called without a volume.
	ErrVolumeRequired = errors.New("generator: volume is required")
	// ErrOutputDirRequired is returned when no output directory is configured.
	ErrOutputDirRequired = errors.New("generator: output directory is required")
	// ErrUnsafeSlug marks a page slug that cannot be used as a file name.
	ErrUnsafeSlug = errors.New("generator: page slug is not a safe file name")
)

// IOError reports a document that could not be created or written. Slug is
// empty for volume level files.
type IOError struct {
	Op   string
	Path string
	Slug string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "generator: io error"
	}
	if e.Slug != "" {
		return fmt.Sprintf("generator: %s page %s (%s): %v", e.Op, e.Slug, e.Path, e.Err)
	}
	return fmt.Sprintf("generator: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
