package generator

import (
	"path/filepath"
	"strings"
)

const (
	volumeFileName = "volume.yaml"
	pageExtension  = ".md"
)

// pageFileName maps a page slug onto its document name. Slugs that would
// escape the output directory are rejected.
func pageFileName(slug string) (string, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" || trimmed != slug {
		return "", ErrUnsafeSlug
	}
	if strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") || filepath.IsAbs(slug) {
		return "", ErrUnsafeSlug
	}
	return slug + pageExtension, nil
}

func joinOutputPath(dir, name string) string {
	return filepath.Join(dir, name)
}
