package ingest

import (
	"sort"

	"github.com/goliatone/go-textbook/internal/volume"
)

// DuplicateChunkSlug describes a chunk slug used by more than one page.
type DuplicateChunkSlug struct {
	Slug  string
	Pages []string
}

// DuplicateChunkSlugs lists chunk slugs that appear on more than one page,
// sorted by slug. Pages are listed by slug in volume order.
func DuplicateChunkSlugs(vol *volume.Volume) []DuplicateChunkSlug {
	if vol == nil {
		return nil
	}
	owners := map[string][]string{}
	for _, page := range vol.Pages {
		for _, chunk := range page.Chunks {
			owners[chunk.Slug] = append(owners[chunk.Slug], page.Slug)
		}
	}

	var out []DuplicateChunkSlug
	for slug, pages := range owners {
		if len(pages) < 2 {
			continue
		}
		out = append(out, DuplicateChunkSlug{Slug: slug, Pages: pages})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
