package generator

import (
	"sort"

	"github.com/goliatone/go-textbook/internal/volume"
)

// OrderPages returns a copy of pages sorted by Order. Pages sharing an Order
// keep their source order.
func OrderPages(pages []volume.Page) []volume.Page {
	sorted := make([]volume.Page, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// NextSlugs returns, for each page of an already sorted list, the slug of the
// page that follows it. The last entry is nil.
func NextSlugs(sorted []volume.Page) []*string {
	next := make([]*string, len(sorted))
	for i := 0; i+1 < len(sorted); i++ {
		slug := sorted[i+1].Slug
		next[i] = &slug
	}
	return next
}
