package healthcheck

import "github.com/goliatone/go-textbook/internal/volume"

// VolumeRef identifies the volume a report was computed for.
type VolumeRef struct {
	ID    string
	Slug  string
	Title string
}

// Report is the outcome of reconciling a volume's chunks against the slugs
// that have indexed embeddings.
type Report struct {
	VolumeID            string       `json:"volume_id"`
	VolumeSlug          string       `json:"volume_slug"`
	VolumeTitle         string       `json:"volume_title"`
	TotalChunks         int          `json:"total_chunks"`
	ExistingChunksCount int          `json:"existing_chunks_count"`
	MissingChunksCount  int          `json:"missing_chunks_count"`
	Pages               []PageReport `json:"pages"`
}

// PageReport partitions one page's chunk slugs, in chunk order.
type PageReport struct {
	PageSlug       string   `json:"page_slug"`
	PageTitle      string   `json:"page_title"`
	ExistingChunks []string `json:"existing_chunks"`
	MissingChunks  []string `json:"missing_chunks"`
}

// Passed reports whether every chunk has an indexed embedding.
func (r *Report) Passed() bool {
	return r != nil && r.MissingChunksCount == 0
}

// PagesWithMissing returns the page reports that have at least one missing chunk.
func (r *Report) PagesWithMissing() []PageReport {
	if r == nil {
		return nil
	}
	out := []PageReport{}
	for _, page := range r.Pages {
		if len(page.MissingChunks) > 0 {
			out = append(out, page)
		}
	}
	return out
}

// Reconcile checks every chunk of every page, regardless of chunk type,
// against embeddingSlugs. Duplicate slugs in embeddingSlugs collapse. A chunk
// slug used on several pages is counted on each of them.
func Reconcile(meta VolumeRef, pages []volume.Page, embeddingSlugs []string) *Report {
	indexed := make(map[string]struct{}, len(embeddingSlugs))
	for _, slug := range embeddingSlugs {
		indexed[slug] = struct{}{}
	}

	report := &Report{
		VolumeID:    meta.ID,
		VolumeSlug:  meta.Slug,
		VolumeTitle: meta.Title,
		Pages:       make([]PageReport, 0, len(pages)),
	}
	for _, page := range pages {
		pageReport := PageReport{
			PageSlug:       page.Slug,
			PageTitle:      page.Title,
			ExistingChunks: []string{},
			MissingChunks:  []string{},
		}
		for _, chunk := range page.Chunks {
			if _, ok := indexed[chunk.Slug]; ok {
				pageReport.ExistingChunks = append(pageReport.ExistingChunks, chunk.Slug)
				report.ExistingChunksCount++
			} else {
				pageReport.MissingChunks = append(pageReport.MissingChunks, chunk.Slug)
				report.MissingChunksCount++
			}
		}
		report.Pages = append(report.Pages, pageReport)
	}
	report.TotalChunks = report.ExistingChunksCount + report.MissingChunksCount
	return report
}

// ReconcileVolume is Reconcile for a whole volume.
func ReconcileVolume(volumeID string, vol *volume.Volume, embeddingSlugs []string) *Report {
	if vol == nil {
		return Reconcile(VolumeRef{ID: volumeID}, nil, embeddingSlugs)
	}
	return Reconcile(VolumeRef{ID: volumeID, Slug: vol.Slug, Title: vol.Title}, vol.Pages, embeddingSlugs)
}
