package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-textbook/internal/volume"
)

// Decode reads a raw CMS volume response and parses it into a Volume.
func Decode(r io.Reader) (*volume.Volume, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ingest: decode volume response: %w", err)
	}
	return Parse(raw)
}

// Parse normalises a decoded CMS volume response. Numbers should be decoded
// with json.Decoder.UseNumber so large integers survive coercion. The first
// invalid field aborts parsing and no partial volume is returned.
func Parse(raw any) (*volume.Volume, error) {
	if err := CheckEnvelope(raw); err != nil {
		return nil, err
	}
	envelope, _ := raw.(map[string]any)
	data, ok := GetObject(envelope, "data")
	if !ok {
		return nil, invalid("volume response", "data", "no data in volume response")
	}

	rawPages, ok := GetArray(data, "Pages")
	if !ok {
		return nil, invalid("volume response", "Pages", "no pages in volume response")
	}

	title, ok := GetString(data, "Title")
	if !ok {
		return nil, missing("volume", "Title")
	}
	description, ok := GetString(data, "Description")
	if !ok {
		return nil, missing("volume", "Description")
	}
	slug, ok := GetString(data, "Slug")
	if !ok {
		return nil, missing("volume", "Slug")
	}

	vol := &volume.Volume{
		Title:       title,
		Description: description,
		Slug:        slug,
		FreePages:   splitFreePages(GetStringOr(data, "FreePages", "")),
	}
	if summary, ok := GetString(data, "VolumeSummary"); ok {
		vol.Summary = &summary
	}

	pages, err := parsePages(rawPages)
	if err != nil {
		return nil, fmt.Errorf("collect pages: %w", err)
	}
	vol.Pages = pages
	return vol, nil
}

func parsePages(rawPages []any) ([]volume.Page, error) {
	pages := make([]volume.Page, 0, len(rawPages))
	seen := make(map[string]string, len(rawPages))
	for index, item := range rawPages {
		obj, _ := item.(map[string]any)
		page, err := parsePage(index, obj)
		if err != nil {
			return nil, err
		}
		if previous, exists := seen[page.Slug]; exists {
			return nil, invalid(pageEntity(page.Title), "Slug",
				fmt.Sprintf("slug %q is already used by page '%s'", page.Slug, previous))
		}
		seen[page.Slug] = page.Title
		pages = append(pages, page)
	}
	return pages, nil
}

func splitFreePages(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
