package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// Document is a rendered page read back from disk.
type Document struct {
	FilePath     string
	FrontMatter  PageFrontMatter
	Body         []byte
	Checksum     []byte
	LastModified time.Time
}

// CRIBySlug indexes the document's constructed-response items by chunk slug.
func (d *Document) CRIBySlug() map[string]PageCRI {
	out := map[string]PageCRI{}
	if d == nil {
		return out
	}
	for _, item := range d.FrontMatter.CRI {
		out[item.Slug] = PageCRI{Question: item.Question, Answer: item.Answer}
	}
	return out
}

// ChunkSlugs returns the set of chunk anchors declared in the frontmatter.
func (d *Document) ChunkSlugs() map[string]struct{} {
	out := map[string]struct{}{}
	if d == nil {
		return out
	}
	for _, chunk := range d.FrontMatter.Chunks {
		out[chunk.Slug] = struct{}{}
	}
	return out
}

// PageCRI is a question and answer pair attached to a chunk section.
type PageCRI struct {
	Question string
	Answer   string
}

// ParseFrontMatter extracts page metadata and the Markdown body from source.
func ParseFrontMatter(source []byte) (PageFrontMatter, []byte, error) {
	var meta PageFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return PageFrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// ParseDocument decodes a rendered page document.
func ParseDocument(source []byte) (*Document, error) {
	return BuildDocument("", source, time.Time{})
}

// BuildDocument assembles a Document from the supplied path, raw content and
// modification time.
func BuildDocument(path string, source []byte, modified time.Time) (*Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	return &Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}
