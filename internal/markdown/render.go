package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-textbook/internal/volume"
)

const hiddenHeaderClass = ".sr-only"

// ChunkMeta is the per-chunk entry of a page's frontmatter.
type ChunkMeta struct {
	Title    string           `yaml:"title"`
	Slug     string           `yaml:"slug"`
	Type     volume.ChunkType `yaml:"type"`
	Headings []volume.Heading `yaml:"headings,omitempty"`
}

// PageFrontMatter is the metadata block written at the top of every page
// document. Field order is the serialised key order.
type PageFrontMatter struct {
	Title       string                  `yaml:"title"`
	Slug        string                  `yaml:"slug"`
	NextSlug    *string                 `yaml:"next_slug"`
	Order       int                     `yaml:"order"`
	Assignments []string                `yaml:"assignments"`
	Parent      *volume.Parent          `yaml:"parent"`
	Quiz        []volume.QuizItem       `yaml:"quiz"`
	CRI         []volume.QuestionAnswer `yaml:"cri"`
	Chunks      []ChunkMeta             `yaml:"chunks"`
}

// MarshalYAML writes a missing quiz as null rather than an empty list.
func (fm PageFrontMatter) MarshalYAML() (any, error) {
	var quiz *[]volume.QuizItem
	if fm.Quiz != nil {
		quiz = &fm.Quiz
	}
	return struct {
		Title       string                  `yaml:"title"`
		Slug        string                  `yaml:"slug"`
		NextSlug    *string                 `yaml:"next_slug"`
		Order       int                     `yaml:"order"`
		Assignments []string                `yaml:"assignments"`
		Parent      *volume.Parent          `yaml:"parent"`
		Quiz        *[]volume.QuizItem      `yaml:"quiz"`
		CRI         []volume.QuestionAnswer `yaml:"cri"`
		Chunks      []ChunkMeta             `yaml:"chunks"`
	}{
		Title:       fm.Title,
		Slug:        fm.Slug,
		NextSlug:    fm.NextSlug,
		Order:       fm.Order,
		Assignments: nonNil(fm.Assignments),
		Parent:      fm.Parent,
		Quiz:        quiz,
		CRI:         nonNil(fm.CRI),
		Chunks:      nonNil(fm.Chunks),
	}, nil
}

// VolumeMetadata is the content of volume.yaml.
type VolumeMetadata struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	FreePages   []string `yaml:"free_pages"`
	Summary     *string  `yaml:"summary"`
}

// RenderPage produces the Markdown document for page. nextSlug is the slug of
// the page that follows it in reading order, nil for the last page. Sub-heading
// anchors are unique across the whole page.
func RenderPage(page volume.Page, nextSlug *string) (string, error) {
	fm, body := buildPage(page, nextSlug)

	header, err := encodeYAML(fm)
	if err != nil {
		return "", fmt.Errorf("markdown: encode frontmatter for page %q: %w", page.Slug, err)
	}

	var doc strings.Builder
	doc.Grow(len(header) + len(body) + 8)
	doc.WriteString("---\n")
	doc.WriteString(header)
	doc.WriteString("---\n\n")
	doc.WriteString(body)
	return doc.String(), nil
}

// FrontMatterFor returns the frontmatter RenderPage would write for page.
func FrontMatterFor(page volume.Page, nextSlug *string) PageFrontMatter {
	fm, _ := buildPage(page, nextSlug)
	return fm
}

func buildPage(page volume.Page, nextSlug *string) (PageFrontMatter, string) {
	slugger := NewSlugger()
	cri := []volume.QuestionAnswer{}
	chunks := make([]ChunkMeta, 0, len(page.Chunks))

	var body strings.Builder
	body.Grow(800 * len(page.Chunks))
	for _, chunk := range page.Chunks {
		if chunk.CRI != nil {
			cri = append(cri, *chunk.CRI)
		}

		content, headings := TransformContent(chunk.Content, slugger)
		meta := ChunkMeta{Title: chunk.Title, Slug: chunk.Slug, Type: chunk.Type}
		if len(headings) > 0 {
			meta.Headings = headings
		}
		chunks = append(chunks, meta)

		body.WriteString(chunkHeading(chunk))
		body.WriteString(" \n\n")
		body.WriteString(content)
		body.WriteString("\n\n")
	}

	fm := PageFrontMatter{
		Title:       page.Title,
		Slug:        page.Slug,
		NextSlug:    nextSlug,
		Order:       page.Order,
		Assignments: nonNil(page.Assignments),
		Parent:      page.Parent,
		Quiz:        page.Quiz,
		CRI:         cri,
		Chunks:      chunks,
	}
	return fm, body.String()
}

func chunkHeading(chunk volume.Chunk) string {
	depth := chunk.Depth
	if depth < 1 {
		depth = 2
	}
	class := ""
	if !chunk.ShowHeader {
		class = " " + hiddenHeaderClass
	}
	return fmt.Sprintf("%s %s {#%s%s}", strings.Repeat("#", depth), chunk.Title, chunk.Slug, class)
}

// RenderVolumeMetadata produces the volume.yaml document.
func RenderVolumeMetadata(vol *volume.Volume) (string, error) {
	if vol == nil {
		return "", fmt.Errorf("markdown: volume is required")
	}
	out, err := encodeYAML(VolumeMetadata{
		Title:       vol.Title,
		Slug:        vol.Slug,
		Description: vol.Description,
		FreePages:   nonNil(vol.FreePages),
		Summary:     vol.Summary,
	})
	if err != nil {
		return "", fmt.Errorf("markdown: encode volume metadata: %w", err)
	}
	return out, nil
}

func encodeYAML(value any) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return "", err
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
