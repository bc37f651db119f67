package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
)

func renderSample(t *testing.T) []byte {
	t.Helper()
	rendered, err := RenderPage(samplePage(), nil)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	return []byte(rendered)
}

func TestPreviewWrapsChunksInSections(t *testing.T) {
	doc, err := ParseDocument(renderSample(t))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	out, err := NewPreviewer(PreviewOptions{}).RenderHTML(doc)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := string(out)

	if got := strings.Count(html, "<section "); got != 2 {
		t.Fatalf("expected 2 sections, got %d in %s", got, html)
	}
	if !strings.Contains(html, `<section class="content-chunk" data-chunk-slug="intro" aria-labelledby="intro">`) {
		t.Fatalf("expected intro section, got %s", html)
	}
	if !strings.Contains(html, `<section class="content-chunk" data-chunk-slug="body" aria-labelledby="body">`) {
		t.Fatalf("expected body section, got %s", html)
	}
	if !strings.Contains(html, `<i-question question="What?" answer="This."></i-question>`) {
		t.Fatalf("expected CRI element, got %s", html)
	}
	if strings.Count(html, "<i-question") != 1 {
		t.Fatalf("expected a single CRI element, got %s", html)
	}
	if !strings.Contains(html, `id="setup"`) {
		t.Fatalf("expected explicit sub-heading anchor, got %s", html)
	}
	if !strings.Contains(html, `class="sr-only"`) {
		t.Fatalf("expected hidden header class, got %s", html)
	}
	intro := strings.Index(html, `data-chunk-slug="intro"`)
	question := strings.Index(html, "<i-question")
	body := strings.Index(html, `data-chunk-slug="body"`)
	if !(intro < question && question < body) {
		t.Fatalf("expected CRI inside the intro section, got %s", html)
	}
}

func TestPreviewRequiresDocument(t *testing.T) {
	if _, err := NewPreviewer(PreviewOptions{}).RenderHTML(nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestLoaderReadsRenderedDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"macro/production.md":   {Data: renderSample(t)},
		"macro/volume.yaml":     {Data: []byte("title: Macro\n")},
		"macro/nested/extra.md": {Data: []byte("---\ntitle: Extra\nslug: extra\n---\n\nbody\n")},
	}

	loader := NewLoader(fsys, LoaderConfig{})
	docs, err := loader.LoadDirectory(context.Background(), "macro")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected only top level markdown documents, got %d", len(docs))
	}
	if docs[0].FilePath != "macro/production.md" || docs[0].FrontMatter.Slug != "production" {
		t.Fatalf("unexpected document %#v", docs[0])
	}
	if len(docs[0].Checksum) != 32 {
		t.Fatalf("expected 32 byte checksum, got %d", len(docs[0].Checksum))
	}

	recursive := NewLoader(fsys, LoaderConfig{Recursive: true})
	docs, err = recursive.LoadDirectory(context.Background(), "macro")
	if err != nil {
		t.Fatalf("LoadDirectory recursive: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected nested document, got %d", len(docs))
	}
}

func TestLoaderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{})
	if _, err := loader.LoadDirectory(ctx, "."); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
