package markdown

import (
	"testing"
)

func TestGithubSlug(t *testing.T) {
	cases := map[string]string{
		"Hello World":  "hello-world",
		"What's new?":  "whats-new",
		"C++ & Go":     "c--go",
		"Größe":        "größe",
		"snake_case":   "snake_case",
		"  padded":     "--padded",
		"Version 2.0":  "version-20",
		"already-slug": "already-slug",
		"Area in m²":   "area-in-m",
		"Half ½ step":  "half--step",
		"Chapter Ⅳ":    "chapter-ⅳ",
	}
	for input, want := range cases {
		if got := GithubSlug(input); got != want {
			t.Fatalf("GithubSlug(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestSluggerDeduplicates(t *testing.T) {
	slugger := NewSlugger()
	got := []string{
		slugger.Slug("Setup"),
		slugger.Slug("Setup"),
		slugger.Slug("setup-1"),
		slugger.Slug("Setup"),
	}
	want := []string{"setup", "setup-1", "setup-1-1", "setup-2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	slugger.Reset()
	if slug := slugger.Slug("Setup"); slug != "setup" {
		t.Fatalf("expected reset slugger to issue setup, got %q", slug)
	}
}

func TestTransformContentAnchorsLevelThreeHeadings(t *testing.T) {
	content := "Intro text\n\n### First Step\n\nBody\n\n## Not touched\n\n#### Nor this\n\n### First Step"
	out, headings := TransformContent(content, NewSlugger())

	want := "Intro text\n\n### First Step {#first-step}\n\nBody\n\n## Not touched\n\n#### Nor this\n\n### First Step {#first-step-1}"
	if out != want {
		t.Fatalf("unexpected transform:\n%q\nwant\n%q", out, want)
	}
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %#v", headings)
	}
	if headings[0].Level != 3 || headings[0].Slug != "first-step" || headings[0].Title != "First Step" {
		t.Fatalf("unexpected first heading %#v", headings[0])
	}
	if headings[1].Slug != "first-step-1" {
		t.Fatalf("expected de-duplicated slug, got %q", headings[1].Slug)
	}
}

func TestTransformContentWithoutHeadings(t *testing.T) {
	out, headings := TransformContent("plain text\n###not a heading", nil)
	if out != "plain text\n###not a heading" {
		t.Fatalf("expected content unchanged, got %q", out)
	}
	if headings == nil || len(headings) != 0 {
		t.Fatalf("expected empty heading list, got %#v", headings)
	}
}
