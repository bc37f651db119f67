package volume

import "testing"

func TestVolumeChunkSlugsKeepsPageOrder(t *testing.T) {
	vol := &Volume{
		Pages: []Page{
			{Slug: "one", Chunks: []Chunk{{Slug: "intro"}, {Slug: "body"}}},
			{Slug: "two", Chunks: []Chunk{{Slug: "intro"}}},
		},
	}

	if got := vol.ChunkCount(); got != 3 {
		t.Fatalf("expected 3 chunks, got %d", got)
	}
	slugs := vol.ChunkSlugs()
	want := []string{"intro", "body", "intro"}
	if len(slugs) != len(want) {
		t.Fatalf("expected %v, got %v", want, slugs)
	}
	for i := range want {
		if slugs[i] != want[i] {
			t.Fatalf("slug %d: expected %q, got %q", i, want[i], slugs[i])
		}
	}
}

func TestNilVolumeHelpers(t *testing.T) {
	var vol *Volume
	if vol.ChunkCount() != 0 {
		t.Fatal("expected zero chunks for nil volume")
	}
	if vol.ChunkSlugs() != nil {
		t.Fatal("expected nil slugs for nil volume")
	}
}

func TestPageHasQuiz(t *testing.T) {
	if (Page{}).HasQuiz() {
		t.Fatal("expected page without quiz")
	}
	page := Page{Quiz: []QuizItem{{Question: "q", Answers: []QuizAnswer{{Answer: "a", Correct: true}}}}}
	if !page.HasQuiz() {
		t.Fatal("expected page with quiz")
	}
}
