package healthcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-textbook/internal/volume"
)

type stubIndex struct {
	slugs     []string
	err       error
	requested []string
}

func (s *stubIndex) ChunkSlugs(_ context.Context, volumeSlug string) ([]string, error) {
	s.requested = append(s.requested, volumeSlug)
	return s.slugs, s.err
}

func TestServiceCheckSavesReport(t *testing.T) {
	index := &stubIndex{slugs: []string{"intro", "body"}}
	var saved []*Report
	sink := SinkFunc(func(_ context.Context, report *Report) error {
		saved = append(saved, report)
		return nil
	})

	vol := &volume.Volume{Slug: "macro", Title: "Macro", Pages: pagesFixture()[:1]}
	report, err := NewService(index, sink, nil).Check(context.Background(), "7", vol)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.Passed() || report.VolumeID != "7" {
		t.Fatalf("unexpected report %#v", report)
	}
	if len(index.requested) != 1 || index.requested[0] != "macro" {
		t.Fatalf("expected slugs requested by volume slug, got %v", index.requested)
	}
	if len(saved) != 1 || saved[0] != report {
		t.Fatalf("expected report to be saved once")
	}
}

func TestServiceCheckIndexFailure(t *testing.T) {
	index := &stubIndex{err: errors.New("boom")}
	_, err := NewService(index, nil, nil).Check(context.Background(), "7", &volume.Volume{Slug: "macro"})
	if err == nil || err.Error() != "get embedding slugs: boom" {
		t.Fatalf("expected wrapped index error, got %v", err)
	}
}

func TestServiceCheckSinkFailureKeepsReport(t *testing.T) {
	index := &stubIndex{slugs: []string{}}
	sinkErr := errors.New("table missing")
	sink := SinkFunc(func(context.Context, *Report) error { return sinkErr })

	report, err := NewService(index, sink, nil).Check(context.Background(), "7", &volume.Volume{Slug: "macro", Pages: pagesFixture()})
	if !errors.Is(err, ErrReportNotSaved) || !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if report == nil || report.MissingChunksCount != 4 {
		t.Fatalf("expected report despite sink failure, got %#v", report)
	}
}

func TestServiceRequiresIndex(t *testing.T) {
	if _, err := NewService(nil, nil, nil).Check(context.Background(), "7", &volume.Volume{}); !errors.Is(err, ErrIndexRequired) {
		t.Fatalf("expected ErrIndexRequired, got %v", err)
	}
}
