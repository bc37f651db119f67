package embeddings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/goliatone/go-textbook/internal/transport"
)

func TestChunkSlugsQueriesByVolumeSlug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/embeddings" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("select"); got != "chunk,text" {
			t.Fatalf("unexpected select %q", got)
		}
		if got := r.URL.Query().Get("text"); got != "eq.macro-econ" {
			t.Fatalf("unexpected filter %q", got)
		}
		if r.Header.Get("apikey") != "key" || r.Header.Get("Authorization") != "Bearer key" {
			t.Fatalf("missing auth headers: %v", r.Header)
		}
		_, _ = w.Write([]byte(`[
			{"chunk": "intro", "text": "macro-econ"},
			{"chunk": 42, "text": "macro-econ"},
			{"text": "macro-econ"},
			"garbage",
			{"chunk": "body", "text": "macro-econ"},
			{"chunk": "intro", "text": "macro-econ"}
		]`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL + "/", APIKey: "key"}, server.Client(), nil)
	slugs, err := client.ChunkSlugs(context.Background(), "macro-econ")
	if err != nil {
		t.Fatalf("ChunkSlugs: %v", err)
	}
	want := []string{"intro", "body", "intro"}
	if !reflect.DeepEqual(slugs, want) {
		t.Fatalf("expected %v, got %v", want, slugs)
	}
}

func TestChunkSlugsCustomTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/chunk_vectors" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	slugs, err := NewClient(Config{URL: server.URL, APIKey: "key", Table: "chunk_vectors"}, server.Client(), nil).
		ChunkSlugs(context.Background(), "v")
	if err != nil {
		t.Fatalf("ChunkSlugs: %v", err)
	}
	if slugs == nil || len(slugs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", slugs)
	}
}

func TestChunkSlugsRejectsObjectResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"permission denied"}`))
	}))
	defer server.Close()

	_, err := NewClient(Config{URL: server.URL, APIKey: "key"}, server.Client(), nil).ChunkSlugs(context.Background(), "v")
	if !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("expected ErrUnexpectedShape, got %v", err)
	}
}

func TestChunkSlugsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewClient(Config{URL: server.URL, APIKey: "bad"}, server.Client(), nil).ChunkSlugs(context.Background(), "v")
	if !transport.IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 transport error, got %v", err)
	}
}

func TestChunkSlugsRequiresConfig(t *testing.T) {
	_, err := NewClient(Config{URL: "http://x"}, nil, nil).ChunkSlugs(context.Background(), "v")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
