package ingest

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-textbook/internal/volume"
)

// bodyFields lists the chunk body keys in lookup order; MDX is the legacy name.
var bodyFields = []string{"MD", "content-text", "MDX"}

func parseChunks(obj Object, pageTitle string) ([]volume.Chunk, error) {
	content, ok := GetArray(obj, "Content")
	if !ok {
		return []volume.Chunk{}, nil
	}

	chunks := make([]volume.Chunk, 0, len(content))
	seen := make(map[string]int, len(content))
	for index, item := range content {
		raw, _ := item.(map[string]any)

		var (
			chunk volume.Chunk
			err   error
		)
		switch chunkType := classifyComponent(GetStringOr(raw, "__component", "")); chunkType {
		case volume.ChunkVideo:
			chunk, err = parseVideo(raw, pageTitle)
		default:
			chunk, err = parseTextChunk(raw, index, pageTitle, chunkType)
		}
		if err != nil {
			return nil, err
		}

		if previous, exists := seen[chunk.Slug]; exists {
			return nil, invalid(fmt.Sprintf("chunk '%d' in page '%s'", index, pageTitle), "Slug",
				fmt.Sprintf("slug %q duplicates chunk '%d'", chunk.Slug, previous))
		}
		seen[chunk.Slug] = index
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// classifyComponent maps the CMS component tag onto a chunk variant. Unknown
// and absent tags are regular chunks.
func classifyComponent(component string) volume.ChunkType {
	tag := strings.ToLower(strings.TrimSpace(component))
	if idx := strings.LastIndex(tag, "."); idx >= 0 {
		tag = tag[idx+1:]
	}
	switch tag {
	case "video":
		return volume.ChunkVideo
	case "plain-chunk", "plain":
		return volume.ChunkPlain
	default:
		return volume.ChunkRegular
	}
}

func parseTextChunk(raw Object, index int, pageTitle string, chunkType volume.ChunkType) (volume.Chunk, error) {
	entity := fmt.Sprintf("chunk '%d' in page '%s'", index, pageTitle)

	title, ok := GetString(raw, "Header")
	if !ok {
		return volume.Chunk{}, missing(entity, "Header")
	}
	slug, ok := GetString(raw, "Slug")
	if !ok {
		return volume.Chunk{}, missing(entity, "Slug")
	}
	body, ok := firstString(raw, bodyFields...)
	if !ok {
		return volume.Chunk{}, missing(entity, bodyFields[0])
	}

	return volume.Chunk{
		Title:      title,
		Slug:       slug,
		Depth:      headerDepth(GetStringOr(raw, "HeaderLevel", "")),
		Content:    body,
		CRI:        parseCRI(raw, slug),
		ShowHeader: GetBoolOr(raw, "ShowHeader", false),
		Type:       chunkType,
	}, nil
}

func parseVideo(raw Object, pageTitle string) (volume.Chunk, error) {
	title, ok := GetString(raw, "Header")
	if !ok {
		return volume.Chunk{}, missing(fmt.Sprintf("video chunk in page '%s'", pageTitle), "Header")
	}
	url, ok := GetString(raw, "URL")
	if !ok {
		return volume.Chunk{}, missing(fmt.Sprintf("video chunk in page '%s'", pageTitle), "URL")
	}
	slug, ok := GetString(raw, "Slug")
	if !ok {
		return volume.Chunk{}, missing(fmt.Sprintf("video chunk '%s' in page '%s'", title, pageTitle), "Slug")
	}

	description := GetStringOr(raw, "Description", "")
	return volume.Chunk{
		Title:      title,
		Slug:       slug,
		Depth:      2,
		Content:    VideoEmbed(description, VideoID(url)),
		CRI:        parseCRI(raw, slug),
		ShowHeader: true,
		Type:       volume.ChunkVideo,
	}, nil
}

// VideoID extracts the first "v=" query value from a video URL, or "" when the
// URL carries none.
func VideoID(url string) string {
	_, after, found := strings.Cut(url, "v=")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "&")
	return id
}

// VideoEmbed renders the body of a video chunk.
func VideoEmbed(description, videoID string) string {
	return fmt.Sprintf("%s\n\n<i-youtube videoid=\"%s\" height={400} width=\"100%%\" >\n\n</i-youtube>\n\n", description, videoID)
}

// parseCRI returns a constructed-response item only when both the question and
// the answer are present.
func parseCRI(raw Object, slug string) *volume.QuestionAnswer {
	question, hasQuestion := GetString(raw, "Question")
	answer, hasAnswer := GetString(raw, "ConstructedResponse")
	if !hasQuestion || !hasAnswer {
		return nil
	}
	return &volume.QuestionAnswer{
		Question: question,
		Answer:   answer,
		Slug:     slug,
	}
}

func headerDepth(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "h3":
		return 3
	case "h4":
		return 4
	default:
		return 2
	}
}

func firstString(obj Object, keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := GetString(obj, key); ok {
			return value, true
		}
	}
	return "", false
}
