package interfaces

import "context"

// VolumeSource fetches the raw CMS response for a volume. The result is the
// decoded JSON document, with numbers kept as json.Number.
type VolumeSource interface {
	FetchVolume(ctx context.Context, volumeID string) (map[string]any, error)
}

// EmbeddingIndex lists the chunk slugs that have indexed embeddings for a
// volume.
type EmbeddingIndex interface {
	ChunkSlugs(ctx context.Context, volumeSlug string) ([]string, error)
}
