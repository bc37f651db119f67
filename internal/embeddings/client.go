// Package embeddings reads which chunks have indexed embeddings from a
// Supabase (PostgREST) table.
package embeddings

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/internal/transport"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

// DefaultTable holds one row per embedded chunk.
const DefaultTable = "embeddings"

var (
	// ErrNotConfigured is returned when the URL or API key is missing.
	ErrNotConfigured = errors.New("embeddings: supabase url and api key are required")
	// ErrUnexpectedShape is returned when the response is not a JSON array.
	ErrUnexpectedShape = errors.New("embeddings: response is not an array")
)

// Config locates the embeddings table.
type Config struct {
	URL    string
	APIKey string
	Table  string
}

// Client implements interfaces.EmbeddingIndex.
type Client struct {
	cfg    Config
	http   *transport.Client
	logger interfaces.Logger
}

var _ interfaces.EmbeddingIndex = (*Client)(nil)

// NewClient constructs a Client.
func NewClient(cfg Config, httpClient *http.Client, logger interfaces.Logger) *Client {
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.Table) == "" {
		cfg.Table = DefaultTable
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Client{cfg: cfg, http: transport.New(httpClient), logger: logger}
}

// ChunkSlugs returns the chunk column of every row whose text column equals
// volumeSlug. Rows without a string chunk are skipped. Order follows the
// response and duplicates are kept.
func (c *Client) ChunkSlugs(ctx context.Context, volumeSlug string) ([]string, error) {
	if c.cfg.URL == "" || c.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	logger := c.logger.WithContext(ctx)

	query := url.Values{}
	query.Set("select", "chunk,text")
	query.Set("text", "eq."+volumeSlug)
	target := c.cfg.URL + "/rest/v1/" + url.PathEscape(c.cfg.Table) + "?" + query.Encode()

	raw, err := c.http.Do(ctx, transport.Request{
		Op:      "get embedding slugs",
		URL:     target,
		Headers: transport.SupabaseHeaders(c.cfg.APIKey),
	})
	if err != nil {
		logger.Error("embeddings.slugs.fetch_failed", "volume_slug", volumeSlug, "error", err)
		return nil, err
	}

	slugs, skipped, err := parseChunkRows(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("embeddings.slugs.fetched", "volume_slug", volumeSlug, "count", len(slugs), "skipped", skipped)
	return slugs, nil
}

func parseChunkRows(raw []byte) ([]string, int, error) {
	var decoded any
	if err := transport.DecodeJSON("get embedding slugs", raw, &decoded); err != nil {
		return nil, 0, err
	}
	rows, ok := decoded.([]any)
	if !ok {
		return nil, 0, ErrUnexpectedShape
	}

	slugs := make([]string, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		record, ok := row.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		chunk, ok := record["chunk"].(string)
		if !ok {
			skipped++
			continue
		}
		slugs = append(slugs, chunk)
	}
	return slugs, skipped, nil
}
