// Package strapi fetches textbook volumes from the Strapi content API.
package strapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/internal/transport"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

const (
	// DefaultBaseURL is the texts collection endpoint of the hosted CMS.
	DefaultBaseURL = "https://itell-strapi-um5h.onrender.com/api/texts/"

	// DefaultQuery populates pages with their content, chapter title and slug,
	// and quiz questions. Pages are sorted by creation time.
	DefaultQuery = "?populate%5BPages%5D%5Bfields%5D%5B0%5D=%2A" +
		"&populate%5BPages%5D%5Bsort%5D=createdAt" +
		"&populate%5BPages%5D%5Bpopulate%5D%5BContent%5D=true" +
		"&populate%5BPages%5D%5Bpopulate%5D%5BChapter%5D%5Bfields%5D%5B0%5D=Title" +
		"&populate%5BPages%5D%5Bpopulate%5D%5BChapter%5D%5Bfields%5D%5B1%5D=Slug" +
		"&populate%5BPages%5D%5Bpopulate%5D%5BQuiz%5D%5Bpopulate%5D%5BQuestions%5D%5Bpopulate%5D=%2A"
)

// ErrVolumeIDRequired is returned when FetchVolume receives a blank id.
var ErrVolumeIDRequired = errors.New("strapi: volume id is required")

// Config configures the CMS client.
type Config struct {
	BaseURL string
	Query   string
	// Token is sent as a bearer token when set.
	Token string
}

// Client implements interfaces.VolumeSource.
type Client struct {
	baseURL string
	query   string
	token   string
	http    *transport.Client
	logger  interfaces.Logger
}

var _ interfaces.VolumeSource = (*Client)(nil)

// NewClient constructs a Client. Empty config fields fall back to the
// defaults and a nil httpClient uses transport.DefaultTimeout.
func NewClient(cfg Config, httpClient *http.Client, logger interfaces.Logger) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	query := cfg.Query
	if query == "" {
		query = DefaultQuery
	}
	if query != "" && !strings.HasPrefix(query, "?") {
		query = "?" + query
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Client{
		baseURL: base,
		query:   query,
		token:   strings.TrimSpace(cfg.Token),
		http:    transport.New(httpClient),
		logger:  logger,
	}
}

// URL returns the request URL for volumeID.
func (c *Client) URL(volumeID string) string {
	return c.baseURL + url.PathEscape(volumeID) + c.query
}

// FetchVolume downloads the raw volume document. Numbers in the result are
// json.Number values. Failures are *transport.TransportError and are not
// retried.
func (c *Client) FetchVolume(ctx context.Context, volumeID string) (map[string]any, error) {
	volumeID = strings.TrimSpace(volumeID)
	if volumeID == "" {
		return nil, ErrVolumeIDRequired
	}
	logger := c.logger.WithContext(ctx)

	headers := map[string]string{}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}
	target := c.URL(volumeID)
	logger.Debug("strapi.volume.fetching", "volume_id", volumeID, "url", c.baseURL+volumeID)

	raw, err := c.http.Do(ctx, transport.Request{
		Op:      "fetch volume",
		URL:     target,
		Headers: headers,
	})
	if err != nil {
		logger.Error("strapi.volume.fetch_failed", "volume_id", volumeID, "error", err)
		return nil, err
	}

	var document map[string]any
	if err := transport.DecodeJSON("fetch volume", raw, &document); err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("strapi: volume %s: empty response", volumeID)
	}
	logger.Debug("strapi.volume.fetched", "volume_id", volumeID, "bytes", len(raw))
	return document, nil
}
