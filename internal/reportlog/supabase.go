package reportlog

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-textbook/internal/healthcheck"
	"github.com/goliatone/go-textbook/internal/transport"
)

// DefaultSupabaseTable is the log table reports are appended to.
const DefaultSupabaseTable = "log_rs"

// ErrSupabaseNotConfigured is returned when the URL or API key is missing.
var ErrSupabaseNotConfigured = errors.New("reportlog: supabase url and api key are required")

// SupabaseConfig locates the log table.
type SupabaseConfig struct {
	URL    string
	APIKey string
	Table  string
}

// SupabaseSink inserts each report as a row whose data column holds the
// report JSON.
type SupabaseSink struct {
	cfg  SupabaseConfig
	http *transport.Client
}

var _ healthcheck.Sink = (*SupabaseSink)(nil)

// NewSupabaseSink constructs a SupabaseSink.
func NewSupabaseSink(cfg SupabaseConfig, httpClient *http.Client) *SupabaseSink {
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.Table) == "" {
		cfg.Table = DefaultSupabaseTable
	}
	return &SupabaseSink{cfg: cfg, http: transport.New(httpClient)}
}

// Save posts {"data": report}.
func (s *SupabaseSink) Save(ctx context.Context, report *healthcheck.Report) error {
	if report == nil {
		return ErrReportRequired
	}
	if s.cfg.URL == "" || s.cfg.APIKey == "" {
		return ErrSupabaseNotConfigured
	}
	headers := transport.SupabaseHeaders(s.cfg.APIKey)
	headers["Prefer"] = "return=minimal"

	_, err := s.http.Do(ctx, transport.Request{
		Op:      "save health check report",
		Method:  http.MethodPost,
		URL:     s.cfg.URL + "/rest/v1/" + url.PathEscape(s.cfg.Table),
		Headers: headers,
		Body:    map[string]any{"data": report},
	})
	return err
}
