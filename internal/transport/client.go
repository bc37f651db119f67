package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single request when the caller supplies no client.
	DefaultTimeout = 60 * time.Second

	maxBodyBytes      = 64 << 20
	maxErrorBodyBytes = 1024
)

// Request describes one JSON call.
type Request struct {
	Op      string
	Method  string
	URL     string
	Headers map[string]string
	// Body is encoded as JSON when set.
	Body any
}

// Client performs JSON requests over HTTP.
type Client struct {
	http *http.Client
}

// New wraps httpClient, falling back to a client with DefaultTimeout.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{http: httpClient}
}

// Do sends req and returns the raw response body of a 2xx reply. Any other
// outcome is a *TransportError.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	var body io.Reader
	if req.Body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req.Body); err != nil {
			return nil, opErr(req.Op, CodeEncodeFailed, "encode request", err)
		}
		body = &buf
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, opErr(req.Op, CodeRequestFailed, "build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyCallError(req.Op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Code: CodeDecodeFailed, Op: req.Op, StatusCode: resp.StatusCode, Message: "read response", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Code:       CodeStatus,
			Op:         req.Op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("http status=%d body=%q", resp.StatusCode, truncateBody(raw)),
		}
	}
	return raw, nil
}

// SupabaseHeaders returns the key authentication headers Supabase REST
// endpoints expect.
func SupabaseHeaders(apiKey string) map[string]string {
	return map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	}
}

// DecodeJSON unmarshals raw keeping numbers as json.Number.
func DecodeJSON(op string, raw []byte, out any) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return opErr(op, CodeDecodeFailed, "decode response", err)
	}
	return nil
}

func truncateBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}
