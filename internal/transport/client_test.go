package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(roundTrip func(*http.Request) (*http.Response, error)) *Client {
	return New(&http.Client{Transport: roundTripFunc(roundTrip)})
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestDoSendsHeadersAndBody(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("method: want=%s got=%s", http.MethodPost, r.Method)
		}
		if got := r.Header.Get("apikey"); got != "secret" {
			t.Fatalf("apikey header: got=%q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("content type: got=%q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload["data"] != "ok" {
			t.Fatalf("unexpected payload %v", payload)
		}
		return response(http.StatusCreated, ""), nil
	})

	_, err := client.Do(context.Background(), Request{
		Op:      "save",
		Method:  http.MethodPost,
		URL:     "http://example.test/rest/v1/log",
		Headers: map[string]string{"apikey": "secret"},
		Body:    map[string]any{"data": "ok"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestDoReportsStatus(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return response(http.StatusNotFound, `{"error":"missing"}`), nil
	})

	_, err := client.Do(context.Background(), Request{Op: "fetch volume", URL: "http://example.test/x"})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
	if terr.StatusCode != http.StatusNotFound || terr.Code != CodeStatus {
		t.Fatalf("unexpected error %#v", terr)
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected IsStatus to match")
	}
	if !strings.Contains(err.Error(), "fetch volume failed") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestDoWrapsNetworkFailure(t *testing.T) {
	cause := errors.New("connection refused")
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return nil, cause
	})

	_, err := client.Do(context.Background(), Request{Op: "fetch", URL: "http://example.test/x"})
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Code != CodeRequestFailed || terr.StatusCode != 0 {
		t.Fatalf("expected request failure, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
}

func TestDoClassifiesTimeout(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})

	_, err := client.Do(context.Background(), Request{Op: "fetch", URL: "http://example.test/x"})
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Code != CodeTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestDecodeJSONKeepsNumbers(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON("decode", []byte(`{"id": 12345678901234567890}`), &out); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if _, ok := out["id"].(json.Number); !ok {
		t.Fatalf("expected json.Number, got %T", out["id"])
	}

	err := DecodeJSON("decode", []byte("<html>"), &out)
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Code != CodeDecodeFailed {
		t.Fatalf("expected decode failure, got %v", err)
	}
}

func TestTruncateBody(t *testing.T) {
	long := bytes.Repeat([]byte("a"), maxErrorBodyBytes+10)
	if got := truncateBody(long); len(got) != maxErrorBodyBytes+3 {
		t.Fatalf("expected truncated body, got length %d", len(got))
	}
}
