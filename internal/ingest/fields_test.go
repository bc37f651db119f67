package ingest

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"
)

func TestGetIntCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
		ok    bool
	}{
		{name: "json integer", value: json.Number("7"), want: 7, ok: true},
		{name: "integral float", value: float64(3), want: 3, ok: true},
		{name: "numeric string", value: " 12 ", want: 12, ok: true},
		{name: "max int", value: json.Number(strconv.Itoa(math.MaxInt)), want: math.MaxInt, ok: true},
		{name: "fractional number", value: json.Number("1.5"), ok: false},
		{name: "fractional float", value: 1.5, ok: false},
		{name: "fractional string", value: "1.5", ok: false},
		{name: "exponent past int range", value: json.Number("1e30"), ok: false},
		{name: "one past max int", value: json.Number("9223372036854775808"), ok: false},
		{name: "large negative float", value: -1e30, ok: false},
		{name: "boolean", value: true, ok: false},
		{name: "null", value: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetInt(Object{"n": tt.value}, "n")
			if ok != tt.ok || got != tt.want {
				t.Fatalf("GetInt(%v) = (%d, %v), want (%d, %v)", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestGetBoolCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
		ok    bool
	}{
		{name: "true", value: true, want: true, ok: true},
		{name: "false", value: false, want: false, ok: true},
		{name: "upper case string", value: "TRUE", want: true, ok: true},
		{name: "padded string", value: " false ", want: false, ok: true},
		{name: "one", value: json.Number("1"), ok: false},
		{name: "zero float", value: float64(0), ok: false},
		{name: "yes", value: "yes", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetBool(Object{"b": tt.value}, "b")
			if ok != tt.ok || got != tt.want {
				t.Fatalf("GetBool(%v) = (%v, %v), want (%v, %v)", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestGetStringCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		ok    bool
	}{
		{name: "string", value: "abc", want: "abc", ok: true},
		{name: "integer", value: json.Number("41"), want: "41", ok: true},
		{name: "integral decimal", value: json.Number("1.0"), want: "1", ok: true},
		{name: "integral float", value: float64(1), want: "1", ok: true},
		{name: "fraction", value: 2.5, want: "2.5", ok: true},
		{name: "boolean", value: false, want: "false", ok: true},
		{name: "object", value: map[string]any{}, ok: false},
		{name: "null", value: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetString(Object{"s": tt.value}, "s")
			if ok != tt.ok || got != tt.want {
				t.Fatalf("GetString(%v) = (%q, %v), want (%q, %v)", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://www.youtube.com/watch?v=abc123", want: "abc123"},
		{url: "https://www.youtube.com/watch?v=abc123&t=10", want: "abc123"},
		{url: "https://youtu.be/x", want: ""},
		{url: "", want: ""},
	}

	for _, tt := range tests {
		if got := VideoID(tt.url); got != tt.want {
			t.Fatalf("VideoID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
