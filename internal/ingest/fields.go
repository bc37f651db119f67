package ingest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Object is a decoded JSON object as produced by encoding/json.
type Object = map[string]any

// GetString returns the field coerced to a string. Strings are returned as-is,
// numbers use their shortest decimal form and booleans render as "true" or
// "false". Absent, null and structured values report ok=false.
func GetString(obj Object, key string) (string, bool) {
	value, ok := lookup(obj, key)
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	default:
		if f, ok := asFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
	}
	return "", false
}

// GetBool returns the field coerced to a boolean. JSON booleans and the strings
// "true"/"false" (any case) are accepted.
func GetBool(obj Object, key string) (bool, bool) {
	value, ok := lookup(obj, key)
	if !ok {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// GetInt returns the field coerced to an integer. Integral numbers and strings
// holding an integer are accepted; fractional values are rejected.
func GetInt(obj Object, key string) (int, bool) {
	value, ok := lookup(obj, key)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	f, ok := asFloat(value)
	if !ok || math.Trunc(f) != f || math.IsInf(f, 0) {
		return 0, false
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
	if f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// GetStringOr returns the string field or fallback when it is missing.
func GetStringOr(obj Object, key, fallback string) string {
	if value, ok := GetString(obj, key); ok {
		return value
	}
	return fallback
}

// GetBoolOr returns the boolean field or fallback when it is missing.
func GetBoolOr(obj Object, key string, fallback bool) bool {
	if value, ok := GetBool(obj, key); ok {
		return value
	}
	return fallback
}

// GetObject returns a nested object. Null and non-object values report ok=false.
func GetObject(obj Object, key string) (Object, bool) {
	value, ok := lookup(obj, key)
	if !ok {
		return nil, false
	}
	nested, ok := value.(map[string]any)
	return nested, ok
}

// GetArray returns a nested array. Null and non-array values report ok=false.
func GetArray(obj Object, key string) ([]any, bool) {
	value, ok := lookup(obj, key)
	if !ok {
		return nil, false
	}
	items, ok := value.([]any)
	return items, ok
}

func lookup(obj Object, key string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	value, ok := obj[key]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
