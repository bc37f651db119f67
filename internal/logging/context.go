package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "textbook.logging.fields"

// ContextWithFields returns a context carrying structured logging fields that
// console loggers merge into every entry. Fields already on ctx are kept unless
// overridden.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextWithVolume annotates ctx with the volume being processed.
func ContextWithVolume(ctx context.Context, volumeID string) context.Context {
	if volumeID == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{fieldVolumeID: volumeID})
}

// ContextFields returns a copy of the logging fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
