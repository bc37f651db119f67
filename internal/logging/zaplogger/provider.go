package zaplogger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-textbook/internal/logging"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

const redacted = "[REDACTED]"

// Config selects the zap preset and minimum level.
type Config struct {
	// Mode is "production" (JSON) or "development" (console, the default).
	Mode  string
	Level string
}

// Provider hands out sugared zap loggers named after the requesting module.
type Provider struct {
	base *zap.Logger
}

// NewProvider builds a zap logger from cfg.
func NewProvider(cfg Config) (*Provider, error) {
	var zcfg zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "prod", "production", "json":
		zcfg = zap.NewProductionConfig()
	case "", "dev", "development", "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("logging: unsupported zap mode %q", cfg.Mode)
	}

	if level := strings.TrimSpace(cfg.Level); level != "" {
		if strings.EqualFold(level, "trace") {
			level = "debug"
		}
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("logging: zap level: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	base, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &Provider{base: base}, nil
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(base *zap.Logger) *Provider {
	return &Provider{base: base}
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	if p == nil || p.base == nil {
		return nil
	}
	return p.base.Sync()
}

// GetLogger returns a sugared logger named after the module.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.base == nil {
		return logging.NoOp()
	}
	logger := p.base
	if name = strings.TrimSpace(name); name != "" {
		logger = logger.Named(name)
	}
	return &adapter{sugar: logger.Sugar()}
}

type adapter struct {
	sugar *zap.SugaredLogger
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

// zap has no trace level; trace entries are written at debug.
func (l *adapter) Trace(msg string, args ...any) { l.sugar.Debugw(msg, redact(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.sugar.Debugw(msg, redact(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.sugar.Infow(msg, redact(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, redact(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.sugar.Errorw(msg, redact(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.sugar.Fatalw(msg, redact(args)...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &adapter{sugar: l.sugar.With(redact(sortedPairs(fields))...)}
}

// WithContext copies fields stored with logging.ContextWithFields onto the logger.
func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	return l.WithFields(logging.ContextFields(ctx))
}

func sortedPairs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, key, fields[key])
	}
	return pairs
}

// redact masks credential values in key/value pairs.
func redact(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if ok && isSecretKey(key) {
			out[i+1] = redacted
		}
	}
	return out
}

func isSecretKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, marker := range []string{"api_key", "apikey", "authorization", "token", "secret", "password"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}
