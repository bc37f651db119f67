package di_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	volumecmd "github.com/goliatone/go-textbook/internal/commands/volume"
	"github.com/goliatone/go-textbook/internal/di"
	"github.com/goliatone/go-textbook/internal/reportlog"
	"github.com/goliatone/go-textbook/internal/runtimeconfig"
	"github.com/goliatone/go-textbook/pkg/interfaces"
)

type fixedSource map[string]any

func (s fixedSource) FetchVolume(context.Context, string) (map[string]any, error) {
	return s, nil
}

type fixedIndex []string

func (i fixedIndex) ChunkSlugs(context.Context, string) ([]string, error) {
	return i, nil
}

func sampleDocument() fixedSource {
	return fixedSource{
		"data": map[string]any{
			"Title":       "Macro",
			"Description": "Intro to macro",
			"Slug":        "macro",
			"Pages": []any{
				map[string]any{
					"Title":      "Intro",
					"Slug":       "intro",
					"HasSummary": true,
					"Order":      json.Number("1"),
					"Content": []any{
						map[string]any{"__component": "page.chunk", "Header": "Intro", "Slug": "intro-1", "MD": "Hello"},
						map[string]any{"__component": "page.chunk", "Header": "Body", "Slug": "body-2", "MD": "World"},
					},
				},
			},
		},
	}
}

func TestContainerRunsPipelineWithModuleLoggers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "textbook")

	rec := newRecordingProvider()
	sink := reportlog.NewMemorySink()
	container, err := di.NewContainer(cfg,
		di.WithLoggerProvider(rec),
		di.WithVolumeSource(sampleDocument()),
		di.WithEmbeddingIndex(fixedIndex{"intro-1"}),
		di.WithReportSink(sink),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	var fetched volumecmd.FetchResult
	err = container.FetchHandler().Execute(context.Background(), volumecmd.FetchVolumeCommand{
		VolumeID:       "12",
		OutputDir:      cfg.Output.Dir,
		Clean:          true,
		ResultCallback: func(r volumecmd.FetchResult) { fetched = r },
	})
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}

	var checked volumecmd.CheckResult
	err = container.HealthCheckHandler().Execute(context.Background(), volumecmd.HealthCheckCommand{
		VolumeID:       "12",
		Volume:         fetched.Volume,
		ResultCallback: func(r volumecmd.CheckResult) { checked = r },
	})
	if err != nil {
		t.Fatalf("health check returned error: %v", err)
	}
	if checked.Report == nil || checked.Report.MissingChunksCount != 1 {
		t.Fatalf("unexpected report %+v", checked.Report)
	}
	if len(sink.Reports()) != 1 {
		t.Fatal("expected report to reach the configured sink")
	}

	entry := rec.find("generator.build.completed")
	if entry == nil {
		t.Fatalf("expected generator.build.completed entry, got %#v", rec.entries)
	}
	if got := entry.fields["module"]; got != "textbook.generator" {
		t.Fatalf("expected module textbook.generator, got %v", got)
	}
	if got := entry.fields["volume_slug"]; got != "macro" {
		t.Fatalf("expected volume_slug macro, got %v", got)
	}

	reconciled := rec.find("healthcheck.reconciled")
	if reconciled == nil || reconciled.fields["module"] != "textbook.healthcheck" || reconciled.fields["volume_id"] != "12" {
		t.Fatalf("unexpected reconcile entry %#v", reconciled)
	}
}

func TestContainerWithoutEmbeddingsDisablesHealthCheck(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	container, err := di.NewContainer(cfg, di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.Pipeline().HealthCheckEnabled() {
		t.Fatal("expected health check to be disabled without embeddings credentials")
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Output.Dir = ""
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{entries: []recordedEntry{}}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{
		provider: p,
		fields: map[string]any{
			"logger": name,
		},
	}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := cloneFields(l.fields)
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{
		provider: l.provider,
		fields:   cloneFields(l.fields),
	}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := cloneFields(l.fields)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			break
		}
		key, _ := args[i].(string)
		if key == "" {
			continue
		}
		fields[key] = args[i+1]
	}
	l.provider.record(recordedEntry{
		level:  level,
		msg:    msg,
		fields: fields,
	})
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
