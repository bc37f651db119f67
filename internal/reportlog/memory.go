package reportlog

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-textbook/internal/healthcheck"
)

// ErrReportRequired is returned when a sink is asked to save a nil report.
var ErrReportRequired = errors.New("reportlog: report is required")

// MemorySink keeps saved reports in memory.
type MemorySink struct {
	mu      sync.Mutex
	reports []*healthcheck.Report
}

var (
	_ healthcheck.Sink = (*MemorySink)(nil)
	_ healthcheck.Sink = NopSink{}
	_ healthcheck.Sink = MultiSink(nil)
)

// NewMemorySink constructs an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Save(ctx context.Context, report *healthcheck.Report) error {
	if report == nil {
		return ErrReportRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	return nil
}

// Reports returns the saved reports in save order.
func (m *MemorySink) Reports() []*healthcheck.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*healthcheck.Report, len(m.reports))
	copy(out, m.reports)
	return out
}

// NopSink discards reports.
type NopSink struct{}

func (NopSink) Save(context.Context, *healthcheck.Report) error { return nil }

// MultiSink saves to every sink in order. All sinks are attempted and their
// failures are joined.
type MultiSink []healthcheck.Sink

func (m MultiSink) Save(ctx context.Context, report *healthcheck.Report) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Save(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
