package reportlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-textbook/internal/healthcheck"
)

// ErrDSNRequired is returned by OpenDB for a blank DSN.
var ErrDSNRequired = errors.New("reportlog: database dsn is required")

// StoredReport is a report read back from the database.
type StoredReport struct {
	ID        string
	CreatedAt time.Time
	Passed    bool
	Report    *healthcheck.Report
}

type reportModel struct {
	bun.BaseModel `bun:"table:health_check_reports"`

	ID                  uuid.UUID `bun:"id,pk,type:uuid"`
	VolumeID            string    `bun:"volume_id"`
	VolumeSlug          string    `bun:"volume_slug,notnull"`
	TotalChunks         int       `bun:"total_chunks"`
	ExistingChunksCount int       `bun:"existing_chunks_count"`
	MissingChunksCount  int       `bun:"missing_chunks_count"`
	Passed              bool      `bun:"passed"`
	Payload             string    `bun:"payload,notnull"`
	CreatedAt           time.Time `bun:"created_at,notnull"`
}

// newReportRepository creates a repository for stored health check reports.
func newReportRepository(db *bun.DB) repository.Repository[*reportModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*reportModel]{
		NewRecord: func() *reportModel { return &reportModel{} },
		GetID: func(record *reportModel) uuid.UUID {
			return record.ID
		},
		SetID: func(record *reportModel, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *reportModel) string {
			return record.ID.String()
		},
	})
}

// BunSink stores reports in the health_check_reports table.
type BunSink struct {
	db   *bun.DB
	repo repository.Repository[*reportModel]
	now  func() time.Time
	ids  func() uuid.UUID
}

var _ healthcheck.Sink = (*BunSink)(nil)

// NewBunSink wraps an open database.
func NewBunSink(db *bun.DB) *BunSink {
	sink := &BunSink{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
		ids: uuid.New,
	}
	if db != nil {
		sink.repo = newReportRepository(db)
	}
	return sink
}

// OpenDB opens dsn with the matching dialect. postgres:// and postgresql://
// use pgx; anything else is handed to SQLite, with a sqlite:// prefix
// stripped.
func OpenDB(dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrDSNRequired
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("reportlog: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}
	sqldb, err := sql.Open("sqlite3", strings.TrimPrefix(dsn, "sqlite://"))
	if err != nil {
		return nil, fmt.Errorf("reportlog: open sqlite: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// EnsureSchema creates the reports table and its volume index when missing.
func (s *BunSink) EnsureSchema(ctx context.Context) error {
	if err := s.requireDB(); err != nil {
		return err
	}
	if _, err := s.db.NewCreateTable().Model((*reportModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("reportlog: create table: %w", err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*reportModel)(nil)).
		Index("health_check_reports_volume_slug_idx").
		Column("volume_slug", "created_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("reportlog: create index: %w", err)
	}
	return nil
}

// Save inserts report with a fresh id.
func (s *BunSink) Save(ctx context.Context, report *healthcheck.Report) error {
	if report == nil {
		return ErrReportRequired
	}
	if err := s.requireDB(); err != nil {
		return err
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("reportlog: encode report: %w", err)
	}
	model := &reportModel{
		ID:                  s.ids(),
		VolumeID:            report.VolumeID,
		VolumeSlug:          report.VolumeSlug,
		TotalChunks:         report.TotalChunks,
		ExistingChunksCount: report.ExistingChunksCount,
		MissingChunksCount:  report.MissingChunksCount,
		Passed:              report.Passed(),
		Payload:             string(payload),
		CreatedAt:           s.now(),
	}
	if _, err := s.repo.Create(ctx, model); err != nil {
		return fmt.Errorf("reportlog: insert report: %w", err)
	}
	return nil
}

// ListByVolume returns the reports stored for volumeSlug, newest first. A
// limit of zero returns every report.
func (s *BunSink) ListByVolume(ctx context.Context, volumeSlug string, limit int) ([]StoredReport, error) {
	if err := s.requireDB(); err != nil {
		return nil, err
	}
	models, _, err := s.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("?TableAlias.volume_slug = ?", volumeSlug).
			OrderExpr("?TableAlias.created_at DESC, ?TableAlias.id DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	}))
	if err != nil {
		return nil, fmt.Errorf("reportlog: list reports: %w", err)
	}

	out := make([]StoredReport, 0, len(models))
	for _, model := range models {
		var report healthcheck.Report
		if err := json.Unmarshal([]byte(model.Payload), &report); err != nil {
			return nil, fmt.Errorf("reportlog: decode report %s: %w", model.ID, err)
		}
		out = append(out, StoredReport{
			ID:        model.ID.String(),
			CreatedAt: model.CreatedAt,
			Passed:    model.Passed,
			Report:    &report,
		})
	}
	return out, nil
}

func (s *BunSink) requireDB() error {
	if s == nil || s.db == nil || s.repo == nil {
		return errors.New("reportlog: bun sink requires a database")
	}
	return nil
}
