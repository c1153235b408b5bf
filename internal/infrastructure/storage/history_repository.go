package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/ports"
)

const historyTable = "submission_history"

const createHistoryTable = `CREATE TABLE IF NOT EXISTS submission_history (
    id         VARCHAR(36) PRIMARY KEY,
    kind       VARCHAR(16) NOT NULL,
    request    TEXT        NOT NULL,
    outcome    TEXT        NOT NULL,
    error      TEXT        NOT NULL,
    created_at BIGINT      NOT NULL
)`

// HistoryRepository persists submission records into Postgres or SQLite.
type HistoryRepository struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

var (
	_ ports.HistoryRepository = (*HistoryRepository)(nil)
	_ ports.HistoryPruner     = (*HistoryRepository)(nil)
)

type historyRow struct {
	ID        string `db:"id"`
	Kind      string `db:"kind"`
	Request   string `db:"request"`
	Outcome   string `db:"outcome"`
	Error     string `db:"error"`
	CreatedAt int64  `db:"created_at"`
}

// Open connects to the history database. Supported drivers are "postgres" and "sqlite".
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// A single connection keeps in-memory databases shared across calls.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewHistoryRepository wires a sqlx.DB implementation.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	var format sq.PlaceholderFormat = sq.Question
	if db != nil && db.DriverName() == "postgres" {
		format = sq.Dollar
	}
	return &HistoryRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

// Migrate creates the history table when missing.
func (r *HistoryRepository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

// Record inserts a submission record.
func (r *HistoryRepository) Record(ctx context.Context, record domain.HistoryRecord) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert(historyTable).
		Columns("id", "kind", "request", "outcome", "error", "created_at").
		Values(record.ID, string(record.Kind), record.Request, record.Outcome, record.Error, record.CreatedAt.UnixMilli()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Recent returns the newest records first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.builder.
		Select("id", "kind", "request", "outcome", "error", "created_at").
		From(historyTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	records := make([]domain.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.HistoryRecord{
			ID:        row.ID,
			Kind:      domain.SubmissionKind(row.Kind),
			Request:   row.Request,
			Outcome:   row.Outcome,
			Error:     row.Error,
			CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
		})
	}
	return records, nil
}

// Prune deletes records created before the cutoff and reports how many went.
func (r *HistoryRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	if r.db == nil {
		return 0, nil
	}

	query, args, err := r.builder.
		Delete(historyTable).
		Where(sq.Lt{"created_at": before.UnixMilli()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune history rows: %w", err)
	}
	return n, nil
}
