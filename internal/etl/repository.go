package etl

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/campus-insights/campus-insights/internal/platform/db"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence. Run history lives in
// the engine store; row counts come from the warehouse.
type Repository struct {
	engine    *pgxpool.Pool
	warehouse *pgxpool.Pool
}

// NewRepository constructs a repository over the two pools.
func NewRepository(engine, warehouse *pgxpool.Pool) *Repository {
	return &Repository{engine: engine, warehouse: warehouse}
}

// InsertRun appends one completed run. Rows are never updated afterwards.
func (r *Repository) InsertRun(ctx context.Context, run Run) error {
	_, err := r.engine.Exec(ctx,
		`INSERT INTO etl_runs (log_reference, started_at, duration_ms, success) VALUES ($1, $2, $3, $4)`,
		run.LogRef, run.StartedAt, run.Duration.Milliseconds(), run.Success)
	if err != nil {
		return classify(err, "insert run")
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := r.engine.Query(ctx,
		`SELECT id, log_reference, started_at, duration_ms, success FROM etl_runs ORDER BY started_at DESC, id DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, classify(err, "recent runs")
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.LogRef, &run.StartedAt, &durationMS, &run.Success); err != nil {
			return nil, err
		}
		run.Duration = millis(durationMS)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// TableCounts counts rows in the given warehouse tables concurrently. A
// missing table yields Known=false instead of failing the whole snapshot;
// an unreachable warehouse fails it, retryably.
func (r *Repository) TableCounts(ctx context.Context, tables []string) ([]TableCount, error) {
	counts := make([]TableCount, len(tables))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for i, table := range tables {
		group.Go(func() error {
			counts[i] = TableCount{Table: table}
			var rows int64
			// Table names come from the fixed inventory above, never from
			// user input.
			err := r.warehouse.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&rows)
			if err != nil {
				if db.Unreachable(err) {
					return classify(err, "count "+table)
				}
				return nil
			}
			counts[i].Rows = rows
			counts[i].Known = true
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// classify maps connection-level failures onto ErrUnavailable so callers see
// a retryable outage instead of an opaque internal error.
func classify(err error, op string) error {
	if db.Unreachable(err) {
		return fmt.Errorf("etl: %s: %w: %v", op, httpx.ErrUnavailable, err)
	}
	return fmt.Errorf("etl: %s: %w", op, err)
}
