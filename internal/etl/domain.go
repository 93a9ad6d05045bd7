// Package etl tracks executions of the external data-ingestion pipeline.
// The engine never schedules runs; it enqueues work on demand and keeps an
// immutable history of outcomes.
package etl

import "time"

// MaxRecentRuns caps the retrievable run history regardless of the
// requested limit.
const MaxRecentRuns = 50

// DefaultRecentRuns is used when the caller does not ask for a limit.
const DefaultRecentRuns = 20

// Run is one completed pipeline execution. Immutable once written.
type Run struct {
	ID        int64
	LogRef    string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
}

// Handle acknowledges an accepted trigger. The run row appears only after
// the pipeline finishes; polling RecentRuns is the completion signal.
type Handle struct {
	LogRef     string
	EnqueuedAt time.Time
}

// TableCount is one warehouse table's row count. Known is false when the
// table is missing or unreadable; a partial snapshot beats no snapshot.
type TableCount struct {
	Table string
	Rows  int64
	Known bool
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// warehouseTables is the fixed star schema inventoried by Snapshot.
var warehouseTables = []string{
	"dim_student",
	"dim_course",
	"dim_semester",
	"dim_faculty",
	"dim_department",
	"dim_program",
	"dim_time",
	"fact_enrollment",
	"fact_attendance",
	"fact_payment",
	"fact_grade",
}
