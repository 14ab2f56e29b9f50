package database

import (
	"database/sql"
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("analysis run not found")

// RunRecord is one row of analysis_runs plus its finding counts.
type RunRecord struct {
	StartedAt   time.Time
	CompletedAt sql.NullTime
	ID          string
	Source      string
	Platform    string
	Operator    string
	Counts      FindingCounts
	LineCount   int
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	Operator *string
	Platform *string
	Since    *time.Time
	Limit    int
	Offset   int
}

// FindingCounts represents counts of findings by severity.
type FindingCounts struct {
	Critical int
	Warning  int
	Info     int
	Total    int
}

// CategoryStat is the number of findings recorded for one category.
type CategoryStat struct {
	Category string
	Count    int
}
