package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/joshsymonds/rasa/internal/models"
)

// SaveRun stores a run and its findings in one transaction. Saving the
// same run ID twice replaces the earlier copy.
func (db *DB) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	if run == nil || run.ID == "" {
		return errors.New("run has no id")
	}

	return db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM analysis_findings WHERE run_id = ?`, run.ID); err != nil {
			return fmt.Errorf("clearing previous findings: %w", err)
		}

		var completed sql.NullTime
		if !run.CompletedAt.IsZero() {
			completed = sql.NullTime{Time: run.CompletedAt.UTC(), Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO analysis_runs (id, source, platform, operator, line_count, started_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			run.Source,
			run.Platform,
			run.Operator,
			run.LineCount,
			run.StartedAt.UTC(),
			completed,
		)
		if err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}

		return insertFindings(ctx, tx, run.ID, run.Findings)
	})
}

func insertFindings(ctx context.Context, tx *sql.Tx, runID string, findings []models.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO analysis_findings
			(run_id, position, title, severity, category, diagnosis, evidence, pro_tip, remediation, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, f := range findings {
		steps := f.Remediation
		if steps == nil {
			steps = []string{}
		}
		remediation, err := json.Marshal(steps)
		if err != nil {
			return fmt.Errorf("marshaling remediation: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			runID,
			i,
			f.Title,
			f.Severity,
			f.Category,
			f.Diagnosis,
			f.Evidence,
			f.ProTip,
			string(remediation),
			f.Confidence,
		)
		if err != nil {
			return fmt.Errorf("inserting finding %q: %w", f.Title, err)
		}
	}

	return nil
}

const runColumns = `
	r.id, r.source, r.platform, r.operator, r.line_count, r.started_at, r.completed_at,
	COUNT(CASE WHEN f.severity = 'critical' THEN 1 END),
	COUNT(CASE WHEN f.severity = 'warning' THEN 1 END),
	COUNT(CASE WHEN f.severity = 'info' THEN 1 END),
	COUNT(f.id)
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	rec := &RunRecord{}
	err := row.Scan(
		&rec.ID,
		&rec.Source,
		&rec.Platform,
		&rec.Operator,
		&rec.LineCount,
		&rec.StartedAt,
		&rec.CompletedAt,
		&rec.Counts.Critical,
		&rec.Counts.Warning,
		&rec.Counts.Info,
		&rec.Counts.Total,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRuns returns runs newest first.
func (db *DB) ListRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error) {
	query := `SELECT ` + runColumns + `
		FROM analysis_runs r
		LEFT JOIN analysis_findings f ON f.run_id = r.id
		WHERE 1=1
	`

	var args []any

	if filter.Operator != nil {
		query += " AND r.operator = ?"
		args = append(args, *filter.Operator)
	}

	if filter.Platform != nil {
		query += " AND r.platform = ?"
		args = append(args, *filter.Platform)
	}

	if filter.Since != nil {
		query += " AND r.started_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " GROUP BY r.id ORDER BY r.started_at DESC, r.created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var runs []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return runs, nil
}

// GetRun loads a run together with its findings in emission order.
func (db *DB) GetRun(ctx context.Context, id string) (*models.AnalysisRun, error) {
	row := db.QueryRowContext(ctx, `SELECT `+runColumns+`
		FROM analysis_runs r
		LEFT JOIN analysis_findings f ON f.run_id = r.id
		WHERE r.id = ?
		GROUP BY r.id
	`, id)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	findings, err := db.getFindings(ctx, id)
	if err != nil {
		return nil, err
	}

	run := &models.AnalysisRun{
		ID:        rec.ID,
		Source:    rec.Source,
		Platform:  rec.Platform,
		Operator:  rec.Operator,
		LineCount: rec.LineCount,
		StartedAt: rec.StartedAt,
		Findings:  findings,
	}
	if rec.CompletedAt.Valid {
		run.CompletedAt = rec.CompletedAt.Time
	}
	return run, nil
}

func (db *DB) getFindings(ctx context.Context, runID string) ([]models.Finding, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT title, severity, category, diagnosis, evidence, pro_tip, remediation, confidence
		FROM analysis_findings
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	findings := []models.Finding{}
	for rows.Next() {
		var f models.Finding
		var remediation string
		if err := rows.Scan(
			&f.Title,
			&f.Severity,
			&f.Category,
			&f.Diagnosis,
			&f.Evidence,
			&f.ProTip,
			&remediation,
			&f.Confidence,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(remediation), &f.Remediation); err != nil {
			return nil, fmt.Errorf("unmarshaling remediation: %w", err)
		}
		findings = append(findings, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return findings, nil
}

// DeleteRun removes a run. Its findings go with it through the
// foreign key cascade.
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// PruneRuns deletes runs that started before cutoff and reports how many
// went.
func (db *DB) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE started_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}

// CategoryStats counts stored findings per category, most frequent first.
func (db *DB) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS n
		FROM analysis_findings
		GROUP BY category
		ORDER BY n DESC, category
	`)
	if err != nil {
		return nil, fmt.Errorf("querying category stats: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var stats []CategoryStat
	for rows.Next() {
		var s CategoryStat
		if err := rows.Scan(&s.Category, &s.Count); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
