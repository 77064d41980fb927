package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

// ReportRepository stores reports in SQLite.
type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, project, session_id, prompt, secrets, sanitized_output, reported_at`

func (r *ReportRepository) Save(ctx context.Context, rep *reports.Report) (*reports.Report, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (project, session_id, prompt, secrets, sanitized_output, reported_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rep.Project, rep.SessionID, rep.Prompt, rep.Secrets, rep.SanitizedOutput, rep.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read report id: %w", err)
	}
	return r.Get(ctx, reports.ReportID(id))
}

func (r *ReportRepository) Get(ctx context.Context, id reports.ReportID) (*reports.Report, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", reports.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

func (r *ReportRepository) List(ctx context.Context) ([]*reports.Report, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reportColumns+` FROM reports ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	out := []*reports.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func scanReport(row interface{ Scan(...any) error }) (*reports.Report, error) {
	var rep reports.Report
	err := row.Scan(&rep.ID, &rep.Project, &rep.SessionID,
		&rep.Prompt, &rep.Secrets, &rep.SanitizedOutput, &rep.Timestamp)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
