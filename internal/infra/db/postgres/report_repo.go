package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

const reportColumns = `id, project, session_id, prompt, secrets, sanitized_output, reported_at`

// Save insert Report record, returns the stored row
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) (*domain.Report, error) {
	q := `
INSERT INTO reports (project, session_id, prompt, secrets, sanitized_output, reported_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + reportColumns + `;`
	row := r.db.QueryRowContext(ctx, q,
		rep.Project, rep.SessionID, rep.Prompt, rep.Secrets, rep.SanitizedOutput, rep.Timestamp,
	)
	saved, err := scanReport(row)
	if err != nil {
		return nil, fmt.Errorf("inserting report: %w", err)
	}
	return saved, nil
}

// Get by ID
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	q := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1 LIMIT 1;`
	rep, err := scanReport(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrNotFound, id)
	}
	return rep, err
}

// List all reports in insertion order
func (r *ReportRepository) List(ctx context.Context) ([]*domain.Report, error) {
	q := `SELECT ` + reportColumns + ` FROM reports ORDER BY id ASC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()
	out := []*domain.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func scanReport(row interface{ Scan(dest ...any) error }) (*domain.Report, error) {
	var rep domain.Report
	if err := row.Scan(
		&rep.ID, &rep.Project, &rep.SessionID,
		&rep.Prompt, &rep.Secrets, &rep.SanitizedOutput, &rep.Timestamp,
	); err != nil {
		return nil, err
	}
	return &rep, nil
}
