package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/prompt-sentinel/internal/application"
	domain "github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

// Service implements use-cases untuk Report ingestion and listing.
// Service is safe for concurrent use when its ports are.
type Service struct {
	Repo    domain.Repository
	Archive domain.ArchiveStore // optional
	Clock   application.Clock
	Log     *zap.Logger
}

//
// ==== USE CASES ====
//

// SubmitReportCommand is a validated ingestion request.
type SubmitReportCommand struct {
	Project         string
	SessionID       string
	Prompt          string
	Secrets         []string
	SanitizedOutput string
	Timestamp       string
}

type SubmitReportResult struct {
	Report     *domain.Report
	ArchiveURL string
	ArchiveErr error
}

// Submit stores a report and, when an archive is configured, uploads a JSON
// copy. Archive failures are logged and returned in the result only.
func (s *Service) Submit(ctx context.Context, cmd SubmitReportCommand) (SubmitReportResult, error) {
	if strings.TrimSpace(cmd.Prompt) == "" {
		return SubmitReportResult{}, fmt.Errorf("%w: prompt is required", domain.ErrInvalidSubmission)
	}
	now := s.Clock.Now()
	ts := cmd.Timestamp
	if strings.TrimSpace(ts) == "" {
		ts = now.Format(time.RFC3339)
	}

	rep := &domain.Report{
		Prompt:          cmd.Prompt,
		Secrets:         domain.JoinSecrets(cmd.Secrets),
		SanitizedOutput: cmd.SanitizedOutput,
		Timestamp:       ts,
		Project:         cmd.Project,
		SessionID:       cmd.SessionID,
	}
	saved, err := s.Repo.Save(ctx, rep)
	if err != nil {
		return SubmitReportResult{}, fmt.Errorf("saving report: %w", err)
	}
	saved.Normalize()
	s.logger().Info("saved report", zap.Int64("id", int64(saved.ID)), zap.String("project", saved.Project))

	res := SubmitReportResult{Report: saved}
	if s.Archive == nil {
		return res, nil
	}
	res.ArchiveURL, res.ArchiveErr = s.archive(ctx, now, saved)
	if res.ArchiveErr != nil {
		s.logger().Warn("archive report failed", zap.Int64("id", int64(saved.ID)), zap.Error(res.ArchiveErr))
	}
	return res, nil
}

func (s *Service) archive(ctx context.Context, now time.Time, r *domain.Report) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	key := fmt.Sprintf("reports/%s/%s.json", now.Format("2006/01/02"), uuid.New().String())
	return s.Archive.Put(ctx, key, b)
}

// List ambil semua report, urut sesuai id
func (s *Service) List(ctx context.Context) ([]*domain.Report, error) {
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	for _, r := range list {
		r.Normalize()
	}
	return list, nil
}

// Get ambil 1 report by id
func (s *Service) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Normalize()
	return r, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
