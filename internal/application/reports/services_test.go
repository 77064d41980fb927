package reports_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/prompt-sentinel/internal/application"
	appreports "github.com/bryanwahyu/prompt-sentinel/internal/application/reports"
	domain "github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports/mocks"
)

var fixedNow = time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)

func TestService_Submit_DefaultsTimestampAndJoinsSecrets(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Repository{}
	repo.On("Save", ctx, mock.MatchedBy(func(r *domain.Report) bool {
		return r.Secrets == "AKIA1, sk-2" && r.Timestamp == "2025-05-06T07:08:09Z" && r.Project == "proj"
	})).Return(&domain.Report{ID: 7, Prompt: "p", Secrets: "AKIA1, sk-2", Timestamp: "2025-05-06T07:08:09Z"}, nil)

	svc := &appreports.Service{Repo: repo, Clock: application.FixedClock{T: fixedNow}}
	res, err := svc.Submit(ctx, appreports.SubmitReportCommand{
		Project: "proj",
		Prompt:  "p",
		Secrets: []string{"AKIA1", "sk-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportID(7), res.Report.ID)
	assert.True(t, res.Report.At.Equal(fixedNow))
	assert.Empty(t, res.ArchiveURL)
	repo.AssertExpectations(t)
}

func TestService_Submit_RequiresPrompt(t *testing.T) {
	svc := &appreports.Service{Repo: &mocks.Repository{}, Clock: application.FixedClock{T: fixedNow}}
	_, err := svc.Submit(context.Background(), appreports.SubmitReportCommand{Prompt: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidSubmission)
}

func TestService_Submit_ArchivesCopy(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Repository{}
	archive := &mocks.ArchiveStore{}
	repo.On("Save", ctx, mock.Anything).Return(&domain.Report{ID: 1, Prompt: "p", Timestamp: "t"}, nil)
	archive.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "reports/2025/05/06/") && strings.HasSuffix(key, ".json")
	}), mock.MatchedBy(func(b []byte) bool {
		return strings.Contains(string(b), `"prompt":"p"`)
	})).Return("http://minio/bucket/key", nil)

	svc := &appreports.Service{Repo: repo, Archive: archive, Clock: application.FixedClock{T: fixedNow}}
	res, err := svc.Submit(ctx, appreports.SubmitReportCommand{Prompt: "p", Timestamp: "t"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio/bucket/key", res.ArchiveURL)
	assert.NoError(t, res.ArchiveErr)
	archive.AssertExpectations(t)
}

func TestService_Submit_ArchiveFailureIsSoft(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Repository{}
	archive := &mocks.ArchiveStore{}
	repo.On("Save", ctx, mock.Anything).Return(&domain.Report{ID: 1, Prompt: "p"}, nil)
	archive.On("Put", ctx, mock.Anything, mock.Anything).Return("", errors.New("minio down"))

	svc := &appreports.Service{Repo: repo, Archive: archive, Clock: application.FixedClock{T: fixedNow}}
	res, err := svc.Submit(ctx, appreports.SubmitReportCommand{Prompt: "p"})
	require.NoError(t, err)
	require.NotNil(t, res.Report)
	assert.Error(t, res.ArchiveErr)
}

func TestService_Submit_SaveError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Repository{}
	repo.On("Save", ctx, mock.Anything).Return(nil, errors.New("db down"))

	svc := &appreports.Service{Repo: repo, Clock: application.FixedClock{T: fixedNow}}
	_, err := svc.Submit(ctx, appreports.SubmitReportCommand{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving report")
}

func TestService_List_Normalizes(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Repository{}
	repo.On("List", ctx).Return([]*domain.Report{
		{ID: 1, Timestamp: "2025-01-01T00:00:00Z"},
		{ID: 2, Timestamp: "soon"},
	}, nil)

	svc := &appreports.Service{Repo: repo, Clock: application.SystemClock{}}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].At.IsZero())
	assert.True(t, list[1].At.IsZero())
}
