package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

// Repository is a mock for reports.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, r *reports.Report) (*reports.Report, error) {
	args := m.Called(ctx, r)
	if rep, ok := args.Get(0).(*reports.Report); ok {
		return rep, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) Get(ctx context.Context, id reports.ReportID) (*reports.Report, error) {
	args := m.Called(ctx, id)
	if rep, ok := args.Get(0).(*reports.Report); ok {
		return rep, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) List(ctx context.Context) ([]*reports.Report, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]*reports.Report); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ArchiveStore is a mock for reports.ArchiveStore.
type ArchiveStore struct {
	mock.Mock
}

func (m *ArchiveStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

// Fetcher is a mock for reports.Fetcher.
type Fetcher struct {
	mock.Mock
}

func (m *Fetcher) Fetch(ctx context.Context) ([]reports.Report, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]reports.Report); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Submitter is a mock for reports.Submitter.
type Submitter struct {
	mock.Mock
}

func (m *Submitter) Submit(ctx context.Context, s reports.Submission) (*reports.Report, error) {
	args := m.Called(ctx, s)
	if rep, ok := args.Get(0).(*reports.Report); ok {
		return rep, args.Error(1)
	}
	return nil, args.Error(1)
}
