package reports

import "context"

// Repository port (persistence of reports)
type Repository interface {
	Save(ctx context.Context, r *Report) (*Report, error)
	Get(ctx context.Context, id ReportID) (*Report, error)
	List(ctx context.Context) ([]*Report, error)
}

// ArchiveStore keeps a raw copy of every accepted report.
type ArchiveStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// Fetcher retrieves the full report collection from a reports server.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Report, error)
}

// Submitter posts a new report to a reports server.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (*Report, error)
}
