// Package dashboard binds a report fetcher to a reportview.View and tracks
// the fetch lifecycle the UI layer renders.
package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/prompt-sentinel/internal/application"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reportview"
)

// Status of the record collection.
type Status int

const (
	StatusLoading Status = iota // nothing fetched yet
	StatusReady
	StatusFailed // last fetch failed, collection is empty
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	MsgLoading = "Loading..."
	MsgNoData  = "No data available"
	MsgNoMatch = "No rows match"
)

// Dashboard is owned by a single event loop; it is not safe for concurrent use.
type Dashboard struct {
	*reportview.View

	fetcher reports.Fetcher
	clock   application.Clock
	log     *zap.Logger

	status    Status
	err       error
	gen       uint64
	pending   bool
	fetchedAt time.Time
}

func New(fetcher reports.Fetcher, clock application.Clock, log *zap.Logger) *Dashboard {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard{
		View:    reportview.NewView(nil),
		fetcher: fetcher,
		clock:   clock,
		log:     log,
	}
}

// Fetcher exposes the collaborator so a UI runtime can run the fetch off its
// event loop and hand the result back through CompleteFetch.
func (d *Dashboard) Fetcher() reports.Fetcher { return d.fetcher }

// BeginFetch starts a fetch generation. Only the result carrying the latest
// token is applied.
func (d *Dashboard) BeginFetch() uint64 {
	d.gen++
	d.pending = true
	return d.gen
}

// CompleteFetch applies a fetch outcome. It returns false when token belongs
// to a superseded fetch and the result was discarded. A failure leaves an
// empty collection behind rather than an error for the view.
func (d *Dashboard) CompleteFetch(token uint64, records []reports.Report, err error) bool {
	if token != d.gen {
		d.log.Debug("discarding stale fetch result", zap.Uint64("token", token), zap.Uint64("current", d.gen))
		return false
	}
	d.pending = false
	d.fetchedAt = d.clock.Now()
	if err != nil {
		d.log.Warn("fetch reports failed", zap.Error(err))
		d.status = StatusFailed
		d.err = err
		d.View.SetRecords(nil)
		return true
	}
	d.status = StatusReady
	d.err = nil
	d.View.SetRecords(records)
	d.log.Debug("fetched reports", zap.Int("count", len(records)))
	return true
}

// Refresh fetches synchronously. The returned error is informational; the
// dashboard has already degraded to an empty collection.
func (d *Dashboard) Refresh(ctx context.Context) error {
	token := d.BeginFetch()
	records, err := d.fetcher.Fetch(ctx)
	d.CompleteFetch(token, records, err)
	return err
}

func (d *Dashboard) Status() Status       { return d.status }
func (d *Dashboard) Err() error           { return d.err }
func (d *Dashboard) Pending() bool        { return d.pending }
func (d *Dashboard) FetchedAt() time.Time { return d.fetchedAt }

// EmptyMessage is the placeholder shown instead of table rows, or "" when
// there are rows to show. A failed fetch reads like an empty one; callers
// that want the failure surface Err separately.
func (d *Dashboard) EmptyMessage() string {
	switch {
	case d.status == StatusLoading:
		return MsgLoading
	case d.Total() == 0:
		return MsgNoData
	case d.Len() == 0:
		return MsgNoMatch
	default:
		return ""
	}
}
