package reports

import "errors"

var (
	// ErrFetch covers transport failures and non-success responses from the
	// reports endpoint.
	ErrFetch = errors.New("reports fetch failed")

	// ErrNotFound is returned when a report does not exist.
	ErrNotFound = errors.New("report not found")

	// ErrInvalidSubmission is returned when an ingestion payload fails validation.
	ErrInvalidSubmission = errors.New("invalid report submission")
)
