package reports

import (
	"strings"
	"time"
)

// ID tipe untuk Report
type ReportID int64

// Report is one stored result of a sentinel scan: the original prompt, the
// secrets detected in it, and the sanitized text that was sent onward.
type Report struct {
	ID              ReportID `json:"id"`
	Prompt          string   `json:"prompt"`
	Secrets         string   `json:"secrets"`
	SanitizedOutput string   `json:"sanitized_output"`
	Timestamp       string   `json:"timestamp"`

	Project   string `json:"project,omitempty"`
	SessionID string `json:"session_id,omitempty"`

	// At is Timestamp parsed at ingestion; zero when the text is not a
	// recognised instant.
	At time.Time `json:"-"`
}

// Submission is the ingestion payload posted by a sentinel.
type Submission struct {
	ProjectToken    string   `json:"project_token,omitempty"`
	SessionID       string   `json:"session_id,omitempty"`
	Prompt          string   `json:"prompt"`
	Secrets         []string `json:"secrets"`
	SanitizedOutput string   `json:"sanitized_output"`
	Timestamp       string   `json:"timestamp"`
}

// SecretsSeparator joins the secret list into the stored text column.
const SecretsSeparator = ", "

// JoinSecrets renders a secret list as the stored text value.
func JoinSecrets(secrets []string) string {
	return strings.Join(secrets, SecretsSeparator)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC3339 and the zone-less ISO-8601 forms sentinels
// commonly emit.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize fills the derived fields of a report after it was read from the
// wire or the database.
func (r *Report) Normalize() {
	if t, ok := ParseTimestamp(r.Timestamp); ok {
		r.At = t
	} else {
		r.At = time.Time{}
	}
}
