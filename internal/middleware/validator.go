package middleware

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

// Input validation and sanitization for report submissions

// Caps must stay within the narrowest reports schema (mysql).
const (
	MaxPromptLen    = 64 << 10
	MaxSecrets      = 256
	MaxSecretLen    = 4 << 10
	MaxSessionIDLen = 128
	MaxTimestampLen = 64
)

// ValidateSubmission checks an ingestion payload. Every error wraps
// reports.ErrInvalidSubmission.
func ValidateSubmission(s reports.Submission) error {
	if strings.TrimSpace(s.Prompt) == "" {
		return invalid("prompt cannot be empty")
	}
	if len(s.Prompt) > MaxPromptLen {
		return invalid("prompt exceeds %d bytes", MaxPromptLen)
	}
	if len(s.SanitizedOutput) > MaxPromptLen {
		return invalid("sanitized_output exceeds %d bytes", MaxPromptLen)
	}
	if len(s.Secrets) > MaxSecrets {
		return invalid("too many secrets (max %d)", MaxSecrets)
	}
	for i, secret := range s.Secrets {
		if len(secret) > MaxSecretLen {
			return invalid("secrets[%d] exceeds %d bytes", i, MaxSecretLen)
		}
	}
	if len(s.SessionID) > MaxSessionIDLen {
		return invalid("session_id exceeds %d bytes", MaxSessionIDLen)
	}
	if len(s.Timestamp) > MaxTimestampLen {
		return invalid("timestamp exceeds %d bytes", MaxTimestampLen)
	}
	if ts := strings.TrimSpace(s.Timestamp); ts != "" {
		if _, ok := reports.ParseTimestamp(ts); !ok {
			return invalid("timestamp %q is not RFC3339 or ISO-8601", ts)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", reports.ErrInvalidSubmission, fmt.Sprintf(format, args...))
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
