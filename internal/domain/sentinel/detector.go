// Package sentinel finds secrets in prompt text and swaps them for
// placeholder tokens before the text leaves the process.
package sentinel

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// Finding is one secret occurrence in a text; Start and End are byte offsets.
type Finding struct {
	Name   string `json:"name,omitempty"`
	Secret string `json:"secret"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Detector locates secrets in text.
type Detector interface {
	Detect(ctx context.Context, text string) ([]Finding, error)
}

// FindPositions returns every literal occurrence of each secret in text.
func FindPositions(text string, secrets []string) []Finding {
	var out []Finding
	for _, s := range secrets {
		if s == "" {
			continue
		}
		for from := 0; from <= len(text); {
			i := strings.Index(text[from:], s)
			if i < 0 {
				break
			}
			start := from + i
			out = append(out, Finding{Secret: s, Start: start, End: start + len(s)})
			from = start + len(s)
		}
	}
	return resolveOverlaps(out)
}

// resolveOverlaps sorts findings by start and drops any finding that overlaps
// an earlier kept one. On equal starts the longer finding wins.
func resolveOverlaps(in []Finding) []Finding {
	if len(in) == 0 {
		return nil
	}
	fs := slices.Clone(in)
	slices.SortStableFunc(fs, func(a, b Finding) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return (b.End - b.Start) - (a.End - a.Start)
	})
	out := fs[:0:0]
	end := -1
	for _, f := range fs {
		if f.Start < end {
			continue
		}
		out = append(out, f)
		end = f.End
	}
	return out
}

// MultiDetector runs every detector and merges their findings.
type MultiDetector []Detector

func (m MultiDetector) Detect(ctx context.Context, text string) ([]Finding, error) {
	var all []Finding
	for _, d := range m {
		fs, err := d.Detect(ctx, text)
		if err != nil {
			return nil, err
		}
		all = append(all, fs...)
	}
	return resolveOverlaps(all), nil
}

// Secrets returns the distinct secret values of fs in order of appearance.
func Secrets(fs []Finding) []string {
	seen := make(map[string]bool, len(fs))
	var out []string
	for _, f := range fs {
		if seen[f.Secret] {
			continue
		}
		seen[f.Secret] = true
		out = append(out, f.Secret)
	}
	return out
}
