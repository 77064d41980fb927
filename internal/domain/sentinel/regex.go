package sentinel

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultPatterns are used when no pattern file is configured.
var DefaultPatterns = map[string]string{
	"aws_api_key":    `AKIA[A-Z0-9]{15,16}`,
	"openai_api_key": `sk-[A-Za-z0-9]{34}`,
}

type compiledPattern struct {
	Name  string
	Regex *regexp.Regexp
}

// RegexDetector matches named regular expressions.
type RegexDetector struct {
	patterns []compiledPattern
}

// NewRegexDetector compiles patterns (name -> regex). Names are applied in
// sorted order so results are deterministic.
func NewRegexDetector(patterns map[string]string) (*RegexDetector, error) {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	d := &RegexDetector{}
	for _, name := range names {
		re, err := regexp.Compile(patterns[name])
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", name, err)
		}
		d.patterns = append(d.patterns, compiledPattern{Name: name, Regex: re})
	}
	return d, nil
}

// ParsePatterns reads a YAML mapping of pattern name to regex.
func ParsePatterns(data []byte) (map[string]string, error) {
	patterns := map[string]string{}
	if err := yaml.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}
	return patterns, nil
}

// LoadRegexDetector builds a detector from a YAML pattern file, or from
// DefaultPatterns when path is empty.
func LoadRegexDetector(path string) (*RegexDetector, error) {
	if path == "" {
		return NewRegexDetector(DefaultPatterns)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patterns file: %w", err)
	}
	patterns, err := ParsePatterns(data)
	if err != nil {
		return nil, err
	}
	return NewRegexDetector(patterns)
}

func (d *RegexDetector) Detect(_ context.Context, text string) ([]Finding, error) {
	var out []Finding
	for _, p := range d.patterns {
		for _, loc := range p.Regex.FindAllStringIndex(text, -1) {
			out = append(out, Finding{
				Name:   p.Name,
				Secret: text[loc[0]:loc[1]],
				Start:  loc[0],
				End:    loc[1],
			})
		}
	}
	return resolveOverlaps(out), nil
}
