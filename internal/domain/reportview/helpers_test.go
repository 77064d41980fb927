package reportview

import "github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"

func rec(id int64, prompt, secrets, ts string) reports.Report {
	r := reports.Report{
		ID:              reports.ReportID(id),
		Prompt:          prompt,
		Secrets:         secrets,
		SanitizedOutput: "out-" + prompt,
		Timestamp:       ts,
	}
	r.Normalize()
	return r
}

func ids(rs []reports.Report) []reports.ReportID {
	out := make([]reports.ReportID, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func rowIDs(rows []Row) []reports.ReportID {
	out := make([]reports.ReportID, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func sample() []reports.Report {
	return []reports.Report{
		rec(3, "deploy prod", "AKIA123", "2025-03-01T10:00:00Z"),
		rec(1, "hello world", "", "2025-01-01T10:00:00Z"),
		rec(4, "Deploy staging", "sk-abc", "2025-02-01T10:00:00Z"),
		rec(2, "deploy prod", "AKIA999, sk-def", "2025-04-01T10:00:00Z"),
	}
}
