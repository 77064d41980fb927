package reportview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

func TestFilter_Identity(t *testing.T) {
	rs := sample()
	assert.Equal(t, rs, Filter(rs, nil))
	assert.Equal(t, rs, Filter(rs, Filters{}))
	assert.Equal(t, rs, Filter(rs, Filters{ColumnPrompt: ""}))
}

func TestFilter_CaseSensitiveSubstring(t *testing.T) {
	got := Filter(sample(), Filters{ColumnPrompt: "deploy"})
	assert.Equal(t, []reports.ReportID{3, 2}, ids(got))

	got = Filter(sample(), Filters{ColumnPrompt: "Deploy"})
	assert.Equal(t, []reports.ReportID{4}, ids(got))
}

func TestFilter_AndAcrossColumns(t *testing.T) {
	got := Filter(sample(), Filters{ColumnPrompt: "deploy", ColumnSecrets: "sk-"})
	assert.Equal(t, []reports.ReportID{2}, ids(got))
}

func TestFilter_NonTextColumnsCoerced(t *testing.T) {
	got := Filter(sample(), Filters{ColumnID: "4"})
	assert.Equal(t, []reports.ReportID{4}, ids(got))

	got = Filter(sample(), Filters{ColumnTimestamp: "2025-0"})
	assert.Len(t, got, 4)

	got = Filter(sample(), Filters{ColumnTimestamp: "-02-"})
	assert.Equal(t, []reports.ReportID{4}, ids(got))
}

func TestFilter_Monotonic(t *testing.T) {
	rs := sample()
	base := Filters{ColumnPrompt: "deploy"}
	wider := base.With(ColumnSecrets, "AKIA")
	widest := wider.With(ColumnTimestamp, "04")

	n0 := len(Filter(rs, Filters{}))
	n1 := len(Filter(rs, base))
	n2 := len(Filter(rs, wider))
	n3 := len(Filter(rs, widest))
	assert.LessOrEqual(t, n1, n0)
	assert.LessOrEqual(t, n2, n1)
	assert.LessOrEqual(t, n3, n2)
	assert.Equal(t, 1, n3)
}

func TestFilter_NoMatchAndEmptyInput(t *testing.T) {
	assert.Empty(t, Filter(sample(), Filters{ColumnPrompt: "nothing here"}))
	assert.Empty(t, Filter(nil, Filters{ColumnPrompt: "x"}))
}

func TestFilters_With(t *testing.T) {
	f := Filters{ColumnPrompt: "a"}
	g := f.With(ColumnSecrets, "b")
	require.Equal(t, Filters{ColumnPrompt: "a"}, f, "With must not mutate the receiver")
	assert.Equal(t, Filters{ColumnPrompt: "a", ColumnSecrets: "b"}, g)
	assert.Equal(t, Filters{ColumnSecrets: "b"}, g.With(ColumnPrompt, ""))
}

func TestFilter_Scenario(t *testing.T) {
	rs := []reports.Report{
		rec(1, "a", "x", "t1"),
		rec(2, "b", "", "t2"),
	}
	got := Filter(rs, Filters{ColumnSecrets: "x"})
	assert.Equal(t, []reports.ReportID{1}, ids(got))
}
