package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeBuckets(t *testing.T) {
	comments := FromRaw([]Raw{
		{ID: 1, Body: "LGTM"},
		{ID: 2, Body: "use `const` instead of `var`"},
		{ID: 3, Body: "nit: inconsistent spacing"},
		{ID: 4, Body: "why is this here?"},
		{ID: 5, Body: "this design needs a rethink"},
	})

	s := Summarize(PRInfo{Number: 7, Title: "add parser", URL: "https://example.com/7"}, comments, NewClassifier())

	require.Equal(t, 5, s.TotalComments)
	assert.Equal(t, []int64{1}, ids(s.Resolved))
	assert.Equal(t, []int64{2}, ids(s.AutoFixable))
	assert.Equal(t, []int64{3}, ids(s.SimpleFixes))
	assert.Equal(t, []int64{4}, ids(s.Discussions))
	assert.Equal(t, []int64{5}, ids(s.ComplexFixes))
}

func TestSummarizePartitionsEveryComment(t *testing.T) {
	bodies := []string{
		"LGTM", "approved ✅", "why?", "consider a map", "nit: typo",
		"add missing semicolon", "this will crash on empty input",
		"remove unused import", "no idea what to say", "```go\nx := 1\n```",
	}
	raw := make([]Raw, 0, len(bodies))
	for i, body := range bodies {
		raw = append(raw, Raw{ID: int64(i + 1), Body: body})
	}
	comments := FromRaw(raw)

	s := Summarize(PRInfo{Number: 1}, comments, nil)

	seen := make(map[int64]int)
	for _, bucket := range [][]*Comment{s.AutoFixable, s.SimpleFixes, s.ComplexFixes, s.Discussions, s.Resolved} {
		for _, c := range bucket {
			seen[c.ID]++
		}
	}

	require.Equal(t, len(bodies), s.TotalComments)
	assert.Len(t, seen, len(bodies))
	for id, count := range seen {
		assert.Equal(t, 1, count, "comment %d appears in multiple buckets", id)
	}
}

func TestSummarizeResolvedTrumpsDifficulty(t *testing.T) {
	// Approval comments always land in resolved even when they carry
	// actionable vocabulary.
	comments := FromRaw([]Raw{{ID: 1, Body: "LGTM, but this should be const"}})

	s := Summarize(PRInfo{Number: 1}, comments, NewClassifier())

	require.Len(t, s.Resolved, 1)
	assert.Empty(t, s.AutoFixable)
	assert.Empty(t, s.SimpleFixes)
}

func TestSummarizeKeepsFetchOrder(t *testing.T) {
	comments := FromRaw([]Raw{
		{ID: 1, Body: "why?"},
		{ID: 2, Body: "consider a rename"},
		{ID: 3, Body: "could you explain?"},
	})

	s := Summarize(PRInfo{Number: 1}, comments, nil)

	assert.Equal(t, []int64{1, 2, 3}, ids(s.Discussions))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(PRInfo{Number: 9}, nil, nil)

	assert.Zero(t, s.TotalComments)
	assert.Empty(t, s.AutoFixable)
	assert.Empty(t, s.Resolved)
}

func ids(comments []*Comment) []int64 {
	out := make([]int64, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}
