package jira

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAcceptanceCriteria(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{
			name: "marked section with bullets",
			description: "Some background.\n" +
				"Acceptance Criteria:\n" +
				"- user can log in\n" +
				"- session expires after 1h\n",
			want: []string{"user can log in", "session expires after 1h"},
		},
		{
			name: "numbered items",
			description: "AC:\n" +
				"1. validates input\n" +
				"2. returns 400 on bad payload\n",
			want: []string{"validates input", "returns 400 on bad payload"},
		},
		{
			name: "section ends at next header",
			description: "Acceptance Criteria:\n" +
				"- only this one\n" +
				"Testing Notes:\n" +
				"- not a criterion\n",
			want: []string{"only this one"},
		},
		{
			name: "fallback to bullet lines without marker",
			description: "We should do the following:\n" +
				"* first thing\n" +
				"* second thing\n",
			want: []string{"first thing", "second thing"},
		},
		{
			name:        "no criteria at all",
			description: "Just prose, nothing structured.",
			want:        nil,
		},
		{
			name:        "empty description",
			description: "",
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAcceptanceCriteria(tt.description))
		})
	}
}

func TestLooksLikeSectionHeader(t *testing.T) {
	assert.True(t, looksLikeSectionHeader("Testing Notes:"))
	assert.False(t, looksLikeSectionHeader("- bullet: with colon"))
	assert.False(t, looksLikeSectionHeader("  indented: line"))
	assert.False(t, looksLikeSectionHeader(""))
	assert.False(t, looksLikeSectionHeader("plain prose"))
	assert.False(t, looksLikeSectionHeader("1: numbered"))
}
