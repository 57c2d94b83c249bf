package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAlreadyFixed(t *testing.T) {
	tests := []struct {
		name    string
		replies []string
		fixed   bool
	}{
		{name: "fixed in commit", replies: []string{"Fixed in commit abc123"}, fixed: true},
		{name: "disagreement", replies: []string{"I disagree"}, fixed: false},
		{name: "done", replies: []string{"done"}, fixed: true},
		{name: "checkmark glyph", replies: []string{"✅"}, fixed: true},
		{name: "case insensitive", replies: []string{"RESOLVED, thanks"}, fixed: true},
		{name: "later reply wins", replies: []string{"will look", "applied in the next push"}, fixed: true},
		{name: "no replies", replies: nil, fixed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []Raw{{ID: 10, Body: "please fix"}}
			for i, body := range tt.replies {
				raw = append(raw, Raw{ID: int64(100 + i), Body: body, InReplyTo: 10})
			}

			comments := FromRaw(raw)
			require.Len(t, comments, 1)
			DetectAlreadyFixed(comments, raw)

			assert.Equal(t, tt.fixed, comments[0].Analysis.IsFixed)
			assert.Equal(t, tt.replies, comments[0].Analysis.Replies)
		})
	}
}

func TestDetectAlreadyFixedKeepsReplyOrder(t *testing.T) {
	raw := []Raw{
		{ID: 1, Body: "parent"},
		{ID: 2, Body: "first", InReplyTo: 1},
		{ID: 3, Body: "second", InReplyTo: 1},
		{ID: 4, Body: "third", InReplyTo: 1},
	}

	comments := FromRaw(raw)
	require.Len(t, comments, 1)
	DetectAlreadyFixed(comments, raw)

	assert.Equal(t, []string{"first", "second", "third"}, comments[0].Analysis.Replies)
	assert.False(t, comments[0].Analysis.IsFixed)
}

func TestFromRaw(t *testing.T) {
	raw := []Raw{
		{ID: 1, Author: "alice", Body: "top level", Path: "main.go", Line: 12, State: "SUBMITTED"},
		{ID: 2, Author: "bob", Body: "a reply", InReplyTo: 1},
		{ID: 3, Author: "carol", Body: "outdated", Path: "util.go", OriginalLine: 7, State: ""},
	}

	comments := FromRaw(raw)
	require.Len(t, comments, 2)

	assert.Equal(t, int64(1), comments[0].ID)
	assert.Equal(t, 12, comments[0].Line)
	assert.Equal(t, CategoryUnknown, comments[0].Analysis.Category)
	assert.Equal(t, DifficultyComplex, comments[0].Analysis.Difficulty)
	assert.False(t, comments[0].Analysis.Classified())

	// Line falls back to the original diff line, state defaults to submitted.
	assert.Equal(t, 7, comments[1].Line)
	assert.Equal(t, "SUBMITTED", comments[1].State)
}
