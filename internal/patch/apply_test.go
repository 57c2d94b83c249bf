package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-dev/reviewctl/internal/review"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func autoComment(body, path string, line int) *review.Comment {
	return &review.Comment{
		ID:       1,
		Body:     body,
		Path:     path,
		Line:     line,
		Analysis: review.Analysis{Difficulty: review.DifficultyAuto},
	}
}

func TestApplyTransformations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		body    string
		line    int
		want    string
		message string
	}{
		{
			name:    "var to const",
			content: "var x = 1\nvar y = 2\n",
			body:    "Use `const` instead of `var`",
			line:    1,
			want:    "const x = 1\nvar y = 2\n",
			message: "Changed to `const`",
		},
		{
			name:    "extra whitespace",
			content: "foo(  1,   2)\n",
			body:    "extra whitespace here",
			line:    1,
			want:    "foo( 1, 2)\n",
			message: "Removed extra whitespace",
		},
		{
			name:    "missing semicolon",
			content: "x = 1\n",
			body:    "missing semicolon",
			line:    1,
			want:    "x = 1;\n",
			message: "Added semicolon",
		},
		{
			name:    "suggestion block replaces line",
			content: "old line\nuntouched\n",
			body:    "```suggestion\nnew line\n```",
			line:    1,
			want:    "new line\nuntouched\n",
			message: "Applied suggestion",
		},
		{
			name:    "typo replaces first occurrence only",
			content: "recieve the recieve value\n",
			body:    "typo: `recieve` -> `receive`",
			line:    1,
			want:    "receive the recieve value\n",
			message: "Fixed typo: recieve → receive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeTestFile(t, dir, "target.txt", tt.content)
			applier := NewApplier(nil, dir)

			fix := applier.Apply(autoComment(tt.body, "target.txt", tt.line), false)

			require.True(t, fix.Success, fix.Message)
			assert.Equal(t, tt.message, fix.Message)
			assert.Equal(t, tt.want, readTestFile(t, path))
		})
	}
}

func TestApplyPreservesCRLF(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "win.txt", "var x = 1\r\nvar y = 2\r\n")

	fix := NewApplier(nil, dir).Apply(autoComment("use `let` instead of `var`", "win.txt", 2), false)

	require.True(t, fix.Success, fix.Message)
	assert.Equal(t, "var x = 1\r\nlet y = 2\r\n", readTestFile(t, path))
}

func TestApplyDryRunLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	content := "var x = 1\n"
	path := writeTestFile(t, dir, "target.txt", content)

	fix := NewApplier(nil, dir).Apply(autoComment("use `const` instead of `var`", "target.txt", 1), true)

	require.True(t, fix.Success)
	assert.Equal(t, "Changed to `const` (dry run)", fix.Message)
	assert.Equal(t, content, readTestFile(t, path))
}

func TestApplyFailures(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "target.txt", "x = 1;\n")

	tests := []struct {
		name    string
		comment *review.Comment
		message string
	}{
		{
			name:    "no file path",
			comment: autoComment("missing semicolon", "", 1),
			message: "No file path specified",
		},
		{
			name:    "file not found",
			comment: autoComment("missing semicolon", "gone.txt", 1),
			message: "File not found: gone.txt",
		},
		{
			name:    "semicolon already present",
			comment: autoComment("missing semicolon", "target.txt", 1),
			message: "Could not determine how to apply fix",
		},
		{
			name:    "no transformation matches body",
			comment: autoComment("please restructure this", "target.txt", 1),
			message: "Could not determine how to apply fix",
		},
		{
			name:    "line out of range",
			comment: autoComment("missing semicolon", "target.txt", 99),
			message: "Could not determine how to apply fix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fix := NewApplier(nil, dir).Apply(tt.comment, false)

			assert.False(t, fix.Success)
			assert.Equal(t, tt.message, fix.Message)
		})
	}
}

func TestApplyAllSkipsNonAutoAndContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "target.txt", "var x = 1\n")

	comments := []*review.Comment{
		autoComment("use `const` instead of `var`", "missing.txt", 1),
		{ID: 2, Body: "why?", Analysis: review.Analysis{Difficulty: review.DifficultyDiscussion}},
		autoComment("use `const` instead of `var`", "target.txt", 1),
	}

	fixes := NewApplier(nil, dir).ApplyAll(comments, false)

	require.Len(t, fixes, 2)
	assert.False(t, fixes[0].Success)
	assert.True(t, fixes[1].Success)
	assert.Equal(t, "const x = 1\n", readTestFile(t, filepath.Join(dir, "target.txt")))
}

func TestCommitMessage(t *testing.T) {
	c := autoComment("use `const` instead of `var`", "a.go", 1)

	assert.Empty(t, CommitMessage(nil))
	assert.Empty(t, CommitMessage([]AppliedFix{{Comment: c, Success: false}}))

	one := []AppliedFix{{Comment: c, Path: "a.go", Success: true, Message: "Changed to `const`"}}
	assert.Equal(t, "fix: Changed to `const`", CommitMessage(one))

	many := append(one, AppliedFix{Comment: c, Path: "b.go", Success: true, Message: "Added semicolon"})
	assert.Equal(t, "fix: address 2 review comments", CommitMessage(many))
}
