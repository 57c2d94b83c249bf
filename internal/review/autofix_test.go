package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixMatcherTemplates(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "const instead of var",
			body: "Use `const` instead of `var`",
			want: "Replace `var` with `const`",
		},
		{
			name: "let instead of var without backticks",
			body: "use let instead of var here",
			want: "Replace `var` with `let`",
		},
		{
			name: "unused import",
			body: "Please remove unused import",
			want: "Remove unused import",
		},
		{
			name: "missing semicolon",
			body: "add missing semicolon at the end",
			want: "Add missing semicolon",
		},
		{
			name: "missing comma",
			body: "Add missing comma",
			want: "Add missing comma",
		},
		{
			name: "extra whitespace",
			body: "there is extra whitespace on this line",
			want: "Remove extra whitespace",
		},
		{
			name: "missing newline",
			body: "missing newline at end of file",
			want: "Add missing newline",
		},
		{
			name: "should return",
			body: "this should return `nil` on failure",
			want: "Change return value to `nil`",
		},
		{
			name: "rename",
			body: "rename `tmp` to `result`",
			want: "Rename `tmp` to `result`",
		},
	}

	fm := NewFixMatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fm.Match(tt.body)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixMatcherFirstTemplateWins(t *testing.T) {
	// Both the substitution and the rename templates match; declaration
	// order decides.
	body := "use `const` instead of `var`, then rename `x` to `y`"

	got, ok := NewFixMatcher().Match(body)
	require.True(t, ok)
	assert.Equal(t, "Replace `var` with `const`", got)
}

func TestFixMatcherSuggestionBlockFallback(t *testing.T) {
	body := "Take this:\n```suggestion\nconst x = 1;\n```"

	got, ok := NewFixMatcher().Match(body)
	require.True(t, ok)
	assert.Equal(t, "Apply suggestion:\nconst x = 1;", got)
}

func TestFixMatcherShortCodeBlockFallback(t *testing.T) {
	got, ok := NewFixMatcher().Match("```go\nreturn fmt.Errorf(\"boom\")\n```")
	require.True(t, ok)
	assert.Equal(t, "Apply code fix:\n```\nreturn fmt.Errorf(\"boom\")\n```", got)
}

func TestFixMatcherLongCodeBlockRejected(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("```go\n")
	for range 10 {
		sb.WriteString("doSomething()\n")
	}
	sb.WriteString("```")

	_, ok := NewFixMatcher().Match(sb.String())
	assert.False(t, ok)
}

func TestFixMatcherInsteadFallback(t *testing.T) {
	got, ok := NewFixMatcher().Match("you want `strings.Builder` instead")
	require.True(t, ok)
	assert.Equal(t, "Use `strings.Builder` instead", got)
}

func TestFixMatcherNoMatch(t *testing.T) {
	_, ok := NewFixMatcher().Match("this whole approach needs rethinking")
	assert.False(t, ok)
}

func TestSuggestionBlock(t *testing.T) {
	content, ok := SuggestionBlock("see below\n```suggestion\nfoo(1, 2)\n```\nthanks")
	require.True(t, ok)
	assert.Equal(t, "foo(1, 2)", content)

	_, ok = SuggestionBlock("no block here")
	assert.False(t, ok)
}

func TestHasFencedCode(t *testing.T) {
	assert.True(t, HasFencedCode("```\nx\n```"))
	assert.True(t, HasFencedCode("```python\nprint(1)\n```"))
	assert.False(t, HasFencedCode("inline `code` only"))
}

func TestIsSimpleFix(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "indicator keyword", body: "missing null check", want: true},
		{name: "rename indicator", body: "please rename this", want: true},
		{name: "short code block", body: "```\nx := 1\ny := 2\n```", want: true},
		{name: "no indicators", body: "the architecture is questionable", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSimpleFix(tt.body))
		})
	}
}
