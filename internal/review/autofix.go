package review

import (
	"fmt"
	"regexp"
	"strings"
)

// fixTemplate pairs a body pattern with a generator that renders a
// human-readable fix description from the submatches.
type fixTemplate struct {
	re       *regexp.Regexp
	describe func(m []string) string
}

// suggestionBlockRe captures the content of a fenced GitHub suggestion block.
var suggestionBlockRe = regexp.MustCompile("(?s)```suggestion[ \t]*\n(.*?)\n```")

// fencedBlockRe captures the content of any fenced code block.
var fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\n(.*?)\n```")

// insteadRe captures an inline-code replacement reference such as "`x` instead".
var insteadRe = regexp.MustCompile("(?i)[`']([^`']+)[`']\\s*instead")

// simpleFixIndicators are body substrings that suggest a one-line manual fix.
var simpleFixIndicators = []string{
	"rename", "typo", "import", "const", "let", "var",
	"semicolon", "comma", "bracket", "parenthesis",
	"guard", "check", "if not", "or []", "or {}", "= None",
	"exists", "missing",
}

// FixMatcher derives suggested fixes from comment bodies using an ordered
// template table; iteration order is load-bearing, the first matching
// template wins.
type FixMatcher struct {
	templates []fixTemplate
}

// NewFixMatcher constructs a FixMatcher with the built-in template table.
func NewFixMatcher() *FixMatcher {
	return &FixMatcher{templates: []fixTemplate{
		{
			re: regexp.MustCompile("(?i)use\\s+[`']?(const|let)[`']?\\s+instead\\s+of\\s+[`']?(var|let|const)[`']?"),
			describe: func(m []string) string {
				return fmt.Sprintf("Replace `%s` with `%s`", strings.ToLower(m[2]), strings.ToLower(m[1]))
			},
		},
		{
			re:       regexp.MustCompile(`(?i)remove\s+(unused|extra)\s+import`),
			describe: func(m []string) string { return "Remove unused import" },
		},
		{
			re: regexp.MustCompile(`(?i)add\s+missing\s+(semicolon|comma|bracket)`),
			describe: func(m []string) string {
				return fmt.Sprintf("Add missing %s", strings.ToLower(m[1]))
			},
		},
		{
			re: regexp.MustCompile("(?i)(typo|spelling).*[`']?(\\w+)[`']?.*[`']?(\\w+)[`']?"),
			describe: func(m []string) string {
				return fmt.Sprintf("Fix typo: `%s` → `%s`", m[2], m[3])
			},
		},
		{
			re:       regexp.MustCompile(`(?i)extra\s+(space|whitespace|line)`),
			describe: func(m []string) string { return "Remove extra whitespace" },
		},
		{
			re: regexp.MustCompile(`(?i)missing\s+(space|newline)`),
			describe: func(m []string) string {
				return fmt.Sprintf("Add missing %s", strings.ToLower(m[1]))
			},
		},
		{
			re: regexp.MustCompile("(?i)should\\s+(return|be)\\s+[`']?(\\w+)[`']?"),
			describe: func(m []string) string {
				return fmt.Sprintf("Change return value to `%s`", m[2])
			},
		},
		{
			re: regexp.MustCompile("(?i)rename\\s+[`']?(\\w+)[`']?\\s+to\\s+[`']?(\\w+)[`']?"),
			describe: func(m []string) string {
				return fmt.Sprintf("Rename `%s` to `%s`", m[1], m[2])
			},
		},
	}}
}

// Match tries each template in declaration order against the comment body and
// returns the first generated fix description. When no template matches it
// falls through to the suggestion-block, short-code-block, and inline-instead
// detectors, in that order.
func (fm *FixMatcher) Match(body string) (string, bool) {
	for _, t := range fm.templates {
		if m := t.re.FindStringSubmatch(body); m != nil {
			return t.describe(m), true
		}
	}

	if content, ok := SuggestionBlock(body); ok {
		return "Apply suggestion:\n" + content, true
	}

	if m := fencedBlockRe.FindStringSubmatch(body); m != nil {
		code := strings.TrimSpace(m[1])
		if strings.Count(code, "\n") <= 2 && len(code) < 200 {
			return "Apply code fix:\n```\n" + code + "\n```", true
		}
	}

	if m := insteadRe.FindStringSubmatch(body); m != nil {
		return fmt.Sprintf("Use `%s` instead", m[1]), true
	}

	return "", false
}

// SuggestionBlock extracts the verbatim content of a fenced suggestion block
// embedded in a comment body.
func SuggestionBlock(body string) (string, bool) {
	m := suggestionBlockRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// HasFencedCode reports whether the body embeds any fenced code block.
func HasFencedCode(body string) bool {
	return fencedBlockRe.MatchString(body)
}

// IsSimpleFix is the heuristic used when no auto-fix template matched: a fix
// counts as simple when the body embeds a fenced code block of at most three
// lines or contains any of the simple-fix indicator substrings.
func IsSimpleFix(body string) bool {
	if m := fencedBlockRe.FindStringSubmatch(body); m != nil {
		code := strings.TrimSpace(m[1])
		if strings.Count(code, "\n") < 3 {
			return true
		}
	}

	lower := strings.ToLower(body)
	for _, indicator := range simpleFixIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
