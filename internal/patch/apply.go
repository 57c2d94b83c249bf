// Package patch applies line-level text fixes derived from auto-fixable
// review comments. Mutation is line-granular text substitution; untouched
// lines stay byte-identical and the original line-ending style is preserved.
package patch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agentic-dev/reviewctl/internal/review"
)

// AppliedFix records the outcome of one fix attempt. It is immutable after
// creation and only lives for the current run.
type AppliedFix struct {
	Comment *review.Comment
	Path    string
	Success bool
	Message string
}

var (
	useKeywordRe = regexp.MustCompile("(?i)use\\s+[`']?(const|let)[`']?\\s+instead")
	varTokenRe   = regexp.MustCompile(`\b(var|let|const)\b`)
	multiSpaceRe = regexp.MustCompile(`  +`)
	typoPairRe   = regexp.MustCompile("[`'\"](\\w+)[`'\"]\\s*(?:→|->|to|should be)\\s*[`'\"](\\w+)[`'\"]")
)

// Applier performs single-line text fixes inside a working tree.
type Applier struct {
	logger  *slog.Logger
	workDir string
}

// NewApplier constructs an Applier rooted at the given working directory.
func NewApplier(logger *slog.Logger, workDir string) *Applier {
	if workDir == "" {
		workDir = "."
	}
	return &Applier{logger: logger, workDir: workDir}
}

// ApplyAll runs Apply for every auto-fixable comment. Failures are recorded
// per attempt and never abort the batch; comments with other difficulties are
// skipped.
func (a *Applier) ApplyAll(comments []*review.Comment, dryRun bool) []AppliedFix {
	var results []AppliedFix
	for _, c := range comments {
		if c.Analysis.Difficulty != review.DifficultyAuto {
			continue
		}
		results = append(results, a.Apply(c, dryRun))
	}
	return results
}

// Apply performs exactly one of five mutually exclusive single-line
// transformations selected by the comment body, first match wins. In dry-run
// mode the change is computed and reported without writing the file.
func (a *Applier) Apply(c *review.Comment, dryRun bool) AppliedFix {
	if strings.TrimSpace(c.Path) == "" {
		return AppliedFix{Comment: c, Success: false, Message: "No file path specified"}
	}

	fail := func(msg string) AppliedFix {
		return AppliedFix{Comment: c, Path: c.Path, Success: false, Message: msg}
	}

	fullPath := filepath.Join(a.workDir, filepath.FromSlash(c.Path))
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fail(fmt.Sprintf("File not found: %s", c.Path))
		}
		return fail(fmt.Sprintf("Cannot read file: %v", err))
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return fail(fmt.Sprintf("Cannot read file: %v", err))
	}
	lines := splitLines(string(data))

	idx := c.Line - 1
	newLine, message, ok := a.transformLine(c, lines, idx)
	if !ok {
		return fail("Could not determine how to apply fix")
	}
	lines[idx] = newLine

	if dryRun {
		message += " (dry run)"
	} else {
		if err := writeFile(fullPath, strings.Join(lines, ""), info.Mode()); err != nil {
			return fail(fmt.Sprintf("Failed to write: %v", err))
		}
	}

	if a.logger != nil {
		a.logger.Debug("applied line fix", "path", c.Path, "line", c.Line, "message", message, "dry_run", dryRun)
	}
	return AppliedFix{Comment: c, Path: c.Path, Success: true, Message: message}
}

// transformLine selects and runs the first matching transformation. It
// reports failure when no transformation matches, the target line is out of
// range, or the selected transformation does not change the line's text.
func (a *Applier) transformLine(c *review.Comment, lines []string, idx int) (string, string, bool) {
	if idx < 0 || idx >= len(lines) {
		return "", "", false
	}

	old := lines[idx]
	content, eol := splitLineEnding(old)
	lower := strings.ToLower(c.Body)

	var (
		newContent string
		message    string
	)

	switch {
	case useKeywordRe.MatchString(lower):
		target := strings.ToLower(useKeywordRe.FindStringSubmatch(c.Body)[1])
		newContent = replaceFirst(content, varTokenRe, target)
		message = fmt.Sprintf("Changed to `%s`", target)

	case strings.Contains(lower, "extra") && (strings.Contains(lower, "space") || strings.Contains(lower, "whitespace")):
		newContent = strings.TrimRight(multiSpaceRe.ReplaceAllString(content, " "), " \t")
		message = "Removed extra whitespace"

	case strings.Contains(lower, "missing") && strings.Contains(lower, "semicolon"):
		trimmed := strings.TrimRight(content, " \t")
		if endsWithAny(trimmed, ";", "{", "}", ":") {
			return "", "", false
		}
		newContent = trimmed + ";"
		message = "Added semicolon"

	case strings.Contains(c.Body, "```suggestion"):
		suggestion, ok := review.SuggestionBlock(c.Body)
		if !ok {
			return "", "", false
		}
		newContent = suggestion
		message = "Applied suggestion"

	case strings.Contains(lower, "typo"):
		m := typoPairRe.FindStringSubmatch(c.Body)
		if m == nil {
			return "", "", false
		}
		newContent = strings.Replace(content, m[1], m[2], 1)
		message = fmt.Sprintf("Fixed typo: %s → %s", m[1], m[2])

	default:
		return "", "", false
	}

	if newContent == content {
		return "", "", false
	}
	return newContent + eol, message, true
}

// writeFile rewrites the file in place keeping its permission bits.
func writeFile(path, content string, mode fs.FileMode) error {
	return os.WriteFile(path, []byte(content), mode.Perm())
}

// splitLines splits text into lines keeping each line's terminator attached.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// splitLineEnding separates a line into its content and terminator ("\r\n", "\n" or none).
func splitLineEnding(line string) (string, string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

// replaceFirst substitutes only the first match of re in s.
func replaceFirst(s string, re *regexp.Regexp, replacement string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + replacement + s[loc[1]:]
}

func endsWithAny(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
