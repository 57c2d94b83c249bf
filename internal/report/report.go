// Package report renders the remediation artifacts for an analyzed pull
// request: markdown context files plus a machine-readable JSON dump.
package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/agentic-dev/reviewctl/internal/jira"
	"github.com/agentic-dev/reviewctl/internal/review"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Writer renders review artifacts into an output directory.
type Writer struct {
	logger *slog.Logger
	outDir string
	tmpl   *template.Template
}

// NewWriter constructs a Writer rooted at outDir (usually <workdir>/.copilot).
func NewWriter(logger *slog.Logger, outDir string) (*Writer, error) {
	funcs := template.FuncMap{
		"categoryTitle": categoryTitle,
		"trunc":         truncate,
	}
	tmpl, err := template.New("report").Funcs(funcs).ParseFS(builtinTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	return &Writer{logger: logger, outDir: outDir, tmpl: tmpl}, nil
}

// WriteReviewArtifacts writes review.md, fixes.md, discussions.md and
// review_data.json for the summary and returns the path of the main review
// file. Fixes and discussions files are only written when their buckets are
// non-empty.
func (w *Writer) WriteReviewArtifacts(s *review.Summary) (string, error) {
	dir := filepath.Join(w.outDir, fmt.Sprintf("pr-%d", s.PR.Number))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create review dir %q: %w", dir, err)
	}

	reviewPath := filepath.Join(dir, "review.md")
	if err := w.render(reviewPath, "review.tmpl", s); err != nil {
		return "", err
	}

	if len(s.AutoFixable)+len(s.SimpleFixes)+len(s.ComplexFixes) > 0 {
		if err := w.render(filepath.Join(dir, "fixes.md"), "fixes.tmpl", s); err != nil {
			return "", err
		}
	}

	if len(s.Discussions) > 0 {
		if err := w.render(filepath.Join(dir, "discussions.md"), "discussions.tmpl", s); err != nil {
			return "", err
		}
	}

	if err := w.writeJSON(filepath.Join(dir, "review_data.json"), s); err != nil {
		return "", err
	}

	if w.logger != nil {
		w.logger.Info("review artifacts written", "dir", dir, "pr", s.PR.Number)
	}
	return reviewPath, nil
}

// WriteIssueContext writes the implementation context file for a tracker
// issue and returns its path.
func (w *Writer) WriteIssueContext(issue *jira.Issue) (string, error) {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create context dir %q: %w", w.outDir, err)
	}

	path := filepath.Join(w.outDir, "context.md")
	if err := w.render(path, "context.tmpl", issue); err != nil {
		return "", err
	}
	return path, nil
}

// PRBody renders the pull request description for a tracker issue.
func (w *Writer) PRBody(issue *jira.Issue) (string, error) {
	var sb strings.Builder
	if err := w.tmpl.ExecuteTemplate(&sb, "prbody.tmpl", issue); err != nil {
		return "", fmt.Errorf("render PR body: %w", err)
	}
	return sb.String(), nil
}

// render executes the named template into a file.
func (w *Writer) render(path, name string, data any) error {
	var sb strings.Builder
	if err := w.tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// commentJSON mirrors the shape the interactive tooling expects per comment.
type commentJSON struct {
	ID           int64  `json:"id"`
	Author       string `json:"author"`
	Body         string `json:"body"`
	FilePath     string `json:"file_path,omitempty"`
	Line         int    `json:"line,omitempty"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
	DraftReply   string `json:"draft_reply,omitempty"`
	IsFixed      bool   `json:"is_fixed"`
}

// writeJSON dumps the actionable buckets for downstream tooling.
func (w *Writer) writeJSON(path string, s *review.Summary) error {
	payload := struct {
		PRNumber    int           `json:"pr_number"`
		PRTitle     string        `json:"pr_title"`
		PRURL       string        `json:"pr_url"`
		AutoFixable []commentJSON `json:"auto_fixable"`
		SimpleFixes []commentJSON `json:"simple_fixes"`
		ComplexFix  []commentJSON `json:"complex_fixes"`
		Discussions []commentJSON `json:"discussions"`
	}{
		PRNumber:    s.PR.Number,
		PRTitle:     s.PR.Title,
		PRURL:       s.PR.URL,
		AutoFixable: toJSON(s.AutoFixable),
		SimpleFixes: toJSON(s.SimpleFixes),
		ComplexFix:  toJSON(s.ComplexFixes),
		Discussions: toJSON(s.Discussions),
	}

	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal review data: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

func toJSON(comments []*review.Comment) []commentJSON {
	out := make([]commentJSON, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentJSON{
			ID:           c.ID,
			Author:       c.Author,
			Body:         c.Body,
			FilePath:     c.Path,
			Line:         c.Line,
			Category:     string(c.Analysis.Category),
			Difficulty:   string(c.Analysis.Difficulty),
			SuggestedFix: c.Analysis.SuggestedFix,
			DraftReply:   c.Analysis.DraftReply,
			IsFixed:      c.Analysis.IsFixed,
		})
	}
	return out
}

// categoryTitle renders a category value as a heading ("code_fix" -> "Code Fix").
func categoryTitle(category review.Category) string {
	words := strings.Split(string(category), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// truncate shortens a string to at most n runes.
func truncate(n int, s string) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
