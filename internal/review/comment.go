// Package review implements the comment classification and remediation core:
// the review comment model, the reply-status tracker, the ordered pattern
// classifier, the auto-fix template matcher, and the summary aggregator.
package review

import "time"

// Category is the mutually exclusive intent assigned to a comment by classification.
type Category string

const (
	CategoryCodeFix    Category = "code_fix"
	CategoryLogicIssue Category = "logic_issue"
	CategoryQuestion   Category = "question"
	CategorySuggestion Category = "suggestion"
	CategoryNitpick    Category = "nitpick"
	CategoryApproval   Category = "approval"
	CategoryResolved   Category = "resolved"
	CategoryUnknown    Category = "unknown"
)

// FixDifficulty is the mutually exclusive remediation effort assigned to a comment.
type FixDifficulty string

const (
	// DifficultyAuto marks comments that are mechanically fixable without review.
	DifficultyAuto FixDifficulty = "auto"
	// DifficultySimple marks comments needing a small manual fix.
	DifficultySimple FixDifficulty = "simple"
	// DifficultyComplex marks comments that need judgment or analysis.
	DifficultyComplex FixDifficulty = "complex"
	// DifficultyDiscussion marks comments that need a reply rather than a code fix.
	DifficultyDiscussion FixDifficulty = "discussion"
)

// Raw is the wire-level comment record as delivered by the PR-data collaborator.
// Reply comments carry the parent comment id in InReplyTo.
type Raw struct {
	ID           int64
	Author       string
	Body         string
	Path         string
	Line         int
	OriginalLine int
	DiffHunk     string
	CreatedAt    time.Time
	InReplyTo    int64
	State        string
}

// Comment is one top-level review comment plus its derived analysis fields.
// The fetched payload is immutable after construction; all mutation happens
// inside Analysis.
type Comment struct {
	ID        int64
	Author    string
	Body      string
	Path      string
	Line      int
	DiffHunk  string
	CreatedAt time.Time
	State     string

	Analysis Analysis
}

// Analysis holds the fields derived during one analysis pass. Category and
// difficulty are set exactly once per pass; IsFixed only ever transitions
// from false to true within a run.
type Analysis struct {
	Category     Category
	Difficulty   FixDifficulty
	SuggestedFix string
	DraftReply   string
	Replies      []string
	IsFixed      bool

	classified bool
}

// Classified reports whether a classification pass already ran for this comment.
func (a Analysis) Classified() bool {
	return a.classified
}

// FromRaw converts wire-level records into top-level comments, dropping
// replies. A missing line number falls back to the original diff line; a
// missing review state defaults to submitted.
func FromRaw(raw []Raw) []*Comment {
	var out []*Comment
	for _, r := range raw {
		if r.InReplyTo != 0 {
			continue
		}
		line := r.Line
		if line == 0 {
			line = r.OriginalLine
		}
		state := r.State
		if state == "" {
			state = "SUBMITTED"
		}
		out = append(out, &Comment{
			ID:        r.ID,
			Author:    r.Author,
			Body:      r.Body,
			Path:      r.Path,
			Line:      line,
			DiffHunk:  r.DiffHunk,
			CreatedAt: r.CreatedAt,
			State:     state,
			Analysis: Analysis{
				Category:   CategoryUnknown,
				Difficulty: DifficultyComplex,
			},
		})
	}
	return out
}
