package review

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern groups for the classification cascade. All groups match against the
// lower-cased, trimmed comment body.
var (
	approvalPatterns = compileAll(
		`\blgtm\b`, `\bapproved?\b`, `\bship\s?it\b`, `👍`, `✅`,
		`\blooks?\s+good\b`, `\bnice\b`, `\bgreat\b`,
	)
	questionPatterns = compileAll(
		`\?$`, `^why\b`, `^what\b`, `^how\b`, `^can\s+you\b`,
		`^could\s+you\b`, `^should\b`, `\bexplain\b`,
	)
	nitpickPatterns = compileAll(
		`\bnit\b`, `\bnitpick\b`, `\bminor\b`, `\btypo\b`,
		`\bspacing\b`, `\bindent`, `\bwhitespace\b`, `\bformat`,
	)
	suggestionPatterns = compileAll(
		`\bconsider\b`, `\bmight\b`, `\bcould\b`, `\bmaybe\b`,
		`\bsuggestion\b`, `\boptional\b`, `\bfyi\b`,
	)
	codeFixPatterns = compileAll(
		`\bshould\s+be\b`, `\bchange\s+to\b`, `\buse\b.*\binstead\b`,
		`\breplace\b`, `\bremove\b`, `\badd\b`, `\bmissing\b`,
		`\brename\b`, `\bwrong\b`, `\bincorrect\b`, `\bbug\b`,
	)

	logicKeywords = []string{
		"logic", "handle", "case", "error", "null", "undefined",
		"edge", "guard", "none", "typeerror", "crash",
	}
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// classifierRule is one step of the priority cascade: the first rule whose
// predicate matches categorizes the comment and no later rule runs.
type classifierRule struct {
	matches func(c *Comment, body string) bool
	apply   func(cl *Classifier, c *Comment)
}

// Classifier assigns a category and a fix difficulty to review comments via
// an ordered rule cascade. Conversational intents (approval, question) sit
// before actionable ones so that overlapping vocabulary never turns a
// question into a fix.
type Classifier struct {
	matcher *FixMatcher
	rules   []classifierRule
}

// NewClassifier constructs a Classifier with the built-in rule cascade.
func NewClassifier() *Classifier {
	cl := &Classifier{matcher: NewFixMatcher()}
	cl.rules = []classifierRule{
		{
			matches: func(_ *Comment, body string) bool { return matchesAny(approvalPatterns, body) },
			apply: func(_ *Classifier, c *Comment) {
				c.Analysis.Category = CategoryApproval
				c.Analysis.Difficulty = DifficultyDiscussion
			},
		},
		{
			matches: func(_ *Comment, body string) bool { return matchesAny(questionPatterns, body) },
			apply: func(_ *Classifier, c *Comment) {
				c.Analysis.Category = CategoryQuestion
				c.Analysis.Difficulty = DifficultyDiscussion
				c.Analysis.DraftReply = questionReply(c)
			},
		},
		{
			matches: func(_ *Comment, body string) bool { return matchesAny(nitpickPatterns, body) },
			apply: func(cl *Classifier, c *Comment) {
				c.Analysis.Category = CategoryNitpick
				if fix, ok := cl.matcher.Match(c.Body); ok {
					c.Analysis.Difficulty = DifficultyAuto
					c.Analysis.SuggestedFix = fix
				} else {
					c.Analysis.Difficulty = DifficultySimple
				}
			},
		},
		{
			matches: func(_ *Comment, body string) bool { return matchesAny(suggestionPatterns, body) },
			apply: func(_ *Classifier, c *Comment) {
				c.Analysis.Category = CategorySuggestion
				c.Analysis.Difficulty = DifficultyDiscussion
				c.Analysis.DraftReply = suggestionReply()
			},
		},
		{
			matches: func(_ *Comment, body string) bool { return matchesAny(codeFixPatterns, body) },
			apply: func(cl *Classifier, c *Comment) {
				c.Analysis.Category = CategoryCodeFix
				cl.resolveFixDifficulty(c)
			},
		},
		{
			matches: func(c *Comment, _ string) bool { return HasFencedCode(c.Body) },
			apply: func(cl *Classifier, c *Comment) {
				c.Analysis.Category = CategoryCodeFix
				cl.resolveFixDifficulty(c)
			},
		},
		{
			matches: func(_ *Comment, body string) bool { return containsAny(body, logicKeywords) },
			apply: func(cl *Classifier, c *Comment) {
				c.Analysis.Category = CategoryLogicIssue
				cl.resolveFixDifficulty(c)
			},
		},
		{
			matches: func(_ *Comment, _ string) bool { return true },
			apply: func(_ *Classifier, c *Comment) {
				c.Analysis.Category = CategoryUnknown
				c.Analysis.Difficulty = DifficultyComplex
			},
		},
	}
	return cl
}

// Classify runs the rule cascade over the comment and records the resulting
// category and difficulty. It is total and deterministic; a comment that was
// already classified in this analysis pass is left untouched.
func (cl *Classifier) Classify(c *Comment) {
	if c == nil || c.Analysis.classified {
		return
	}

	body := strings.ToLower(strings.TrimSpace(c.Body))
	for _, rule := range cl.rules {
		if rule.matches(c, body) {
			rule.apply(cl, c)
			c.Analysis.classified = true
			return
		}
	}
}

// resolveFixDifficulty settles auto/simple/complex for actionable comments:
// a matched auto-fix template wins, then the simple-fix heuristic, then complex.
func (cl *Classifier) resolveFixDifficulty(c *Comment) {
	if fix, ok := cl.matcher.Match(c.Body); ok {
		c.Analysis.Difficulty = DifficultyAuto
		c.Analysis.SuggestedFix = fix
		return
	}
	if IsSimpleFix(c.Body) {
		c.Analysis.Difficulty = DifficultySimple
		return
	}
	c.Analysis.Difficulty = DifficultyComplex
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// questionReply builds a placeholder draft reply quoting the start of the question.
func questionReply(c *Comment) string {
	quoted := c.Body
	if len(quoted) > 100 {
		quoted = quoted[:100]
	}
	return fmt.Sprintf("_[Draft reply for question]_\n\n> %s...\n\nTODO: Explain the reasoning here.", quoted)
}

// suggestionReply builds the templated draft reply for optional suggestions.
func suggestionReply() string {
	return "_[Draft reply for suggestion]_\n\nThanks for the suggestion! [Accept/Decline with reason]"
}
