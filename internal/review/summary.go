package review

// PRInfo identifies the pull request a summary describes.
type PRInfo struct {
	Number int
	Title  string
	URL    string
}

// Summary buckets all classified comments of one pull request. Each comment
// lands in exactly one bucket and bucket order mirrors fetch order. A Summary
// is rebuilt from scratch on every analysis run.
type Summary struct {
	PR            PRInfo
	TotalComments int

	AutoFixable  []*Comment
	SimpleFixes  []*Comment
	ComplexFixes []*Comment
	Discussions  []*Comment
	Resolved     []*Comment
}

// Summarize classifies every fetched comment and routes each into exactly one
// bucket. Approval and resolved categories go to the resolved bucket
// regardless of difficulty; the remaining comments are routed by difficulty
// with complex as the catch-all.
func Summarize(pr PRInfo, comments []*Comment, cl *Classifier) *Summary {
	if cl == nil {
		cl = NewClassifier()
	}

	s := &Summary{PR: pr, TotalComments: len(comments)}
	for _, c := range comments {
		cl.Classify(c)

		switch {
		case c.Analysis.Category == CategoryApproval || c.Analysis.Category == CategoryResolved:
			s.Resolved = append(s.Resolved, c)
		case c.Analysis.Difficulty == DifficultyAuto:
			s.AutoFixable = append(s.AutoFixable, c)
		case c.Analysis.Difficulty == DifficultySimple:
			s.SimpleFixes = append(s.SimpleFixes, c)
		case c.Analysis.Difficulty == DifficultyDiscussion:
			s.Discussions = append(s.Discussions, c)
		default:
			s.ComplexFixes = append(s.ComplexFixes, c)
		}
	}
	return s
}
