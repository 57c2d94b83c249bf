package patch

import "fmt"

// CommitMessage builds a conventional commit message for a batch of applied
// fixes. It returns an empty string when nothing succeeded.
func CommitMessage(fixes []AppliedFix) string {
	var successful []AppliedFix
	for _, f := range fixes {
		if f.Success {
			successful = append(successful, f)
		}
	}

	switch len(successful) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("fix: %s", successful[0].Message)
	default:
		return fmt.Sprintf("fix: address %d review comments", len(successful))
	}
}
