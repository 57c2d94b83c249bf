package review

import "strings"

// fixedMarkers are substrings in a reply body taken as evidence that the
// parent comment was already remediated. The bare "done" marker matches any
// reply containing the word and is kept as-is on purpose.
var fixedMarkers = []string{
	"fixed in commit",
	"fixed in ",
	"done",
	"resolved",
	"applied",
	"✅",
}

// DetectAlreadyFixed correlates reply records to their parent comments,
// copies each parent's reply bodies in fetch order, and marks the parent as
// fixed when any reply contains a fixed marker (case-insensitive, first
// matching reply wins). Comments without replies are left untouched.
func DetectAlreadyFixed(comments []*Comment, raw []Raw) {
	replyMap := make(map[int64][]string)
	for _, r := range raw {
		if r.InReplyTo == 0 {
			continue
		}
		replyMap[r.InReplyTo] = append(replyMap[r.InReplyTo], r.Body)
	}

	for _, c := range comments {
		replies := replyMap[c.ID]
		if len(replies) == 0 {
			continue
		}
		c.Analysis.Replies = append([]string(nil), replies...)

		for _, reply := range replies {
			if containsFixedMarker(reply) {
				c.Analysis.IsFixed = true
				break
			}
		}
	}
}

// containsFixedMarker reports whether a reply body carries any fixed marker.
func containsFixedMarker(reply string) bool {
	lower := strings.ToLower(reply)
	for _, marker := range fixedMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
