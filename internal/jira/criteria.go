package jira

import "strings"

// acSectionMarkers start an acceptance-criteria section inside a description.
var acSectionMarkers = []string{"acceptance criteria", "ac:", "criteria:"}

// ParseAcceptanceCriteria extracts acceptance criteria from an issue
// description. Lines following an acceptance-criteria marker are collected
// until another section header appears; when no marker exists, every bullet
// line in the description is used as a fallback.
func ParseAcceptanceCriteria(description string) []string {
	var criteria []string
	lines := strings.Split(description, "\n")

	inSection := false
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))

		if containsMarker(lower) {
			inSection = true
			continue
		}

		if inSection && looksLikeSectionHeader(line) {
			inSection = false
			continue
		}

		if inSection {
			if item := cleanCriterion(line); item != "" {
				criteria = append(criteria, item)
			}
		}
	}

	if len(criteria) == 0 {
		for _, line := range lines {
			stripped := strings.TrimSpace(line)
			if strings.HasPrefix(stripped, "-") || strings.HasPrefix(stripped, "*") || strings.HasPrefix(stripped, "•") {
				if item := cleanCriterion(stripped); item != "" {
					criteria = append(criteria, item)
				}
			}
		}
	}

	return criteria
}

func containsMarker(lower string) bool {
	for _, marker := range acSectionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// looksLikeSectionHeader detects a "Header:" line that terminates the
// acceptance-criteria section. Bulleted and indented lines never qualify.
func looksLikeSectionHeader(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return false
	}
	stripped := strings.TrimSpace(line)
	if strings.HasPrefix(stripped, "-") || strings.HasPrefix(stripped, "*") || strings.HasPrefix(stripped, "•") {
		return false
	}
	head, _, found := strings.Cut(line, ":")
	if !found {
		return false
	}
	return !strings.ContainsAny(head, "0123456789")
}

// cleanCriterion strips bullet and numbering prefixes from a criterion line.
func cleanCriterion(line string) string {
	item := strings.TrimSpace(line)
	item = strings.TrimLeft(item, "-*•")
	item = strings.TrimLeft(item, "0123456789.")
	return strings.TrimSpace(item)
}
