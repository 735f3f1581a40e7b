package response

import (
	"regexp"
	"strings"
)

var (
	directAnswerHeader = regexp.MustCompile(`(?is)1\.\s*(?:\*\*)?\s*Direct Answer\s*(?:\*\*)?\s*[:\n]+`)
	nextSectionStart   = regexp.MustCompile(`\n\s*2\.`)
	numberedLine       = regexp.MustCompile(`^\s*\d+\.`)
)

// ExtractDirectAnswer pulls the "1. Direct Answer" section out of a sectioned reply.
// Replies without that section yield their first non-empty paragraph.
func ExtractDirectAnswer(full string) string {
	if loc := directAnswerHeader.FindStringIndex(full); loc != nil {
		rest := full[loc[1]:]
		if end := nextSectionStart.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
		if answer := strings.TrimSpace(rest); answer != "" {
			return answer
		}
	}

	lines := strings.Split(full, "\n")
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "direct answer") {
			continue
		}
		var answer []string
		for _, next := range lines[i+1:] {
			if numberedLine.MatchString(next) {
				break
			}
			answer = append(answer, next)
		}
		if joined := strings.TrimSpace(strings.Join(answer, "\n")); joined != "" {
			return joined
		}
	}

	for _, p := range strings.Split(full, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return full
}
