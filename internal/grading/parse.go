package grading

import (
	"regexp"
	"strconv"
	"strings"
)

// The oracle is instructed to open with "Overall Grade: X/100"; everything
// from that token to the end of its line is stripped from the feedback.
var gradePattern = regexp.MustCompile(`(?i)Overall Grade:\s*(\d+)\s*/\s*100`)
var gradeLinePattern = regexp.MustCompile(`(?i)Overall Grade:\s*\d+\s*/\s*100.*`)

// Phrases that signal a verbalized failing verdict when the explicit grade
// token is absent.
var failingPhrases = []string{
	"completely irrelevant",
	"failing grade",
	"unacceptable submission",
}

// ParseGrade extracts the numeric grade from an oracle response.
// Fallback chain when the grade token is missing: a verbalized failing
// phrase means 0, otherwise min(100, wordCount(combined)/10).
func ParseGrade(response, combined string) (int, string) {
	if m := gradePattern.FindStringSubmatch(response); m != nil {
		grade, err := strconv.Atoi(m[1])
		if err == nil {
			feedback := strings.TrimSpace(gradeLinePattern.ReplaceAllString(response, ""))
			return grade, feedback
		}
	}

	lower := strings.ToLower(response)
	for _, phrase := range failingPhrases {
		if strings.Contains(lower, phrase) {
			return 0, response
		}
	}

	grade := len(strings.Fields(combined)) / 10
	if grade > 100 {
		grade = 100
	}
	return grade, response
}
