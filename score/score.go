// Package score extracts the care score from a model reply and maps it to a
// classification under the configured thresholds.
package score

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhcgn/mail-triage/model"
)

// ErrInvalidScore marks a model reply without a usable 0-100 integer. The
// pipeline maps it to ClassificationNone rather than guessing.
var ErrInvalidScore = errors.New("no valid integer score in model reply")

// Matches the first standalone integer between 0 and 100.
var scorePattern = regexp.MustCompile(`\b([0-9]|[1-9][0-9]|100)\b`)

// Parse returns the first integer in [0,100] found in reply.
func Parse(reply string) (int, error) {
	match := scorePattern.FindString(reply)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, snippet(reply))
	}

	n, err := strconv.Atoi(match)
	if err != nil || n < 0 || n > 100 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, match)
	}

	return n, nil
}

// Map applies the thresholds in order: red first, then blue, else none.
func Map(score, redMin, blueMin int) model.Classification {
	switch {
	case score >= redMin:
		return model.ClassificationRed
	case score >= blueMin:
		return model.ClassificationBlue
	default:
		return model.ClassificationNone
	}
}

// snippet shortens a reply for error messages and log lines.
func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	const limit = 120
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
