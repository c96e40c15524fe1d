// Package scores holds the match-score helpers shared by the flatten and
// combine stages.
package scores

import (
	"regexp"
	"strings"
)

// Tennis cup tree results count sets, so a side's score is a single digit
// 0-3 (best of five at most).
var scorePattern = regexp.MustCompile(`^[0-3]:[0-3]$`)

// Validate reports whether a result string has the accepted "H:A" shape.
// It is a diagnostic predicate: the flatten stage logs failures but keeps
// the row, it does not filter on this.
func Validate(score string) bool {
	return scorePattern.MatchString(score)
}

// Reverse swaps the two halves of an "H:A" result ("2:0" -> "0:2").
// Strings without a colon pass through unchanged.
func Reverse(result string) string {
	parts := strings.Split(result, ":")
	if len(parts) < 2 {
		return result
	}
	return parts[1] + ":" + parts[0]
}
