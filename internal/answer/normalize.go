package answer

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize trims whitespace and case-folds an answer for matching.
func Normalize(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}
