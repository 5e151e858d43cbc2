// Package photo resolves the manual judgement of a captured photo into a
// verdict. Every gesture resolves to exactly one of two verdicts or is
// rejected; there is no third outcome.
package photo

import (
	"fmt"
	"strings"
)

// Verdict is the user's judgement of a captured photo.
type Verdict string

const (
	// VerdictCorrect marks the photo as showing the expected subject.
	VerdictCorrect Verdict = "correct"
	// VerdictIncorrect marks the photo as wrong; the step is retried.
	VerdictIncorrect Verdict = "incorrect"
)

// Gesture is a single user action on the judgement control.
type Gesture interface {
	Resolve() (Verdict, bool)
}

// SplitGesture is a press on a control split into two halves. Presses on the
// right half mean correct; everything else means incorrect.
type SplitGesture struct {
	Offset float64
	Width  float64
}

// Resolve maps the press position to a verdict. A control without width
// cannot be resolved.
func (g SplitGesture) Resolve() (Verdict, bool) {
	if g.Width <= 0 {
		return "", false
	}
	if g.Offset/g.Width > 0.5 {
		return VerdictCorrect, true
	}
	return VerdictIncorrect, true
}

// KeyGesture is a key press on the terminal judgement control.
type KeyGesture string

// Resolve maps right/y to correct and left/n to incorrect.
func (g KeyGesture) Resolve() (Verdict, bool) {
	switch strings.ToLower(string(g)) {
	case "right", "l", "y":
		return VerdictCorrect, true
	case "left", "h", "n":
		return VerdictIncorrect, true
	default:
		return "", false
	}
}

// ParseVerdict reads a verdict name, as sent by the HTTP API.
func ParseVerdict(value string) (Verdict, error) {
	switch Verdict(strings.ToLower(strings.TrimSpace(value))) {
	case VerdictCorrect:
		return VerdictCorrect, nil
	case VerdictIncorrect:
		return VerdictIncorrect, nil
	default:
		return "", fmt.Errorf("invalid verdict %q (expected correct|incorrect)", value)
	}
}
