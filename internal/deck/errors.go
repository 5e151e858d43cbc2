package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDeckFormat reports a payload without a name or a steps list.
var ErrInvalidDeckFormat = errors.New("invalid deck format")

// ErrDeckLoad reports a deck that could not be read or decoded.
var ErrDeckLoad = errors.New("deck load failure")

// Issue captures a problem with a deck field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String renders the issue as "field: message".
func (issue Issue) String() string {
	return fmt.Sprintf("%s: %s", issue.Field, issue.Message)
}

// FormatError lists the structural problems that make a payload unusable.
type FormatError struct {
	Issues []Issue
}

// Error returns a readable message for format failures.
func (err *FormatError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ErrInvalidDeckFormat.Error()
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDeckFormat.Error(), strings.Join(parts, "; "))
}

// Is lets errors.Is match ErrInvalidDeckFormat.
func (err *FormatError) Is(target error) bool {
	return target == ErrInvalidDeckFormat
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) formatError() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &FormatError{Issues: collector.issues}
}

func loadError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDeckLoad, fmt.Sprintf(format, args...))
}
