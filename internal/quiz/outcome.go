package quiz

// Outcome classifies a single evaluated attempt.
type Outcome int

const (
	// OutcomeCorrect moves on through the clue, image, and advance chain.
	OutcomeCorrect Outcome = iota
	// OutcomeIncorrectRetryable keeps the session on the same step.
	OutcomeIncorrectRetryable
	// OutcomeIncorrectAdvanceable moves on after feedback.
	OutcomeIncorrectAdvanceable
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrectRetryable:
		return "incorrect_retryable"
	case OutcomeIncorrectAdvanceable:
		return "incorrect_advanceable"
	default:
		return "unknown"
	}
}

func classifyOutcome(correct bool, policy Policy) Outcome {
	switch {
	case correct:
		return OutcomeCorrect
	case policy.RequireCorrectAnswers:
		return OutcomeIncorrectRetryable
	default:
		return OutcomeIncorrectAdvanceable
	}
}
