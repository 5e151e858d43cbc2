package quiz

import "quizdeck/internal/photo"

// Kind identifies a progression state.
type Kind string

const (
	// KindAwaitingSubmission waits for an answer, a choice, or a photo.
	KindAwaitingSubmission Kind = "awaiting_submission"
	// KindShowingClue shows the clue of a correctly answered step.
	KindShowingClue Kind = "showing_clue"
	// KindShowingImage shows the image of a correctly answered step.
	KindShowingImage Kind = "showing_image"
	// KindShowingFeedback shows the outcome while a follow-up is pending.
	KindShowingFeedback Kind = "showing_feedback"
	// KindAwaitingPhotoJudgement waits for the user to judge a captured photo.
	KindAwaitingPhotoJudgement Kind = "awaiting_photo_judgement"
	// KindPhotoJudged shows the verdict of a photo until the user continues.
	KindPhotoJudged Kind = "photo_judged"
	// KindCompleted is terminal.
	KindCompleted Kind = "completed"
)

// FollowUp is the transition a feedback state is waiting to perform.
type FollowUp string

const (
	// FollowUpNone means nothing is pending.
	FollowUpNone FollowUp = ""
	// FollowUpAdvance moves to the next step when the timer fires.
	FollowUpAdvance FollowUp = "advance"
	// FollowUpRetry returns to the same step when the timer fires.
	FollowUpRetry FollowUp = "retry"
	// FollowUpImage waits for the image probe of the step.
	FollowUpImage FollowUp = "image"
)

// WrongAnswerMessage is surfaced for incorrect text and choice submissions.
const WrongAnswerMessage = "WRONG ANSWER"

// State is the visible state of a session. Renderers project it; the engine
// never reads anything back from them.
type State struct {
	Kind Kind `json:"kind"`
	// Step is the index of the step the state refers to.
	Step int `json:"step"`

	WasCorrect bool          `json:"wasCorrect,omitempty"`
	FollowUp   FollowUp      `json:"followUp,omitempty"`
	Verdict    photo.Verdict `json:"verdict,omitempty"`
	Photo      string        `json:"photo,omitempty"`
	Error      string        `json:"error,omitempty"`

	// Selected is the index of the chosen choice, or -1.
	Selected int `json:"selected"`
	// Highlight lists the choices that match the accepted answers.
	Highlight []int `json:"highlight,omitempty"`

	// TimerSeq identifies the timer a feedback or image state waits for.
	TimerSeq int `json:"timerSeq,omitempty"`
}

func awaiting(step int) State {
	return State{Kind: KindAwaitingSubmission, Step: step, Selected: -1}
}

func completed(step int) State {
	return State{Kind: KindCompleted, Step: step, Selected: -1}
}
