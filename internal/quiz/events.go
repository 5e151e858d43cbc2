package quiz

import "quizdeck/internal/photo"

// EventKind identifies a user gesture or collaborator report.
type EventKind string

const (
	// EventSubmit carries a text answer, a choice label, or a photo reference.
	EventSubmit EventKind = "submit"
	// EventChoose selects a choice by index.
	EventChoose EventKind = "choose"
	// EventAcknowledgeClue dismisses a clue.
	EventAcknowledgeClue EventKind = "acknowledge_clue"
	// EventImageResolved reports the outcome of an image probe.
	EventImageResolved EventKind = "image_resolved"
	// EventAcknowledgeImage dismisses an image.
	EventAcknowledgeImage EventKind = "acknowledge_image"
	// EventTimer reports an elapsed pacing delay.
	EventTimer EventKind = "timer"
	// EventJudgePhoto carries a photo verdict.
	EventJudgePhoto EventKind = "judge_photo"
	// EventContinue continues after a photo verdict.
	EventContinue EventKind = "continue"
)

// Event is an input to Reduce.
type Event struct {
	Kind        EventKind
	Input       string
	ChoiceIndex int
	ImageLoaded bool
	Timer       Timer
	Verdict     photo.Verdict
}

// Reduce applies an event to a session and returns the next session with the
// effects the collaborators must perform.
func Reduce(s Session, event Event) (Session, []Effect) {
	switch event.Kind {
	case EventSubmit:
		return s.Submit(event.Input)
	case EventChoose:
		return s.SubmitChoice(event.ChoiceIndex)
	case EventAcknowledgeClue:
		return s.AcknowledgeClue()
	case EventImageResolved:
		return s.ImageResolved(event.ImageLoaded)
	case EventAcknowledgeImage:
		return s.AcknowledgeImage()
	case EventTimer:
		return s.TimerElapsed(event.Timer)
	case EventJudgePhoto:
		return s.JudgePhoto(event.Verdict)
	case EventContinue:
		return s.ContinueFromPhotoJudgement()
	default:
		return s, nil
	}
}
