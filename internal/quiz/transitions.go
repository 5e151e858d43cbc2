package quiz

import (
	"strings"

	"quizdeck/internal/answer"
	"quizdeck/internal/deck"
	"quizdeck/internal/photo"
)

// Submit evaluates an answer, a choice label, or a captured photo reference
// for the current step. Blank input and input arriving outside
// AwaitingSubmission leave the session untouched.
func (s Session) Submit(input string) (Session, []Effect) {
	if s.State.Kind != KindAwaitingSubmission {
		return s, nil
	}
	step, ok := s.Current()
	if !ok {
		return s, nil
	}
	switch step.Modality {
	case deck.ModalityCamera:
		return s.capturePhoto(input)
	case deck.ModalityChoice:
		return s.submitChoice(step, input)
	default:
		return s.submitText(step, input)
	}
}

// SubmitChoice selects the choice at index for the current choice step.
func (s Session) SubmitChoice(index int) (Session, []Effect) {
	step, ok := s.Current()
	if !ok || step.Modality != deck.ModalityChoice || index < 0 || index >= len(step.Choices) {
		return s, nil
	}
	return s.Submit(step.Choices[index])
}

func (s Session) submitText(step deck.Step, input string) (Session, []Effect) {
	if strings.TrimSpace(input) == "" {
		return s, nil
	}
	outcome := classifyOutcome(answer.IsCorrect(input, step.Answer...), s.Policy)
	switch outcome {
	case OutcomeCorrect:
		return s.correct()
	case OutcomeIncorrectRetryable:
		s.State = awaiting(s.Cursor)
		s.State.Error = WrongAnswerMessage
		return s, []Effect{
			cueEffect(CueIncorrect),
			errorEffect(WrongAnswerMessage),
			{Kind: EffectClearInput},
		}
	default:
		seq := s.nextTimer()
		s.State = State{
			Kind:     KindShowingFeedback,
			Step:     s.Cursor,
			FollowUp: FollowUpAdvance,
			Error:    WrongAnswerMessage,
			Selected: -1,
			TimerSeq: seq,
		}
		return s, []Effect{
			cueEffect(CueIncorrect),
			errorEffect(WrongAnswerMessage),
			scheduleEffect(seq, s.Pacing.Feedback),
		}
	}
}

func (s Session) submitChoice(step deck.Step, label string) (Session, []Effect) {
	selected := choiceIndex(step.Choices, label)
	if selected < 0 {
		return s, nil
	}
	outcome := classifyOutcome(answer.IsCorrect(step.Choices[selected], step.Answer...), s.Policy)
	if outcome == OutcomeCorrect {
		next, effects := s.correct()
		next.State.Selected = selected
		return next, effects
	}
	followUp := FollowUpAdvance
	if outcome == OutcomeIncorrectRetryable {
		followUp = FollowUpRetry
	}
	seq := s.nextTimer()
	s.State = State{
		Kind:      KindShowingFeedback,
		Step:      s.Cursor,
		FollowUp:  followUp,
		Error:     WrongAnswerMessage,
		Selected:  selected,
		Highlight: answer.Matching(step.Choices, step.Answer...),
		TimerSeq:  seq,
	}
	return s, []Effect{
		cueEffect(CueIncorrect),
		errorEffect(WrongAnswerMessage),
		scheduleEffect(seq, s.Pacing.ChoiceFeedback),
	}
}

// choiceIndex finds the rendered choice a label refers to, preferring an
// exact match.
func choiceIndex(choices []string, label string) int {
	for i, choice := range choices {
		if choice == label {
			return i
		}
	}
	if strings.TrimSpace(label) == "" {
		return -1
	}
	for i, choice := range choices {
		if answer.Normalize(choice) == answer.Normalize(label) {
			return i
		}
	}
	return -1
}

func (s Session) capturePhoto(ref string) (Session, []Effect) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return s, nil
	}
	s.State = State{Kind: KindAwaitingPhotoJudgement, Step: s.Cursor, Photo: ref, Selected: -1}
	return s, nil
}

// correct scores the current step and enters the clue, image, advance chain.
func (s Session) correct() (Session, []Effect) {
	s.Score++
	s, effects := s.afterCorrect()
	return s, append([]Effect{cueEffect(CueCorrect)}, effects...)
}

func (s Session) afterCorrect() (Session, []Effect) {
	step, _ := s.Current()
	if step.Clue != "" {
		s.State = State{Kind: KindShowingClue, Step: s.Cursor, WasCorrect: true, Selected: -1}
		return s, nil
	}
	return s.revealImage()
}

// revealImage asks for the step image, or schedules the advance when the step
// has none.
func (s Session) revealImage() (Session, []Effect) {
	step, _ := s.Current()
	if step.Image != "" {
		s.State = State{
			Kind:       KindShowingFeedback,
			Step:       s.Cursor,
			WasCorrect: true,
			FollowUp:   FollowUpImage,
			Selected:   -1,
		}
		return s, []Effect{{Kind: EffectLoadImage, URI: step.Image}}
	}
	seq := s.nextTimer()
	s.State = State{
		Kind:       KindShowingFeedback,
		Step:       s.Cursor,
		WasCorrect: true,
		FollowUp:   FollowUpAdvance,
		Selected:   -1,
		TimerSeq:   seq,
	}
	return s, []Effect{scheduleEffect(seq, s.Pacing.Advance)}
}

// AcknowledgeClue continues from a clue to the image check.
func (s Session) AcknowledgeClue() (Session, []Effect) {
	if s.State.Kind != KindShowingClue {
		return s, nil
	}
	return s.revealImage()
}

// ImageResolved consumes the outcome of the image probe. A failed probe is
// treated as if the step had no image.
func (s Session) ImageResolved(loaded bool) (Session, []Effect) {
	if s.State.Kind != KindShowingFeedback || s.State.FollowUp != FollowUpImage {
		return s, nil
	}
	if !loaded {
		return s.Advance()
	}
	s.State = State{Kind: KindShowingImage, Step: s.Cursor, WasCorrect: true, Selected: -1}
	if s.Pacing.ImageDwell > 0 {
		seq := s.nextTimer()
		s.State.TimerSeq = seq
		return s, []Effect{scheduleEffect(seq, s.Pacing.ImageDwell)}
	}
	return s, nil
}

// AcknowledgeImage advances from a shown image.
func (s Session) AcknowledgeImage() (Session, []Effect) {
	if s.State.Kind != KindShowingImage {
		return s, nil
	}
	return s.Advance()
}

// TimerElapsed performs the follow-up a scheduled timer was waiting for.
// Timers that do not belong to the current state are ignored.
func (s Session) TimerElapsed(timer Timer) (Session, []Effect) {
	if timer.Seq == 0 || timer.Seq != s.State.TimerSeq {
		return s, nil
	}
	switch s.State.Kind {
	case KindShowingImage:
		return s.Advance()
	case KindShowingFeedback:
		switch s.State.FollowUp {
		case FollowUpAdvance:
			return s.Advance()
		case FollowUpRetry:
			s.State = awaiting(s.Cursor)
			return s, nil
		}
	}
	return s, nil
}

// JudgePhoto records the user's verdict on the captured photo.
func (s Session) JudgePhoto(verdict photo.Verdict) (Session, []Effect) {
	if s.State.Kind != KindAwaitingPhotoJudgement {
		return s, nil
	}
	switch verdict {
	case photo.VerdictCorrect:
		s.Score++
		s.State = State{Kind: KindPhotoJudged, Step: s.Cursor, Verdict: verdict, Photo: s.State.Photo, WasCorrect: true, Selected: -1}
		return s, []Effect{cueEffect(CueCorrect)}
	case photo.VerdictIncorrect:
		s.State = State{Kind: KindPhotoJudged, Step: s.Cursor, Verdict: verdict, Photo: s.State.Photo, Selected: -1}
		return s, []Effect{cueEffect(CueIncorrect)}
	default:
		return s, nil
	}
}

// ContinueFromPhotoJudgement moves on after a correct photo, or returns to a
// fresh capture of the same step after an incorrect one.
func (s Session) ContinueFromPhotoJudgement() (Session, []Effect) {
	if s.State.Kind != KindPhotoJudged {
		return s, nil
	}
	if s.State.Verdict == photo.VerdictCorrect {
		return s.afterCorrect()
	}
	s.State = awaiting(s.Cursor)
	return s, nil
}

// Advance moves the cursor to the next step, completing the session after
// the last one.
func (s Session) Advance() (Session, []Effect) {
	if s.Finished() {
		return s, nil
	}
	s.Cursor++
	if s.Cursor >= len(s.Steps) {
		s.Cursor = len(s.Steps)
		s.State = completed(s.Cursor)
		return s, nil
	}
	s.State = awaiting(s.Cursor)
	return s, nil
}

func (s *Session) nextTimer() int {
	s.timerSeq++
	return s.timerSeq
}
