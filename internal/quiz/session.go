package quiz

import (
	"time"

	"github.com/google/uuid"

	"quizdeck/internal/deck"
)

// Policy holds the deck-level flags that shape progression.
type Policy struct {
	RequireCorrectAnswers bool
	MaxQuestions          int
}

// Pacing holds the fixed delays before automatic transitions.
type Pacing struct {
	// Advance is the pause after a correct answer with no image.
	Advance time.Duration
	// Feedback is how long a wrong text answer is shown in practice mode.
	Feedback time.Duration
	// ChoiceFeedback is how long a wrong choice is highlighted.
	ChoiceFeedback time.Duration
	// ImageDwell advances from an image automatically when positive.
	ImageDwell time.Duration
}

// DefaultPacing returns the standard delays.
func DefaultPacing() Pacing {
	return Pacing{
		Advance:        time.Second,
		Feedback:       1500 * time.Millisecond,
		ChoiceFeedback: 2500 * time.Millisecond,
	}
}

// Options configures Start.
type Options struct {
	ID      string
	Shuffle deck.Shuffler
	Pacing  *Pacing
}

// Session is the complete state of a running quiz. Transitions take a Session
// by value and return the next one.
type Session struct {
	ID       string
	DeckName string
	DeckIcon string
	Steps    []deck.Step
	Cursor   int
	Score    int
	Policy   Policy
	Pacing   Pacing
	State    State

	timerSeq int
}

// Start materializes a deck and opens a session on its first step.
func Start(d deck.Deck, opts Options) Session {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	pacing := DefaultPacing()
	if opts.Pacing != nil {
		pacing = *opts.Pacing
	}
	session := Session{
		ID:       id,
		DeckName: d.Name,
		DeckIcon: d.DisplayIcon(),
		Steps:    deck.Materialize(d, opts.Shuffle),
		Policy: Policy{
			RequireCorrectAnswers: d.RequireCorrectAnswers,
			MaxQuestions:          d.MaxQuestions,
		},
		Pacing: pacing,
	}
	if len(session.Steps) == 0 {
		session.State = completed(0)
		return session
	}
	session.State = awaiting(0)
	return session
}

// Total returns the number of steps in the session.
func (s Session) Total() int {
	return len(s.Steps)
}

// Finished reports whether the session reached Completed.
func (s Session) Finished() bool {
	return s.State.Kind == KindCompleted
}

// Current returns the step under the cursor.
func (s Session) Current() (deck.Step, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Steps) {
		return deck.Step{}, false
	}
	return s.Steps[s.Cursor], true
}

// Progress returns cursor / total, and 1 once the session is completed.
func (s Session) Progress() float64 {
	if s.Finished() || len(s.Steps) == 0 {
		return 1
	}
	return float64(s.Cursor) / float64(len(s.Steps))
}
