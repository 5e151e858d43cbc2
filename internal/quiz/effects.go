package quiz

import "time"

// Cue is the audio signal requested for an outcome.
type Cue string

const (
	// CueCorrect accompanies a correct answer or photo.
	CueCorrect Cue = "correct"
	// CueIncorrect accompanies a wrong answer or photo.
	CueIncorrect Cue = "incorrect"
)

// EffectKind identifies a request to a collaborator.
type EffectKind string

const (
	// EffectCue asks the audio emitter to play a cue.
	EffectCue EffectKind = "cue"
	// EffectSchedule asks for a TimerElapsed event after a delay.
	EffectSchedule EffectKind = "schedule"
	// EffectLoadImage asks the prefetcher to probe an image and report back
	// with exactly one ImageResolved event.
	EffectLoadImage EffectKind = "load_image"
	// EffectShowError asks the renderer to show an error indicator.
	EffectShowError EffectKind = "show_error"
	// EffectClearInput asks the renderer to empty the answer field.
	EffectClearInput EffectKind = "clear_input"
)

// Timer identifies a scheduled pacing delay. Seq ties it to the state that
// scheduled it so stale timers are ignored.
type Timer struct {
	Seq int `json:"seq"`
}

// Effect is a side effect the engine asks its collaborators to perform.
type Effect struct {
	Kind    EffectKind    `json:"kind"`
	Cue     Cue           `json:"cue,omitempty"`
	Timer   Timer         `json:"timer,omitempty"`
	Delay   time.Duration `json:"delay,omitempty"`
	URI     string        `json:"uri,omitempty"`
	Message string        `json:"message,omitempty"`
}

func cueEffect(cue Cue) Effect {
	return Effect{Kind: EffectCue, Cue: cue}
}

func scheduleEffect(seq int, delay time.Duration) Effect {
	return Effect{Kind: EffectSchedule, Timer: Timer{Seq: seq}, Delay: delay}
}

func errorEffect(message string) Effect {
	return Effect{Kind: EffectShowError, Message: message}
}
