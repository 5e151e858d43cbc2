package server

import (
	"quizdeck/internal/deck"
	"quizdeck/internal/quiz"
	"quizdeck/internal/summary"
)

type stepView struct {
	Question string        `json:"question"`
	Modality deck.Modality `json:"modality"`
	Choices  []string      `json:"choices,omitempty"`
	Clue     string        `json:"clue,omitempty"`
	Image    string        `json:"image,omitempty"`
}

type effectView struct {
	Kind    quiz.EffectKind `json:"kind"`
	Cue     quiz.Cue        `json:"cue,omitempty"`
	Seq     int             `json:"seq,omitempty"`
	DelayMs int64           `json:"delayMs,omitempty"`
	URI     string          `json:"uri,omitempty"`
	Message string          `json:"message,omitempty"`
}

type sessionView struct {
	ID         string          `json:"id"`
	Deck       string          `json:"deck"`
	Icon       string          `json:"icon"`
	Mode       string          `json:"mode"`
	State      quiz.State      `json:"state"`
	Step       *stepView       `json:"step,omitempty"`
	StepNumber int             `json:"stepNumber"`
	Total      int             `json:"total"`
	Progress   float64         `json:"progress"`
	Score      int             `json:"score"`
	Effects    []effectView    `json:"effects"`
	Summary    *summary.Report `json:"summary,omitempty"`
	Lines      []string        `json:"summaryLines,omitempty"`
}

// projectSession renders a session and the effects of its last transition.
func projectSession(s quiz.Session, effects []quiz.Effect) sessionView {
	view := sessionView{
		ID:       s.ID,
		Deck:     s.DeckName,
		Icon:     s.DeckIcon,
		Mode:     "Practice",
		State:    s.State,
		Total:    s.Total(),
		Progress: s.Progress(),
		Score:    s.Score,
		Effects:  make([]effectView, 0, len(effects)),
	}
	if s.Policy.RequireCorrectAnswers {
		view.Mode = "Strict"
	}
	if step, ok := s.Current(); ok {
		view.StepNumber = s.Cursor + 1
		current := &stepView{
			Question: step.Question,
			Modality: step.Modality,
			Choices:  step.Choices,
		}
		switch s.State.Kind {
		case quiz.KindShowingClue:
			current.Clue = step.Clue
		case quiz.KindShowingImage:
			current.Image = step.Image
		}
		view.Step = current
	}
	for _, effect := range effects {
		view.Effects = append(view.Effects, effectView{
			Kind:    effect.Kind,
			Cue:     effect.Cue,
			Seq:     effect.Timer.Seq,
			DelayMs: effect.Delay.Milliseconds(),
			URI:     effect.URI,
			Message: effect.Message,
		})
	}
	if s.Finished() {
		report := summary.Summarize(s)
		view.Summary = &report
		view.Lines = report.Lines()
	}
	return view
}
