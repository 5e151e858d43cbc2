//go:build cucumber

package quiz_test

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"quizdeck/internal/deck"
	"quizdeck/internal/photo"
	"quizdeck/internal/quiz"
	"quizdeck/internal/summary"
)

// TestProgressionScenarios runs the quiz progression feature scenarios.
func TestProgressionScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "features", "quiz-progression.feature")
	suite := godog.TestSuite{
		Name:                "quiz-progression",
		ScenarioInitializer: InitializeProgressionScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeProgressionScenario wires steps for progression scenarios.
func InitializeProgressionScenario(ctx *godog.ScenarioContext) {
	state := &progressionState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a (strict|practice) deck "([^"]+)" with steps:$`, state.givenDeck)
	ctx.Step(`^images (load|fail to load)$`, state.givenImages)
	ctx.Step(`^I start the session$`, state.whenIStart)
	ctx.Step(`^I submit "([^"]*)"$`, state.whenISubmit)
	ctx.Step(`^I choose "([^"]+)"$`, state.whenIChoose)
	ctx.Step(`^I acknowledge the clue$`, state.whenIAcknowledgeClue)
	ctx.Step(`^the image resolves$`, state.whenImageResolves)
	ctx.Step(`^I acknowledge the image$`, state.whenIAcknowledgeImage)
	ctx.Step(`^the pending timer fires$`, state.whenTimerFires)
	ctx.Step(`^a stale timer fires$`, state.whenStaleTimerFires)
	ctx.Step(`^I capture photo "([^"]+)"$`, state.whenISubmit)
	ctx.Step(`^I judge the photo "(correct|incorrect)"$`, state.whenIJudge)
	ctx.Step(`^I continue$`, state.whenIContinue)
	ctx.Step(`^the state is "([^"]+)" at step (\d+)$`, state.thenStateIs)
	ctx.Step(`^the error is "([^"]+)"$`, state.thenErrorIs)
	ctx.Step(`^an? "([^"]+)" cue plays$`, state.thenCuePlays)
	ctx.Step(`^choice "([^"]+)" is highlighted$`, state.thenChoiceHighlighted)
	ctx.Step(`^the progress is ([0-9.]+)$`, state.thenProgressIs)
	ctx.Step(`^the session is completed$`, state.thenCompleted)
	ctx.Step(`^the score is (\d+)$`, state.thenScoreIs)
	ctx.Step(`^the summary reads "([^"]+)"$`, state.thenSummaryReads)
}

// progressionState holds scenario state for progression feature tests.
type progressionState struct {
	deck         deck.Deck
	imagesLoad   bool
	session      quiz.Session
	lastEffects  []quiz.Effect
	pendingTimer *quiz.Timer
}

// reset clears scenario state.
func (s *progressionState) reset() {
	*s = progressionState{imagesLoad: true}
}

// givenDeck builds a deck from a table with question, answer, choices, clue,
// image, and type columns. Multiple answers are separated by ";".
func (s *progressionState) givenDeck(mode, name string, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("deck table needs a header and at least one row")
	}
	header := table.Rows[0].Cells
	s.deck = deck.Deck{Name: name, RequireCorrectAnswers: mode == "strict"}
	for _, row := range table.Rows[1:] {
		var step deck.Step
		for i, cell := range row.Cells {
			value := strings.TrimSpace(cell.Value)
			if value == "" {
				continue
			}
			switch header[i].Value {
			case "question":
				step.Question = value
			case "answer":
				step.Answer = strings.Split(value, ";")
			case "choices":
				step.Choices = strings.Split(value, ",")
			case "clue":
				step.Clue = value
			case "image":
				step.Image = value
			case "type":
				step.Type = value
			default:
				return fmt.Errorf("unknown column %q", header[i].Value)
			}
		}
		s.deck.Steps = append(s.deck.Steps, step)
	}
	return nil
}

func (s *progressionState) givenImages(outcome string) error {
	s.imagesLoad = outcome == "load"
	return nil
}

func (s *progressionState) whenIStart() error {
	s.session = quiz.Start(s.deck, quiz.Options{ID: "scenario", Pacing: &quiz.Pacing{}})
	s.lastEffects = nil
	s.pendingTimer = nil
	return nil
}

// apply records a transition and remembers the timer it scheduled.
func (s *progressionState) apply(next quiz.Session, effects []quiz.Effect) {
	s.session = next
	s.lastEffects = effects
	for _, effect := range effects {
		if effect.Kind == quiz.EffectSchedule {
			timer := effect.Timer
			s.pendingTimer = &timer
		}
	}
}

func (s *progressionState) whenISubmit(input string) error {
	s.apply(s.session.Submit(input))
	return nil
}

func (s *progressionState) whenIChoose(label string) error {
	step, ok := s.session.Current()
	if !ok {
		return fmt.Errorf("no current step")
	}
	index := slices.Index(step.Choices, label)
	if index < 0 {
		return fmt.Errorf("choice %q not offered in %v", label, step.Choices)
	}
	s.apply(s.session.SubmitChoice(index))
	return nil
}

func (s *progressionState) whenIAcknowledgeClue() error {
	s.apply(s.session.AcknowledgeClue())
	return nil
}

func (s *progressionState) whenImageResolves() error {
	if !slices.ContainsFunc(s.lastEffects, func(e quiz.Effect) bool { return e.Kind == quiz.EffectLoadImage }) {
		return fmt.Errorf("no image load was requested, effects: %+v", s.lastEffects)
	}
	s.apply(s.session.ImageResolved(s.imagesLoad))
	return nil
}

func (s *progressionState) whenIAcknowledgeImage() error {
	s.apply(s.session.AcknowledgeImage())
	return nil
}

func (s *progressionState) whenTimerFires() error {
	if s.pendingTimer == nil {
		return fmt.Errorf("no timer is pending in state %s", s.session.State.Kind)
	}
	timer := *s.pendingTimer
	s.pendingTimer = nil
	s.apply(s.session.TimerElapsed(timer))
	return nil
}

func (s *progressionState) whenStaleTimerFires() error {
	s.apply(s.session.TimerElapsed(quiz.Timer{Seq: s.session.State.TimerSeq + 1}))
	return nil
}

func (s *progressionState) whenIJudge(verdict string) error {
	s.apply(s.session.JudgePhoto(photo.Verdict(verdict)))
	return nil
}

func (s *progressionState) whenIContinue() error {
	s.apply(s.session.ContinueFromPhotoJudgement())
	return nil
}

func (s *progressionState) thenStateIs(kind string, step int) error {
	state := s.session.State
	if string(state.Kind) != kind || state.Step != step-1 {
		return fmt.Errorf("expected %s at step %d, got %s at step %d", kind, step, state.Kind, state.Step+1)
	}
	return nil
}

func (s *progressionState) thenErrorIs(message string) error {
	if s.session.State.Error != message {
		return fmt.Errorf("expected error %q, got %q", message, s.session.State.Error)
	}
	return nil
}

func (s *progressionState) thenCuePlays(cue string) error {
	for _, effect := range s.lastEffects {
		if effect.Kind == quiz.EffectCue && string(effect.Cue) == cue {
			return nil
		}
	}
	return fmt.Errorf("expected %s cue, got %+v", cue, s.lastEffects)
}

func (s *progressionState) thenChoiceHighlighted(label string) error {
	step, _ := s.session.Current()
	index := slices.Index(step.Choices, label)
	if !slices.Contains(s.session.State.Highlight, index) {
		return fmt.Errorf("expected %q highlighted, got %v", label, s.session.State.Highlight)
	}
	return nil
}

func (s *progressionState) thenProgressIs(value float64) error {
	if got := s.session.Progress(); got != value {
		return fmt.Errorf("expected progress %v, got %v", value, got)
	}
	return nil
}

func (s *progressionState) thenCompleted() error {
	if s.session.State.Kind != quiz.KindCompleted {
		return fmt.Errorf("expected completed session, got %s", s.session.State.Kind)
	}
	return nil
}

func (s *progressionState) thenScoreIs(score int) error {
	if s.session.Score != score {
		return fmt.Errorf("expected score %d, got %d", score, s.session.Score)
	}
	return nil
}

func (s *progressionState) thenSummaryReads(line string) error {
	report := summary.Summarize(s.session)
	if !slices.Contains(report.Lines(), line) {
		return fmt.Errorf("expected summary line %q, got %v", line, report.Lines())
	}
	return nil
}
