package play

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"quizdeck/internal/deck"
	"quizdeck/internal/photo"
	"quizdeck/internal/quiz"
)

// ErrInputClosed reports that input ended before the session completed.
var ErrInputClosed = errors.New("input closed before the deck was completed")

// plainRunner drives a session one line of input at a time.
type plainRunner struct {
	ctx     context.Context
	scanner *bufio.Scanner
	out     io.Writer
	opts    Options
}

// RunPlain plays a session with line prompts, for pipes and dumb terminals.
// Pacing delays are honored between prompts.
func RunPlain(ctx context.Context, session quiz.Session, in io.Reader, out io.Writer, opts Options) (quiz.Session, error) {
	opts.NoColor = true
	r := &plainRunner{ctx: ctx, scanner: bufio.NewScanner(in), out: out, opts: opts}
	fmt.Fprintln(out, formatHeader(session, true))
	for {
		if err := ctx.Err(); err != nil {
			return session, err
		}
		if session.Finished() {
			fmt.Fprintln(out)
			for _, line := range formatSummary(session, true) {
				fmt.Fprintln(out, line)
			}
			return session, nil
		}
		next, effects, err := r.prompt(session)
		if err != nil {
			return session, err
		}
		session, err = r.settle(next, effects)
		if err != nil {
			return session, err
		}
	}
}

// prompt asks for the input the current state waits for.
func (r *plainRunner) prompt(s quiz.Session) (quiz.Session, []quiz.Effect, error) {
	step, _ := s.Current()
	switch s.State.Kind {
	case quiz.KindAwaitingSubmission:
		fmt.Fprintf(r.out, "\n%s\n%s\n", formatPosition(s), step.Question)
		switch step.Modality {
		case deck.ModalityChoice:
			for i, choice := range step.Choices {
				fmt.Fprintf(r.out, "  %d. %s\n", i+1, choice)
			}
			fmt.Fprint(r.out, "Choice: ")
		case deck.ModalityCamera:
			fmt.Fprint(r.out, "Photo path: ")
		default:
			fmt.Fprint(r.out, "Answer: ")
		}
		line, err := r.readLine()
		if err != nil {
			return s, nil, err
		}
		if step.Modality == deck.ModalityChoice {
			if n, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil {
				next, effects := s.SubmitChoice(n - 1)
				return next, effects, nil
			}
		}
		next, effects := s.Submit(line)
		return next, effects, nil
	case quiz.KindShowingClue:
		fmt.Fprintf(r.out, "💡 %s\n(press enter to continue) ", step.Clue)
		if _, err := r.readLine(); err != nil {
			return s, nil, err
		}
		next, effects := s.AcknowledgeClue()
		return next, effects, nil
	case quiz.KindShowingImage:
		fmt.Fprintf(r.out, "🖼  %s\n(press enter to continue) ", step.Image)
		if _, err := r.readLine(); err != nil {
			return s, nil, err
		}
		next, effects := s.AcknowledgeImage()
		return next, effects, nil
	case quiz.KindAwaitingPhotoJudgement:
		fmt.Fprintf(r.out, "📷 %s\nWas it correct? [y/n] ", s.State.Photo)
		line, err := r.readLine()
		if err != nil {
			return s, nil, err
		}
		verdict, ok := photo.KeyGesture(strings.ToLower(strings.TrimSpace(line))).Resolve()
		if !ok {
			return s, nil, nil
		}
		next, effects := s.JudgePhoto(verdict)
		return next, effects, nil
	case quiz.KindPhotoJudged:
		fmt.Fprintf(r.out, "(press enter to continue) ")
		if _, err := r.readLine(); err != nil {
			return s, nil, err
		}
		next, effects := s.ContinueFromPhotoJudgement()
		return next, effects, nil
	default:
		return s, nil, fmt.Errorf("unexpected state %s", s.State.Kind)
	}
}

// settle performs effects until the session waits for the user again.
func (r *plainRunner) settle(s quiz.Session, effects []quiz.Effect) (quiz.Session, error) {
	r.announce(s, effects)
	for len(effects) > 0 {
		effect := effects[0]
		effects = effects[1:]
		var more []quiz.Effect
		switch effect.Kind {
		case quiz.EffectCue:
			if effect.Cue == quiz.CueIncorrect && r.opts.Bell != nil {
				_, _ = io.WriteString(r.opts.Bell, "\a")
			}
		case quiz.EffectSchedule:
			if err := sleep(r.ctx, effect.Delay); err != nil {
				return s, err
			}
			s, more = s.TimerElapsed(effect.Timer)
		case quiz.EffectLoadImage:
			loaded := false
			if r.opts.Prober != nil {
				ctx, cancel := context.WithTimeout(r.ctx, probeTimeout)
				loaded = r.opts.Prober.ProbeImage(ctx, effect.URI)
				cancel()
			}
			s, more = s.ImageResolved(loaded)
		}
		if len(more) > 0 {
			r.announce(s, more)
			effects = append(effects, more...)
		}
	}
	return s, nil
}

// announce prints the outcome of a transition.
func (r *plainRunner) announce(s quiz.Session, effects []quiz.Effect) {
	step, ok := s.Current()
	for _, effect := range effects {
		if effect.Kind == quiz.EffectShowError && s.State.Kind == quiz.KindAwaitingSubmission {
			fmt.Fprintf(r.out, "✗ %s\n", effect.Message)
		}
	}
	if !ok {
		return
	}
	switch s.State.Kind {
	case quiz.KindShowingFeedback:
		if step.Modality == deck.ModalityChoice && !s.State.WasCorrect {
			for _, line := range formatChoices(step, s.State, -1, true) {
				fmt.Fprintln(r.out, line)
			}
		}
		fmt.Fprintln(r.out, formatFeedback(step, s.State, true))
	case quiz.KindShowingClue:
		fmt.Fprintln(r.out, formatFeedback(step, s.State, true))
	case quiz.KindPhotoJudged:
		fmt.Fprintln(r.out, formatVerdict(s.State, true))
	}
}

func (r *plainRunner) readLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return r.scanner.Text(), nil
}

// sleep waits for d unless ctx ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
