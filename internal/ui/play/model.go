// Package play runs a quiz session in the terminal, either as an interactive
// Bubble Tea program or as a line-oriented prompt loop.
package play

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quizdeck/internal/deck"
	"quizdeck/internal/photo"
	"quizdeck/internal/quiz"
)

// probeTimeout bounds a single image probe.
const probeTimeout = 5 * time.Second

// Prober checks whether a step image can be loaded.
type Prober interface {
	ProbeImage(ctx context.Context, ref string) bool
}

// Options configures the player.
type Options struct {
	NoColor bool
	Prober  Prober
	// Bell receives the terminal bell for incorrect cues. Nil disables it.
	Bell io.Writer
}

// Model renders a quiz session using Bubble Tea.
type Model struct {
	session  quiz.Session
	input    textinput.Model
	progress progress.Model
	cursor   int
	errMsg   string
	width    int
	opts     Options
}

// NewModel constructs a player for a started session.
func NewModel(session quiz.Session, opts Options) Model {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 256
	input.Focus()
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	m := Model{
		session:  session,
		input:    input,
		progress: bar,
		opts:     opts,
	}
	m.resetInput()
	return m
}

// Session returns the session as last updated.
func (m Model) Session() quiz.Session {
	return m.session
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// timerMsg reports an elapsed pacing delay.
type timerMsg struct {
	Timer quiz.Timer
}

// imageMsg reports the result of an image probe.
type imageMsg struct {
	Loaded bool
}

// Update consumes key presses, clicks, timers, and image probe results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.progress.Width = max(min(typed.Width-20, 60), 10)
		return m, nil
	case timerMsg:
		return m.apply(m.session.TimerElapsed(typed.Timer))
	case imageMsg:
		return m.apply(m.session.ImageResolved(typed.Loaded))
	case tea.MouseMsg:
		return m.handleMouse(typed)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "esc" {
		return m, tea.Quit
	}
	state := m.session.State
	switch state.Kind {
	case quiz.KindCompleted:
		if key == "enter" || key == "q" {
			return m, tea.Quit
		}
	case quiz.KindAwaitingSubmission:
		return m.handleSubmissionKey(msg)
	case quiz.KindShowingClue:
		if key == "enter" || key == " " {
			return m.apply(m.session.AcknowledgeClue())
		}
	case quiz.KindShowingImage:
		if key == "enter" || key == " " {
			return m.apply(m.session.AcknowledgeImage())
		}
	case quiz.KindAwaitingPhotoJudgement:
		if verdict, ok := photo.KeyGesture(key).Resolve(); ok {
			return m.apply(m.session.JudgePhoto(verdict))
		}
	case quiz.KindPhotoJudged:
		if key == "enter" || key == " " {
			return m.apply(m.session.ContinueFromPhotoJudgement())
		}
	}
	return m, nil
}

func (m Model) handleSubmissionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step, ok := m.session.Current()
	if !ok {
		return m, nil
	}
	key := msg.String()
	if step.Modality == deck.ModalityChoice {
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(step.Choices)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			return m.apply(m.session.SubmitChoice(m.cursor))
		}
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(step.Choices) {
			m.cursor = n - 1
			return m.apply(m.session.SubmitChoice(m.cursor))
		}
		return m, nil
	}
	if key == "enter" {
		return m.apply(m.session.Submit(m.input.Value()))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleMouse resolves a click on the photo judgement screen by which half
// of the terminal it landed in.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.session.State.Kind != quiz.KindAwaitingPhotoJudgement {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	gesture := photo.SplitGesture{Offset: float64(msg.X), Width: float64(m.width)}
	if verdict, ok := gesture.Resolve(); ok {
		return m.apply(m.session.JudgePhoto(verdict))
	}
	return m, nil
}

// apply stores a transition result and turns its effects into commands.
func (m Model) apply(next quiz.Session, effects []quiz.Effect) (Model, tea.Cmd) {
	prev := m.session
	m.session = next
	if next.Cursor != prev.Cursor || (next.State.Kind == quiz.KindAwaitingSubmission && prev.State.Kind != quiz.KindAwaitingSubmission) {
		m.resetInput()
	}
	var cmds []tea.Cmd
	for _, effect := range effects {
		switch effect.Kind {
		case quiz.EffectCue:
			if effect.Cue == quiz.CueIncorrect {
				cmds = append(cmds, bell(m.opts.Bell))
			}
		case quiz.EffectShowError:
			m.errMsg = effect.Message
		case quiz.EffectClearInput:
			m.input.Reset()
		case quiz.EffectSchedule:
			timer := effect.Timer
			cmds = append(cmds, tea.Tick(effect.Delay, func(time.Time) tea.Msg {
				return timerMsg{Timer: timer}
			}))
		case quiz.EffectLoadImage:
			cmds = append(cmds, probeImage(m.opts.Prober, effect.URI))
		}
	}
	if next.State.Kind != quiz.KindAwaitingSubmission {
		m.errMsg = ""
	}
	return m, tea.Batch(cmds...)
}

// resetInput prepares the input for the current step.
func (m *Model) resetInput() {
	m.input.Reset()
	m.cursor = 0
	m.errMsg = ""
	m.input.Placeholder = "type your answer"
	if step, ok := m.session.Current(); ok && step.Modality == deck.ModalityCamera {
		m.input.Placeholder = "path to your photo"
	}
}

func bell(w io.Writer) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		_, _ = io.WriteString(w, "\a")
		return nil
	}
}

// probeImage reports exactly one imageMsg for a load request.
func probeImage(prober Prober, uri string) tea.Cmd {
	return func() tea.Msg {
		if prober == nil {
			return imageMsg{Loaded: false}
		}
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		return imageMsg{Loaded: prober.ProbeImage(ctx, uri)}
	}
}

// View renders the current screen.
func (m Model) View() string {
	noColor := m.opts.NoColor
	sections := []string{formatHeader(m.session, noColor)}
	bar := formatBar(m.session.Progress(), m.progress.Width)
	if !noColor {
		bar = m.progress.ViewAs(m.session.Progress())
	}
	sections = append(sections, bar+"  "+stylize(formatPosition(m.session), noColor, colorMuted), "")

	if m.session.Finished() {
		sections = append(sections, formatSummary(m.session, noColor)...)
		sections = append(sections, "", stylize("press enter to exit", noColor, colorMuted))
		return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
	}

	step, _ := m.session.Current()
	state := m.session.State
	sections = append(sections, step.Question, "")

	switch state.Kind {
	case quiz.KindAwaitingSubmission:
		if step.Modality == deck.ModalityChoice {
			sections = append(sections, formatChoices(step, state, m.cursor, noColor)...)
		} else {
			sections = append(sections, m.input.View())
		}
		if m.errMsg != "" {
			sections = append(sections, stylize("✗ "+m.errMsg, noColor, colorWrong))
		}
	case quiz.KindShowingFeedback:
		if step.Modality == deck.ModalityChoice {
			sections = append(sections, formatChoices(step, state, m.cursor, noColor)...)
		}
		sections = append(sections, formatFeedback(step, state, noColor))
		if state.FollowUp == quiz.FollowUpImage {
			sections = append(sections, stylize("loading image…", noColor, colorMuted))
		}
	case quiz.KindShowingClue:
		sections = append(sections, formatFeedback(step, state, noColor), stylize("💡 "+step.Clue, noColor, colorClue), stylize("press enter to continue", noColor, colorMuted))
	case quiz.KindShowingImage:
		sections = append(sections, "🖼  "+step.Image, stylize("press enter to continue", noColor, colorMuted))
	case quiz.KindAwaitingPhotoJudgement:
		sections = append(sections,
			"📷 "+state.Photo,
			stylize("← / n: incorrect    y / →: correct    or click the left or right half", noColor, colorMuted))
	case quiz.KindPhotoJudged:
		sections = append(sections, formatVerdict(state, noColor), stylize("press enter to continue", noColor, colorMuted))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// Run plays a session interactively and returns it once the user exits.
func Run(ctx context.Context, session quiz.Session, in io.Reader, out io.Writer, opts Options) (quiz.Session, error) {
	program := tea.NewProgram(
		NewModel(session, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithMouseCellMotion(),
	)
	final, err := program.Run()
	if model, ok := final.(Model); ok {
		session = model.session
	}
	return session, err
}
