package play

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quizdeck/internal/deck"
	"quizdeck/internal/quiz"
	"quizdeck/internal/summary"
)

var (
	colorTitle   = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("242")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorClue    = lipgloss.Color("214")
)

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// formatHeader renders the deck title and mode.
func formatHeader(s quiz.Session, noColor bool) string {
	mode := "Practice Mode"
	if s.Policy.RequireCorrectAnswers {
		mode = "Strict Mode"
	}
	return stylize(s.DeckIcon+" "+s.DeckName+" · "+mode, noColor, colorTitle)
}

// formatPosition renders "Question n of m".
func formatPosition(s quiz.Session) string {
	if s.Finished() {
		return "Done"
	}
	return "Question " + strconv.Itoa(s.Cursor+1) + " of " + strconv.Itoa(s.Total())
}

// formatBar renders an ASCII progress bar.
func formatBar(ratio float64, width int) string {
	if width <= 0 {
		width = 40
	}
	filled := int(ratio*float64(width) + 0.5)
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// formatChoices renders the choice list. Highlighted choices show as correct
// and the selected one as wrong when it is not highlighted.
func formatChoices(step deck.Step, state quiz.State, cursor int, noColor bool) []string {
	lines := make([]string, 0, len(step.Choices))
	feedback := state.Kind == quiz.KindShowingFeedback
	for i, choice := range step.Choices {
		marker := "  "
		if !feedback && i == cursor {
			marker = "> "
		}
		line := marker + strconv.Itoa(i+1) + ". " + choice
		switch {
		case feedback && containsIndex(state.Highlight, i):
			line = stylize(line+" ✓", noColor, colorCorrect)
		case feedback && i == state.Selected:
			line = stylize(line+" ✗", noColor, colorWrong)
		case !feedback && i == cursor:
			line = stylize(line, noColor, colorTitle)
		}
		lines = append(lines, line)
	}
	return lines
}

// formatFeedback renders the outcome line of a feedback state.
func formatFeedback(step deck.Step, state quiz.State, noColor bool) string {
	if state.WasCorrect {
		return stylize("✓ Correct!", noColor, colorCorrect)
	}
	line := "✗ " + quiz.WrongAnswerMessage
	if step.Modality == deck.ModalityText && len(step.Answer) > 0 {
		line += " (answer: " + strings.Join(step.Answer, " / ") + ")"
	}
	return stylize(line, noColor, colorWrong)
}

// formatVerdict renders a photo verdict.
func formatVerdict(state quiz.State, noColor bool) string {
	if state.WasCorrect {
		return stylize("✓ Photo accepted", noColor, colorCorrect)
	}
	return stylize("✗ Photo rejected, try again", noColor, colorWrong)
}

// formatSummary renders the end-of-deck report.
func formatSummary(s quiz.Session, noColor bool) []string {
	report := summary.Summarize(s)
	lines := report.Lines()
	color := colorCorrect
	if report.Practice && report.Percentage < 50 {
		color = colorClue
	}
	for i := range lines {
		lines[i] = stylize(lines[i], noColor, color)
	}
	return lines
}

func containsIndex(values []int, target int) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
