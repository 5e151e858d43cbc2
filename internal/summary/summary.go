// Package summary derives the end-of-deck report from a finished session.
package summary

import (
	"fmt"
	"strings"

	"quizdeck/internal/quiz"
)

// Report is the end-of-deck result. Practice sessions report a score; strict
// sessions only acknowledge completion because every step was eventually
// answered correctly.
type Report struct {
	DeckName   string `json:"deckName"`
	DeckIcon   string `json:"deckIcon"`
	Completed  bool   `json:"completed"`
	Practice   bool   `json:"practice"`
	Score      int    `json:"score,omitempty"`
	Total      int    `json:"total,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

// Summarize builds the report for a session.
func Summarize(s quiz.Session) Report {
	report := Report{
		DeckName:  s.DeckName,
		DeckIcon:  s.DeckIcon,
		Completed: s.Finished(),
		Practice:  !s.Policy.RequireCorrectAnswers,
	}
	if report.Practice {
		report.Score = s.Score
		report.Total = s.Total()
		report.Percentage = Percentage(s.Score, s.Total())
	}
	return report
}

// Percentage returns score/total as a whole percentage, rounding halves up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score*200 + total) / (2 * total)
}

// Lines renders the report as display lines.
func (r Report) Lines() []string {
	if r.Practice {
		return []string{
			fmt.Sprintf("You answered %d out of %d questions correctly!", r.Score, r.Total),
			fmt.Sprintf("Score: %d%%", r.Percentage),
		}
	}
	return []string{
		"🎉 CONGRATULATIONS! 🎉",
		fmt.Sprintf("You completed %s!", r.DeckName),
		"Amazing job! 🏆",
	}
}

// String joins the display lines.
func (r Report) String() string {
	return strings.Join(r.Lines(), "\n")
}
