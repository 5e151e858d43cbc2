package deck

// Overview summarizes a deck before a session starts.
type Overview struct {
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	TotalSteps  int     `json:"totalSteps"`
	ToAsk       int     `json:"questionsToAsk"`
	Strict      bool    `json:"strict"`
	Random      bool    `json:"random"`
	TextSteps   int     `json:"textSteps"`
	ChoiceSteps int     `json:"choiceSteps"`
	CameraSteps int     `json:"cameraSteps"`
	WithImages  int     `json:"withImages"`
	WithClues   int     `json:"withClues"`
	Issues      []Issue `json:"issues,omitempty"`
}

// ModeLabel names the answer policy of the deck.
func (o Overview) ModeLabel() string {
	if o.Strict {
		return "Strict Mode"
	}
	return "Practice Mode"
}

// Summarize builds the overview of a parsed deck.
func Summarize(d Deck) Overview {
	overview := Overview{
		Name:       d.Name,
		Icon:       d.DisplayIcon(),
		TotalSteps: len(d.Steps),
		ToAsk:      QuestionCount(d),
		Strict:     d.RequireCorrectAnswers,
		Random:     d.Random,
		Issues:     Validate(d),
	}
	for _, step := range d.Steps {
		switch Classify(step) {
		case ModalityChoice:
			overview.ChoiceSteps++
		case ModalityCamera:
			overview.CameraSteps++
		default:
			overview.TextSteps++
		}
		if step.Image != "" {
			overview.WithImages++
		}
		if step.Clue != "" {
			overview.WithClues++
		}
	}
	return overview
}
