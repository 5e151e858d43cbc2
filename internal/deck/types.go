package deck

// DefaultIcon is shown for decks that do not declare an icon.
const DefaultIcon = "📋"

// Modality identifies how a step collects its submission.
type Modality string

const (
	// ModalityText collects a free-text answer.
	ModalityText Modality = "text"
	// ModalityChoice collects a selection among the step choices.
	ModalityChoice Modality = "choice"
	// ModalityCamera collects a photo that the user judges manually.
	ModalityCamera Modality = "camera"
)

// Deck is a named, ordered collection of steps plus quiz policy flags.
type Deck struct {
	Name                  string `json:"name" yaml:"name"`
	Icon                  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Steps                 []Step `json:"steps" yaml:"steps"`
	Random                bool   `json:"random,omitempty" yaml:"random,omitempty"`
	MaxQuestions          int    `json:"maxQuestions,omitempty" yaml:"maxQuestions,omitempty"`
	RequireCorrectAnswers bool   `json:"requireCorrectAnswers" yaml:"requireCorrectAnswers"`
}

// Step is a single question in a deck.
type Step struct {
	Question string   `json:"question" yaml:"question"`
	Answer   Answers  `json:"answer" yaml:"answer"`
	Choices  []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Image    string   `json:"image,omitempty" yaml:"image,omitempty"`
	Clue     string   `json:"clue,omitempty" yaml:"clue,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`

	// Modality is assigned by Materialize.
	Modality Modality `json:"-" yaml:"-"`
}

// DisplayIcon returns the deck icon or DefaultIcon.
func (d Deck) DisplayIcon() string {
	if d.Icon == "" {
		return DefaultIcon
	}
	return d.Icon
}

// Title renders the icon and name the way a deck button shows them.
func (d Deck) Title() string {
	return d.DisplayIcon() + " " + d.Name
}

// Classify derives the modality of a step from its declared fields.
func Classify(step Step) Modality {
	if step.Type == string(ModalityCamera) {
		return ModalityCamera
	}
	if len(step.Choices) > 0 {
		return ModalityChoice
	}
	return ModalityText
}
