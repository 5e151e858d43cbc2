package deck

import (
	"fmt"
	"strings"

	"quizdeck/internal/answer"
)

// Validate reports problems that leave a parsed deck playable but make some
// steps impossible or awkward to answer. A nil result means the deck is clean.
func Validate(d Deck) []Issue {
	collector := &issueCollector{}
	if d.MaxQuestions < 0 {
		collector.add("maxQuestions", "must be positive")
	}
	if len(d.Steps) == 0 {
		collector.add("steps", "has no entries")
	}
	for i, step := range d.Steps {
		validateStep(collector, fmt.Sprintf("steps[%d]", i), step)
	}
	return collector.issues
}

func validateStep(collector *issueCollector, prefix string, step Step) {
	if strings.TrimSpace(step.Question) == "" {
		collector.add(prefix+".question", "is required")
	}
	switch step.Type {
	case "", string(ModalityText), string(ModalityChoice), string(ModalityCamera):
	default:
		collector.add(prefix+".type", fmt.Sprintf("unknown type %q", step.Type))
	}
	modality := Classify(step)
	if modality != ModalityCamera && !hasAnswer(step.Answer) {
		collector.add(prefix+".answer", "is required")
	}
	if step.Type == string(ModalityChoice) && len(step.Choices) == 0 {
		collector.add(prefix+".choices", "is required for choice steps")
	}
	if len(step.Choices) == 0 {
		return
	}

	seen := map[string]struct{}{}
	for choiceIndex, choice := range step.Choices {
		key := answer.Normalize(choice)
		if key == "" {
			collector.add(fmt.Sprintf("%s.choices[%d]", prefix, choiceIndex), "is empty")
			continue
		}
		if _, exists := seen[key]; exists {
			collector.add(fmt.Sprintf("%s.choices[%d]", prefix, choiceIndex), fmt.Sprintf("duplicate choice %q", choice))
			continue
		}
		seen[key] = struct{}{}
	}
	if modality == ModalityChoice && hasAnswer(step.Answer) && len(answer.Matching(step.Choices, step.Answer...)) == 0 {
		collector.add(prefix+".answer", "does not match any choice")
	}
}

func hasAnswer(answers Answers) bool {
	for _, value := range answers {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}
