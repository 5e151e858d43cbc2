package deck

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Answers holds the accepted answers of a step. Deck files may declare a
// single string or a list of strings.
type Answers []string

// UnmarshalJSON accepts a string, a number, or a list of strings.
func (a *Answers) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = nil
		return nil
	}
	if trimmed[0] == '[' {
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("answer list: %w", err)
		}
		*a = values
		return nil
	}
	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		*a = Answers{single}
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("answer must be a string or a list of strings")
	}
	*a = Answers{number.String()}
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (a *Answers) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var values []string
		if err := value.Decode(&values); err != nil {
			return fmt.Errorf("answer list: %w", err)
		}
		*a = values
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*a = nil
			return nil
		}
		*a = Answers{value.Value}
	default:
		return fmt.Errorf("line %d: answer must be a string or a list of strings", value.Line)
	}
	return nil
}

// MarshalJSON writes a single answer as a string and several as a list.
func (a Answers) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}
