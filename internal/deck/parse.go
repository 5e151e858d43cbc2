package deck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the decoder for a deck payload.
type Format string

const (
	// FormatJSON decodes JSON deck files.
	FormatJSON Format = "json"
	// FormatYAML decodes YAML deck files.
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses a deck file.
func Load(path string) (Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("%w: read deck: %w", ErrDeckLoad, err)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes a deck payload. Undecodable payloads fail with ErrDeckLoad;
// payloads without a name or a steps list fail with ErrInvalidDeckFormat.
func Parse(data []byte, format Format) (Deck, error) {
	if format == FormatYAML {
		return parseYAML(data)
	}
	return parseJSON(data)
}

// rawJSONDeck keeps steps undecoded so a missing list can be told apart from
// a list of the wrong shape.
type rawJSONDeck struct {
	Name                  json.RawMessage `json:"name"`
	Icon                  string          `json:"icon"`
	Steps                 json.RawMessage `json:"steps"`
	Random                bool            `json:"random"`
	MaxQuestions          json.RawMessage `json:"maxQuestions"`
	RequireCorrectAnswers *bool           `json:"requireCorrectAnswers"`
}

func parseJSON(data []byte) (Deck, error) {
	var raw rawJSONDeck
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "deck"
			}
			return Deck{}, &FormatError{Issues: []Issue{{Field: field, Message: "has the wrong type"}}}
		}
		return Deck{}, loadError("parse json: %v", err)
	}
	if decoder.More() {
		return Deck{}, loadError("parse json: multiple documents are not supported")
	}

	collector := &issueCollector{}
	var name string
	if !isJSONNull(raw.Name) {
		if err := json.Unmarshal(raw.Name, &name); err != nil {
			collector.add("name", "must be a string")
		}
	}
	if strings.TrimSpace(name) == "" && len(collector.issues) == 0 {
		collector.add("name", "is required")
	}
	trimmedSteps := bytes.TrimSpace(raw.Steps)
	switch {
	case isJSONNull(trimmedSteps):
		collector.add("steps", "is required")
	case trimmedSteps[0] != '[':
		collector.add("steps", "must be a list")
	}
	if err := collector.formatError(); err != nil {
		return Deck{}, err
	}

	var steps []Step
	if err := json.Unmarshal(trimmedSteps, &steps); err != nil {
		return Deck{}, &FormatError{Issues: []Issue{{Field: "steps", Message: err.Error()}}}
	}
	maxQuestions, err := parseJSONMaxQuestions(raw.MaxQuestions)
	if err != nil {
		return Deck{}, err
	}
	return Deck{
		Name:                  name,
		Icon:                  raw.Icon,
		Steps:                 steps,
		Random:                raw.Random,
		MaxQuestions:          maxQuestions,
		RequireCorrectAnswers: raw.RequireCorrectAnswers == nil || *raw.RequireCorrectAnswers,
	}, nil
}

// parseJSONMaxQuestions treats null and zero as unset, like the upload
// preview does.
func parseJSONMaxQuestions(data json.RawMessage) (int, error) {
	if isJSONNull(data) {
		return 0, nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, &FormatError{Issues: []Issue{{Field: "maxQuestions", Message: "must be a number"}}}
	}
	return questionLimit(value), nil
}

// questionLimit truncates a fractional limit and treats negatives as unset,
// for both JSON and YAML decks.
func questionLimit(value float64) int {
	if value < 0 {
		return 0
	}
	return int(value)
}

// parseYAMLMaxQuestions mirrors parseJSONMaxQuestions for YAML nodes.
func parseYAMLMaxQuestions(node yaml.Node) (int, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return 0, nil
	}
	var value float64
	if err := node.Decode(&value); err != nil {
		return 0, &FormatError{Issues: []Issue{{Field: "maxQuestions", Message: "must be a number"}}}
	}
	return questionLimit(value), nil
}

func isJSONNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

type rawYAMLDeck struct {
	Name                  string    `yaml:"name"`
	Icon                  string    `yaml:"icon"`
	Steps                 yaml.Node `yaml:"steps"`
	Random                bool      `yaml:"random"`
	MaxQuestions          yaml.Node `yaml:"maxQuestions"`
	RequireCorrectAnswers *bool     `yaml:"requireCorrectAnswers"`
}

func parseYAML(data []byte) (Deck, error) {
	var raw rawYAMLDeck
	if err := yaml.Unmarshal(data, &raw); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return Deck{}, &FormatError{Issues: []Issue{{Field: "deck", Message: strings.Join(typeErr.Errors, "; ")}}}
		}
		return Deck{}, loadError("parse yaml: %v", err)
	}

	collector := &issueCollector{}
	if strings.TrimSpace(raw.Name) == "" {
		collector.add("name", "is required")
	}
	switch {
	case raw.Steps.Kind == 0, raw.Steps.Kind == yaml.ScalarNode && raw.Steps.Tag == "!!null":
		collector.add("steps", "is required")
	case raw.Steps.Kind != yaml.SequenceNode:
		collector.add("steps", "must be a list")
	}
	if err := collector.formatError(); err != nil {
		return Deck{}, err
	}

	var steps []Step
	if err := raw.Steps.Decode(&steps); err != nil {
		return Deck{}, &FormatError{Issues: []Issue{{Field: "steps", Message: err.Error()}}}
	}
	maxQuestions, err := parseYAMLMaxQuestions(raw.MaxQuestions)
	if err != nil {
		return Deck{}, err
	}
	return Deck{
		Name:                  raw.Name,
		Icon:                  raw.Icon,
		Steps:                 steps,
		Random:                raw.Random,
		MaxQuestions:          maxQuestions,
		RequireCorrectAnswers: raw.RequireCorrectAnswers == nil || *raw.RequireCorrectAnswers,
	}, nil
}
