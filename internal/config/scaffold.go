package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1
catalog:
  dir: "decks"
pacing:
  advance: 1s
  feedback: 1500ms
  choice_feedback: 2500ms
server:
  addr: "127.0.0.1:8080"
  allowed_origins: []
  session_ttl: 2h
ui:
  mode: auto
  no_color: false
log:
  mode: dev
`

const defaultManifest = `{
  "decks": ["capitals.json"]
}
`

const defaultDeck = `{
  "name": "Capitals",
  "icon": "🌍",
  "random": true,
  "requireCorrectAnswers": false,
  "steps": [
    { "question": "Capital of France?", "answer": "Paris" },
    { "question": "Capital of Japan?", "answer": "Tokyo", "clue": "It was once called Edo." },
    { "question": "Capital of Italy?", "answer": "Rome", "choices": ["Milan", "Rome", "Naples"] },
    { "question": "Capital of Canada?", "answer": ["Ottawa", "Ottawa, Ontario"] }
  ]
}
`

// Scaffold writes a starter config under root plus a sample deck catalog.
// Existing files are never overwritten.
func Scaffold(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("root is required")
	}
	configPath := ConfigPath(root)
	decksDir := filepath.Join(root, DefaultCatalogDir)
	files := []struct {
		path    string
		content string
	}{
		{configPath, defaultConfig},
		{filepath.Join(decksDir, "index.json"), defaultManifest},
		{filepath.Join(decksDir, "capitals.json"), defaultDeck},
	}
	for _, file := range files {
		if info, err := os.Stat(file.path); err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("path %q is a directory", file.path)
			}
			return "", fmt.Errorf("file already exists at %q", file.path)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat %s: %w", file.path, err)
		}
	}
	for _, file := range files {
		if err := os.MkdirAll(filepath.Dir(file.path), 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", filepath.Dir(file.path), err)
		}
		if err := os.WriteFile(file.path, []byte(file.content), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", file.path, err)
		}
	}
	return configPath, nil
}
