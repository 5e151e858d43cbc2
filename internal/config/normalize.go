package config

import (
	"path/filepath"
	"strings"
	"time"

	"quizdeck/internal/quiz"
)

// Defaults applied by Normalize.
const (
	DefaultCatalogDir = "decks"
	DefaultServerAddr = "127.0.0.1:8080"
	DefaultSessionTTL = 2 * time.Hour
	DefaultUIMode     = "auto"
	DefaultLogMode    = "dev"
)

// Normalize fills defaults and resolves a relative catalog dir against root.
func Normalize(cfg *Config, root string) {
	cfg.Catalog.URL = strings.TrimSpace(cfg.Catalog.URL)
	cfg.Catalog.Dir = strings.TrimSpace(cfg.Catalog.Dir)
	if cfg.Catalog.URL == "" && cfg.Catalog.Dir == "" {
		cfg.Catalog.Dir = DefaultCatalogDir
	}
	if cfg.Catalog.Dir != "" && !filepath.IsAbs(cfg.Catalog.Dir) && root != "" {
		cfg.Catalog.Dir = filepath.Join(root, cfg.Catalog.Dir)
	}

	defaults := quiz.DefaultPacing()
	if cfg.Pacing.Advance == 0 {
		cfg.Pacing.Advance = defaults.Advance
	}
	if cfg.Pacing.Feedback == 0 {
		cfg.Pacing.Feedback = defaults.Feedback
	}
	if cfg.Pacing.ChoiceFeedback == 0 {
		cfg.Pacing.ChoiceFeedback = defaults.ChoiceFeedback
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = DefaultSessionTTL
	}
	origins := cfg.Server.AllowedOrigins[:0]
	for _, origin := range cfg.Server.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.Server.AllowedOrigins = origins

	cfg.UI.Mode = strings.ToLower(strings.TrimSpace(cfg.UI.Mode))
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = DefaultUIMode
	}
	cfg.Log.Mode = strings.ToLower(strings.TrimSpace(cfg.Log.Mode))
	if cfg.Log.Mode == "" {
		cfg.Log.Mode = DefaultLogMode
	}
}

// QuizPacing converts the pacing section for the quiz engine.
func (cfg Config) QuizPacing() quiz.Pacing {
	return quiz.Pacing{
		Advance:        cfg.Pacing.Advance,
		Feedback:       cfg.Pacing.Feedback,
		ChoiceFeedback: cfg.Pacing.ChoiceFeedback,
		ImageDwell:     cfg.Pacing.ImageDwell,
	}
}
