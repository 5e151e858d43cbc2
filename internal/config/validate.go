package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate checks a normalized config for correctness.
func Validate(cfg *Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if cfg.Version == 0 {
		add("version", "is required")
	} else if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if cfg.Catalog.URL != "" {
		parsed, err := url.Parse(cfg.Catalog.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			add("catalog.url", "must be an absolute http(s) URL")
		}
	}

	checkDelay := func(field string, value time.Duration) {
		if value < 0 {
			add(field, "must not be negative")
		}
	}
	checkDelay("pacing.advance", cfg.Pacing.Advance)
	checkDelay("pacing.feedback", cfg.Pacing.Feedback)
	checkDelay("pacing.choice_feedback", cfg.Pacing.ChoiceFeedback)
	checkDelay("pacing.image_dwell", cfg.Pacing.ImageDwell)
	checkDelay("server.session_ttl", cfg.Server.SessionTTL)

	switch cfg.UI.Mode {
	case "auto", "live", "plain":
	default:
		add("ui.mode", fmt.Sprintf("unsupported mode %q (expected auto, live, or plain)", cfg.UI.Mode))
	}
	switch cfg.Log.Mode {
	case "dev", "development", "prod", "production":
	default:
		add("log.mode", fmt.Sprintf("unsupported mode %q (expected dev or prod)", cfg.Log.Mode))
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
