package config

import "time"

// Config is the on-disk quizdeck configuration.
type Config struct {
	Version int           `yaml:"version"`
	Catalog CatalogConfig `yaml:"catalog"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`
}

// CatalogConfig points at the deck catalog. Exactly one of Dir or URL is used;
// URL wins when both are set.
type CatalogConfig struct {
	Dir string `yaml:"dir" env:"QUIZDECK_CATALOG_DIR"`
	URL string `yaml:"url" env:"QUIZDECK_CATALOG_URL"`
}

// PacingConfig overrides the delays between quiz states.
type PacingConfig struct {
	Advance        time.Duration `yaml:"advance" env:"QUIZDECK_PACING_ADVANCE"`
	Feedback       time.Duration `yaml:"feedback" env:"QUIZDECK_PACING_FEEDBACK"`
	ChoiceFeedback time.Duration `yaml:"choice_feedback" env:"QUIZDECK_PACING_CHOICE_FEEDBACK"`
	ImageDwell     time.Duration `yaml:"image_dwell" env:"QUIZDECK_PACING_IMAGE_DWELL"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr" env:"QUIZDECK_SERVER_ADDR"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"QUIZDECK_SERVER_ALLOWED_ORIGINS" envSeparator:","`
	SessionTTL     time.Duration `yaml:"session_ttl" env:"QUIZDECK_SERVER_SESSION_TTL"`
}

// UIConfig configures the terminal player.
type UIConfig struct {
	Mode    string `yaml:"mode" env:"QUIZDECK_UI_MODE"`
	NoColor bool   `yaml:"no_color" env:"QUIZDECK_UI_NO_COLOR"`
}

// LogConfig selects the logger preset.
type LogConfig struct {
	Mode string `yaml:"mode" env:"QUIZDECK_LOG_MODE"`
}
