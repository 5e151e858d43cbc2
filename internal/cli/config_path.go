package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"

	"quizdeck/internal/catalog"
	"quizdeck/internal/config"
	"quizdeck/internal/logging"
)

// resolveConfigPath normalizes a config path or finds it from CWD. An empty
// result means no config file exists and defaults apply.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		found, err := config.FindConfigPath("")
		if errors.Is(err, config.ErrConfigNotFound) {
			return "", nil
		}
		return found, err
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadConfig loads the config file, or defaults rooted at the working
// directory when there is none.
func loadConfig(configPath string) (config.Config, error) {
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if resolved == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.Config{}, fmt.Errorf("get working directory: %w", err)
		}
		return config.Default(wd)
	}
	return config.Load(resolved)
}

// openCatalog builds the catalog named by the config.
func openCatalog(cfg config.Config, logger *logging.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.URL != "" {
		source, err := catalog.NewHTTPSource(cfg.Catalog.URL, nil)
		if err != nil {
			return nil, err
		}
		return catalog.New(source, logger), nil
	}
	return catalog.New(catalog.NewDirSource(cfg.Catalog.Dir), logger), nil
}

// stderrLogger keeps diagnostics on stderr at warn level so they do not
// interleave with command output.
func stderrLogger(stderr io.Writer) *logging.Logger {
	return logging.NewWriter(stderr, zapcore.WarnLevel)
}
