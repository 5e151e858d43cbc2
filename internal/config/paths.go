package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Locations of the project config relative to the project root.
const (
	ConfigDirName  = ".quizdeck"
	ConfigFileName = "config.yml"
)

// ErrConfigNotFound reports that no project config exists above a directory.
var ErrConfigNotFound = errors.New("config not found")

// ConfigDir returns the config directory of a project root.
func ConfigDir(root string) string {
	return filepath.Join(root, ConfigDirName)
}

// ConfigPath returns the config file of a project root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigDirName, ConfigFileName)
}

// ProjectRoot returns the directory relative catalog paths resolve against:
// the parent of .quizdeck, or the file's own directory for a config stored
// elsewhere.
func ProjectRoot(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) != ConfigDirName {
		return dir
	}
	return filepath.Dir(dir)
}

// FindConfigPath walks from start (the working directory when empty) toward
// the filesystem root and returns the first .quizdeck/config.yml. A
// .quizdeck directory without a config file stops the search with an error.
func FindConfigPath(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}
	for {
		candidate := ConfigPath(dir)
		switch info, err := os.Stat(candidate); {
		case err == nil && info.IsDir():
			return "", fmt.Errorf("%s is a directory", candidate)
		case err == nil:
			return candidate, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		if info, err := os.Stat(ConfigDir(dir)); err == nil && info.IsDir() {
			return "", fmt.Errorf("%s exists but %s is missing", ConfigDir(dir), ConfigFileName)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s above %s", ErrConfigNotFound, filepath.Join(ConfigDirName, ConfigFileName), start)
		}
		dir = parent
	}
}
