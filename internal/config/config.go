package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up by Load.
const FileName = ".mdreport.yaml"

// File represents the .mdreport.yaml configuration file. Zero values mean
// "not set".
type File struct {
	Output        string  `yaml:"output,omitempty"`
	NoFrontMatter bool    `yaml:"no_front_matter"`
	Summary       bool    `yaml:"summary"`
	Precise       bool    `yaml:"precise"`
	Git           GitFile `yaml:"git"`
	InputFormat   string  `yaml:"input_format,omitempty"`
	Console       string  `yaml:"console,omitempty"`
	Theme         string  `yaml:"theme,omitempty"`
	MaxLineLength int     `yaml:"max_line_length,omitempty"` // In bytes
}

// GitFile is the git section of the configuration file.
type GitFile struct {
	Path     string `yaml:"path,omitempty"`
	Disabled bool   `yaml:"disabled"`
	Required bool   `yaml:"required"`
}

// Load reads the configuration file. An explicit path must exist; without
// one the search path is tried and a missing file yields an empty File.
// The returned string is the path that was read, or "".
func Load(path string) (*File, string, error) {
	if path == "" {
		path = getConfigPath()
		if path == "" {
			slog.Debug("no config file found, using defaults")
			return &File{}, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing config file %s: %w", path, err)
	}
	slog.Debug("loaded config file", "path", path)
	return &f, path, nil
}

// getConfigPath tries to find the configuration file.
// It checks the working directory first, then the user config dir.
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	// An empty or root config dir is not usable for path construction.
	if err != nil || configHome == "" || configHome == "/" {
		slog.Debug("user config dir unavailable", "dir", configHome, "err", err)
		return ""
	}

	xdgPath := filepath.Join(configHome, "mdreport", FileName)
	if _, err := os.Stat(xdgPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("cannot stat config file", "path", xdgPath, "err", err)
		}
		return ""
	}
	return xdgPath
}
