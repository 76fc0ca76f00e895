// Package config loads and validates the on-disk VerseDeck configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
)

const (
	configDirName  = ".versedeck"
	configFileName = "config.yaml"
	logFileName    = "versedeck.log"
	cacheFileName  = "cache.db"

	placeholderKey = "your-esv-api-key-here"
)

// defaultTemplate is written on first run. Keys left out of the file keep
// their built-in defaults.
const defaultTemplate = `# Bible API settings
api_endpoint: "https://api.esv.org/v3/passage/text/"  # API endpoint URL
api_key: "your-esv-api-key-here"  # ESV API key from https://api.esv.org

# Output settings
output_directory: "./output"  # Output directory for generated decks
output_type: "pdf"            # "pdf" or "png"

# Slide appearance
font: "sans"           # "sans", "mono", or a path to a .ttf/.otf file
font_size: 64          # Points (adjust based on testing)
source_label: "ESV"    # Attribution shown in the slide footer

# Behavior
auto_open: false
include_section_headings: true
combine_passages: true

# Passage cache
cache:
  enabled: true
  ttl_hours: 720

# Logging
log_level: "error"  # Console verbosity: debug, info, warn, error
log_file: ""        # Empty uses ~/.versedeck/versedeck.log
`

// CacheConfig controls the persistent passage cache.
type CacheConfig struct {
	Enabled  bool `yaml:"enabled"`
	TTLHours int  `yaml:"ttl_hours"`
}

// Config holds all VerseDeck settings.
type Config struct {
	APIEndpoint            string      `yaml:"api_endpoint"`
	APIKey                 string      `yaml:"api_key"`
	OutputDirectory        string      `yaml:"output_directory"`
	OutputType             string      `yaml:"output_type"`
	Font                   string      `yaml:"font"`
	FontSize               float64     `yaml:"font_size"`
	AutoOpen               bool        `yaml:"auto_open"`
	IncludeSectionHeadings bool        `yaml:"include_section_headings"`
	CombinePassages        bool        `yaml:"combine_passages"`
	SourceLabel            string      `yaml:"source_label"`
	Cache                  CacheConfig `yaml:"cache"`
	LogLevel               string      `yaml:"log_level"`
	LogFile                string      `yaml:"log_file"`
}

// Default returns the built-in configuration. The API key is empty and must
// come from the config file.
func Default() *Config {
	return &Config{
		APIEndpoint:            "https://api.esv.org/v3/passage/text/",
		OutputDirectory:        "./output",
		OutputType:             "pdf",
		Font:                   "sans",
		FontSize:               64,
		IncludeSectionHeadings: true,
		CombinePassages:        true,
		SourceLabel:            "ESV",
		Cache:                  CacheConfig{Enabled: true, TTLHours: 720},
		LogLevel:               "error",
	}
}

// Dir returns the VerseDeck config directory (~/.versedeck).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Path returns the config file path (~/.versedeck/config.yaml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultLogFile returns the fallback log file path used when the config
// leaves log_file empty.
func DefaultLogFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

// DefaultCachePath returns the passage cache database path.
func DefaultCachePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cacheFileName), nil
}

// FirstRunError reports that a fresh config file was just written and still
// needs an API key.
type FirstRunError struct {
	Path string
}

func (e *FirstRunError) Error() string {
	return fmt.Sprintf("config file created at %s; add your ESV API key and run again", e.Path)
}

// CreateDefault writes the default config template to path unless the file
// already exists. It reports whether a new file was written.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.NewIO("stat", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.NewIO("mkdir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return false, errors.NewIO("write", path, err)
	}
	return true, nil
}

// Load reads the config from the default location. On the very first run it
// writes the default template and returns a FirstRunError so the caller can
// tell the user where to put their API key.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the config at path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, err := CreateDefault(path); err != nil {
			return nil, err
		}
		return nil, &FirstRunError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}

	// Unmarshal over the defaults so missing keys keep their values.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewParse("YAML", path, err.Error())
	}

	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(path string) error {
	if c.APIKey == "" || c.APIKey == placeholderKey {
		return errors.NewValidation("api_key",
			fmt.Sprintf("ESV API key not set; add it to %s (get a free key at https://api.esv.org)", path))
	}
	switch c.OutputType {
	case "pdf", "png":
	default:
		return errors.NewValidation("output_type",
			fmt.Sprintf("%q is not a supported output type (pdf, png)", c.OutputType))
	}
	if c.FontSize <= 0 {
		return errors.NewValidation("font_size",
			fmt.Sprintf("font size must be positive, got %v", c.FontSize))
	}
	return nil
}
