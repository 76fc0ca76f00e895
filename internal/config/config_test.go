package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

func TestLoadFromFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, err := LoadFrom(path)
	var firstRun *FirstRunError
	if !errors.As(err, &firstRun) {
		t.Fatalf("LoadFrom() error = %v, want *FirstRunError", err)
	}
	if firstRun.Path != path {
		t.Errorf("FirstRunError.Path = %q, want %q", firstRun.Path, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	if !strings.Contains(string(data), placeholderKey) {
		t.Error("default config missing the API key placeholder")
	}

	// Second run finds the file but the key is still the placeholder
	_, err = LoadFrom(path)
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("second LoadFrom() error = %v, want ErrInvalidInput", err)
	}
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
api_endpoint: "https://example.test/passages"
api_key: "secret-key"
output_directory: "/tmp/decks"
output_type: "png"
font: "mono"
font_size: 48
auto_open: true
include_section_headings: false
combine_passages: false
source_label: "English Standard Version"
cache:
  enabled: false
  ttl_hours: 24
log_level: "debug"
log_file: "/tmp/versedeck.log"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.APIEndpoint != "https://example.test/passages" {
		t.Errorf("APIEndpoint = %q", cfg.APIEndpoint)
	}
	if cfg.APIKey != "secret-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.OutputDirectory != "/tmp/decks" {
		t.Errorf("OutputDirectory = %q", cfg.OutputDirectory)
	}
	if cfg.OutputType != "png" {
		t.Errorf("OutputType = %q", cfg.OutputType)
	}
	if cfg.Font != "mono" {
		t.Errorf("Font = %q", cfg.Font)
	}
	if cfg.FontSize != 48 {
		t.Errorf("FontSize = %v", cfg.FontSize)
	}
	if !cfg.AutoOpen {
		t.Error("AutoOpen = false, want true")
	}
	if cfg.IncludeSectionHeadings {
		t.Error("IncludeSectionHeadings = true, want false")
	}
	if cfg.CombinePassages {
		t.Error("CombinePassages = true, want false")
	}
	if cfg.SourceLabel != "English Standard Version" {
		t.Errorf("SourceLabel = %q", cfg.SourceLabel)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false")
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("Cache.TTLHours = %d, want 24", cfg.Cache.TTLHours)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.LogFile != "/tmp/versedeck.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
}

// TestLoadFromKeepsDefaults checks that keys missing from the file keep
// their built-in values.
func TestLoadFromKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `api_key: "secret-key"`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	want := Default()
	if cfg.APIEndpoint != want.APIEndpoint {
		t.Errorf("APIEndpoint = %q, want default %q", cfg.APIEndpoint, want.APIEndpoint)
	}
	if cfg.OutputDirectory != "./output" {
		t.Errorf("OutputDirectory = %q, want ./output", cfg.OutputDirectory)
	}
	if cfg.OutputType != "pdf" {
		t.Errorf("OutputType = %q, want pdf", cfg.OutputType)
	}
	if cfg.Font != "sans" {
		t.Errorf("Font = %q, want sans", cfg.Font)
	}
	if cfg.FontSize != 64 {
		t.Errorf("FontSize = %v, want 64", cfg.FontSize)
	}
	if !cfg.IncludeSectionHeadings {
		t.Error("IncludeSectionHeadings = false, want default true")
	}
	if !cfg.CombinePassages {
		t.Error("CombinePassages = false, want default true")
	}
	if cfg.SourceLabel != "ESV" {
		t.Errorf("SourceLabel = %q, want ESV", cfg.SourceLabel)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled = false, want default true")
	}
	if cfg.Cache.TTLHours != 720 {
		t.Errorf("Cache.TTLHours = %d, want 720", cfg.Cache.TTLHours)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name:    "empty API key",
			content: `api_key: ""`,
			field:   "api_key",
		},
		{
			name:    "placeholder API key",
			content: `api_key: "your-esv-api-key-here"`,
			field:   "api_key",
		},
		{
			name: "unknown output type",
			content: `api_key: "secret"
output_type: "google-slides"`,
			field: "output_type",
		},
		{
			name: "zero font size",
			content: `api_key: "secret"
font_size: 0`,
			field: "font_size",
		},
		{
			name: "negative font size",
			content: `api_key: "secret"
font_size: -12`,
			field: "font_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			_, err := LoadFrom(path)
			if err == nil {
				t.Fatal("LoadFrom() succeeded, want validation error")
			}
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
			var valErr *errors.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if valErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", valErr.Field, tt.field)
			}
		})
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := writeConfig(t, "api_key: [unclosed")

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom() succeeded, want parse error")
	}
	var parseErr *errors.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parseErr.Format != "YAML" {
		t.Errorf("Format = %q, want YAML", parseErr.Format)
	}
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	created, err := CreateDefault(path)
	if err != nil {
		t.Fatalf("CreateDefault() error = %v", err)
	}
	if !created {
		t.Error("CreateDefault() = false, want true for a fresh path")
	}

	created, err = CreateDefault(path)
	if err != nil {
		t.Fatalf("CreateDefault() second call error = %v", err)
	}
	if created {
		t.Error("CreateDefault() = true, want false when the file exists")
	}
}

func TestDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if dir != filepath.Join(home, ".versedeck") {
		t.Errorf("Dir() = %q", dir)
	}

	path, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if path != filepath.Join(dir, "config.yaml") {
		t.Errorf("Path() = %q", path)
	}

	logFile, err := DefaultLogFile()
	if err != nil {
		t.Fatalf("DefaultLogFile() error = %v", err)
	}
	if logFile != filepath.Join(dir, "versedeck.log") {
		t.Errorf("DefaultLogFile() = %q", logFile)
	}

	cachePath, err := DefaultCachePath()
	if err != nil {
		t.Fatalf("DefaultCachePath() error = %v", err)
	}
	if cachePath != filepath.Join(dir, "cache.db") {
		t.Errorf("DefaultCachePath() = %q", cachePath)
	}
}
