package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Config holds the icon generator configuration.
type Config struct {
	Output      string `json:"output"`
	Size        int    `json:"size"`
	Style       string `json:"style"`
	Letter      string `json:"letter"`
	Background  string `json:"background"`
	Accent      string `json:"accent"`
	Text        string `json:"text"`
	Preview     string `json:"preview,omitempty"`
	PreviewSize int    `json:"preview_size"`
}

var configPath string

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configPath = filepath.Join(home, ".config", "icogen", "config.json")
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	pal := defaultPalette()
	return Config{
		Output:      "app_icon.ico",
		Size:        32,
		Style:       StyleGlyph,
		Letter:      "A",
		Background:  formatHexColor(pal.Background),
		Accent:      formatHexColor(pal.Accent),
		Text:        formatHexColor(pal.Text),
		PreviewSize: 256,
	}
}

func validSize(i int) bool        { return i > 0 && i <= icoMaxSize }
func validPreviewSize(i int) bool { return i > 0 && i <= 4096 }

func validHexColor(s string) bool {
	_, err := parseHexColor(s)
	return err == nil
}

// palette resolves the configured colors. Fields are validated on load, so
// anything unparsable here falls back to the default color.
func (cfg Config) palette() Palette {
	pal := defaultPalette()
	if c, err := parseHexColor(cfg.Background); err == nil {
		pal.Background = c
	}
	if c, err := parseHexColor(cfg.Accent); err == nil {
		pal.Accent = c
	}
	if c, err := parseHexColor(cfg.Text); err == nil {
		pal.Text = c
	}
	return pal
}

// renderOptions maps the config onto renderer options.
func (cfg Config) renderOptions() RenderOptions {
	return RenderOptions{
		Size:    cfg.Size,
		Style:   cfg.Style,
		Letter:  cfg.Letter,
		Palette: cfg.palette(),
	}
}

// loadConfig loads config from disk. A missing file is not an error: the
// defaults are used as-is. Missing fields keep their defaults via
// json.Unmarshal into a pre-populated struct.
func loadConfig() Config {
	cfg := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to read config %s: %v", configPath, err)
		}
		return cfg
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Failed to parse config %s: %v", configPath, err)
		return defaultConfig()
	}

	defaults := defaultConfig()
	if cfg.Output == "" {
		log.Printf("Empty output in config, using default %q", defaults.Output)
		cfg.Output = defaults.Output
	}
	if !validSize(cfg.Size) {
		log.Printf("Invalid size %d in config, using default %d", cfg.Size, defaults.Size)
		cfg.Size = defaults.Size
	}
	if !ValidStyle(cfg.Style) {
		if cfg.Style != "" {
			log.Printf("Unknown style %q in config, using default %q", cfg.Style, defaults.Style)
		}
		cfg.Style = defaults.Style
	}
	if cfg.Letter == "" {
		cfg.Letter = defaults.Letter
	}
	if !validHexColor(cfg.Background) {
		log.Printf("Invalid background %q in config, using default %q", cfg.Background, defaults.Background)
		cfg.Background = defaults.Background
	}
	if !validHexColor(cfg.Accent) {
		log.Printf("Invalid accent %q in config, using default %q", cfg.Accent, defaults.Accent)
		cfg.Accent = defaults.Accent
	}
	if !validHexColor(cfg.Text) {
		log.Printf("Invalid text %q in config, using default %q", cfg.Text, defaults.Text)
		cfg.Text = defaults.Text
	}
	if !validPreviewSize(cfg.PreviewSize) {
		log.Printf("Invalid preview_size %d in config, using default %d", cfg.PreviewSize, defaults.PreviewSize)
		cfg.PreviewSize = defaults.PreviewSize
	}

	return cfg
}

// saveConfig writes cfg to configPath, creating parent dirs.
func saveConfig(cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeFileAtomic(configPath, append(data, '\n'))
}
