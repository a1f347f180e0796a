// Package config loads idcards settings from a YAML file, an optional .env
// file and IDCARDS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Layout positions card elements on the template, in pixels.
type Layout struct {
	NameX        int `yaml:"name_x"`
	NameY        int `yaml:"name_y"`
	MaxNameWidth int `yaml:"max_name_width" validate:"gt=0"`
	LineSpacing  int `yaml:"line_spacing" validate:"gt=0"`
	IDGap        int `yaml:"id_gap"`
	QRX          int `yaml:"qr_x"`
	QRY          int `yaml:"qr_y"`
	QRSize       int `yaml:"qr_size" validate:"gt=0"`
}

// Config holds all application configuration values.
type Config struct {
	Port           int     `yaml:"port" validate:"min=1,max=65535"`
	Password       string  `yaml:"password" validate:"required"`
	BaseURL        string  `yaml:"base_url" validate:"required,url"`
	FontPath       string  `yaml:"font_path" validate:"required"`
	TemplatePath   string  `yaml:"template_path" validate:"required"`
	TemplateWidth  int     `yaml:"template_width" validate:"gte=0"`
	TemplateHeight int     `yaml:"template_height" validate:"gte=0"`
	NameFontSize   float64 `yaml:"name_font_size" validate:"gt=0"`
	IDFontSize     float64 `yaml:"id_font_size" validate:"gt=0"`
	Layout         Layout  `yaml:"layout"`
	ArchiveName    string  `yaml:"archive_name" validate:"required"`
	LogLevel       string  `yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

func defaults() *Config {
	return &Config{
		Port:         8080,
		BaseURL:      "https://code.swecha.org/",
		FontPath:     "fonts/CodecPro-Regular.ttf",
		TemplatePath: "id_template.png",
		NameFontSize: 35,
		IDFontSize:   22,
		Layout: Layout{
			NameX:        200,
			NameY:        510,
			MaxNameWidth: 500,
			LineSpacing:  45,
			IDGap:        10,
			QRX:          250,
			QRY:          240,
			QRSize:       255,
		},
		ArchiveName: "ID_Cards.zip",
		LogLevel:    "info",
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file in the working directory
// is loaded first; IDCARDS_* variables override file and default values.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadDotEnv does not override variables already present in the environment.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	port := os.Getenv("IDCARDS_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("IDCARDS_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("IDCARDS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("IDCARDS_FONT_PATH"); v != "" {
		cfg.FontPath = v
	}
	if v := os.Getenv("IDCARDS_TEMPLATE_PATH"); v != "" {
		cfg.TemplatePath = v
	}
	if v := os.Getenv("IDCARDS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
