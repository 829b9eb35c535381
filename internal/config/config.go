package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings fichas needs to reach the processing API and
// store its artifacts.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Endpoints Endpoints
	OutputDir string
	LogFile   string
}

// Endpoints lists the API paths consumed by the client.
type Endpoints struct {
	Root        string
	Health      string
	ProcessPDFs string
}

// EnvBaseURL overrides the configured API base URL when set.
const EnvBaseURL = "FICHAS_API_BASE_URL"

const (
	defaultConfigPath = "~/.config/fichas/config.toml"
	defaultLogFile    = "~/.local/state/fichas/fichas.log"
	defaultBaseURL    = "https://amaro-api.onrender.com"

	// RequestTimeout bounds every API call; large PDF batches take minutes.
	RequestTimeout = 300000 * time.Millisecond
)

// DefaultEndpoints returns the fixed API paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Root:        "/",
		Health:      "/api/health",
		ProcessPDFs: "/api/processar-pdfs/",
	}
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:   defaultBaseURL,
		Timeout:   RequestTimeout,
		Endpoints: DefaultEndpoints(),
		OutputDir: ".",
		LogFile:   mustExpand(defaultLogFile),
	}
}

// Load locates and parses the fichas config, falling back to defaults when
// missing. The FICHAS_API_BASE_URL environment variable takes precedence over
// the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		API struct {
			BaseURL string `toml:"base_url"`
		} `toml:"api"`
		OutputDir string `toml:"output_dir"`
		LogFile   string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(raw.API.BaseURL); base != "" {
		cfg.BaseURL = base
	}
	if dir := strings.TrimSpace(raw.OutputDir); dir != "" {
		cfg.OutputDir = mustExpand(dir)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	applyEnv(&cfg)

	return cfg, nil
}

// WithBaseURL returns a copy of c pointing at base when base is non-empty.
func (c Config) WithBaseURL(base string) Config {
	if trimmed := strings.TrimSpace(base); trimmed != "" {
		c.BaseURL = trimmed
	}
	return c
}

// WithOutputDir returns a copy of c saving results into dir when dir is
// non-empty.
func (c Config) WithOutputDir(dir string) Config {
	if trimmed := strings.TrimSpace(dir); trimmed != "" {
		c.OutputDir = mustExpand(trimmed)
	}
	return c
}

func applyEnv(cfg *Config) {
	if base := strings.TrimSpace(os.Getenv(EnvBaseURL)); base != "" {
		cfg.BaseURL = base
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
