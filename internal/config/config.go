package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultThreshold = 0.5
	defaultFallback  = "I'm not sure I understand. Could you rephrase your question?"
	defaultLogLevel  = "info"

	// LogLevelEnv overrides log.level when set.
	LogLevelEnv = "FAQBOT_LOG_LEVEL"
)

// MatcherConfig tunes answer acceptance.
type MatcherConfig struct {
	Threshold float64 `yaml:"threshold"`
	Fallback  string  `yaml:"fallback"`
}

// CorpusConfig selects the FAQ corpus. An empty path uses the built-in entries.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures logrus output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Matcher MatcherConfig `yaml:"matcher"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Log     LogConfig     `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	// Keys absent from the file keep their defaults.
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/faqbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/faqbot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "faqbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Matcher: MatcherConfig{Threshold: defaultThreshold, Fallback: defaultFallback},
		Log:     LogConfig{Level: defaultLogLevel},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if strings.TrimSpace(cfg.Matcher.Fallback) == "" {
		cfg.Matcher.Fallback = defaultFallback
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}

func applyEnv(cfg *AppConfig) {
	if lvl := os.Getenv(LogLevelEnv); lvl != "" {
		cfg.Log.Level = lvl
	}
}
