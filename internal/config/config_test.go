package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Matcher.Threshold)
	assert.Equal(t, "I'm not sure I understand. Could you rephrase your question?", cfg.Matcher.Fallback)
	assert.Equal(t, "", cfg.Corpus.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus:\n  path: faq.yaml\nlog:\n  file: bot.log\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "faq.yaml", cfg.Corpus.Path)
	assert.Equal(t, "bot.log", cfg.Log.File)
	assert.Equal(t, 0.5, cfg.Matcher.Threshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Matcher.Fallback)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(LogLevelEnv, "debug")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher:\n  threshold: 0.3\n  fallback: Sorry?\nlog:\n  level: warn\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Matcher.Threshold)
	assert.Equal(t, "Sorry?", cfg.Matcher.Fallback)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadKeepsExplicitZeroThreshold(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher:\n  threshold: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Matcher.Threshold)
	assert.NotEmpty(t, cfg.Matcher.Fallback)

	require.NoError(t, os.WriteFile(path, []byte("matcher:\n  fallback: Hmm?\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Matcher.Threshold)
	assert.Equal(t, "Hmm?", cfg.Matcher.Fallback)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher: [\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Corpus.Path = "custom.yaml"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadDefaultWritesUserConfig(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "faqbot", "config.yaml"), path)
	assert.Equal(t, 0.5, cfg.Matcher.Threshold)
	assert.FileExists(t, path)

	// a config in the working directory takes precedence
	require.NoError(t, os.WriteFile("config.yaml", []byte("matcher:\n  threshold: 0.7\n"), 0o644))
	cfg, path, err = LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", path)
	assert.Equal(t, 0.7, cfg.Matcher.Threshold)
}
