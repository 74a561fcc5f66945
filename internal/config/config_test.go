package config

import (
	"os"
	"path/filepath"
	"testing"

	"deck-translator/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvOpenAIBaseURL, "")
	t.Setenv(EnvOpenAIModel, "")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	m := newTestManager(t)

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.GetConfig()
	if cfg.OpenAIBaseURL != DefaultBaseURL {
		t.Errorf("base URL = %q, want %q", cfg.OpenAIBaseURL, DefaultBaseURL)
	}
	if cfg.OpenAIModel != DefaultModel {
		t.Errorf("model = %q, want %q", cfg.OpenAIModel, DefaultModel)
	}
	if cfg.SourceLang != DefaultSourceLang || cfg.TargetLang != DefaultTargetLang {
		t.Errorf("languages = %q→%q, want %q→%q", cfg.SourceLang, cfg.TargetLang, DefaultSourceLang, DefaultTargetLang)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("timeout = %d, want %d", cfg.RequestTimeout, DefaultRequestTimeout)
	}
}

func TestLoadInvalidJSONUsesDefaults(t *testing.T) {
	clearEnv(t)
	m := newTestManager(t)
	if err := os.WriteFile(m.GetConfigPath(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.GetModel(); got != DefaultModel {
		t.Errorf("model = %q, want default after invalid file", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	m := newTestManager(t)
	m.SetConfig(&types.Config{
		OpenAIAPIKey:   "sk-test",
		OpenAIBaseURL:  "https://example.com/v1",
		OpenAIModel:    "gpt-4o-mini",
		SourceLang:     "en",
		TargetLang:     "ja",
		RequestTimeout: 30,
	})

	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := NewManager(m.GetConfigPath())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := reloaded.GetAPIKey(); got != "sk-test" {
		t.Errorf("API key = %q", got)
	}
	if got := reloaded.GetBaseURL(); got != "https://example.com/v1" {
		t.Errorf("base URL = %q", got)
	}
	if got := reloaded.GetModel(); got != "gpt-4o-mini" {
		t.Errorf("model = %q", got)
	}
	if got := reloaded.GetTargetLang(); got != "ja" {
		t.Errorf("target lang = %q", got)
	}
	if got := reloaded.GetRequestTimeout(); got != 30 {
		t.Errorf("timeout = %d", got)
	}
}

func TestSaveFilePermissions(t *testing.T) {
	m := newTestManager(t)
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(m.GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
}

func TestEnvFallbacks(t *testing.T) {
	m := newTestManager(t)
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	t.Setenv(EnvOpenAIAPIKey, "sk-from-env")
	t.Setenv(EnvOpenAIBaseURL, "https://env.example.com/v1")
	t.Setenv(EnvOpenAIModel, "env-model")

	if got := m.GetAPIKey(); got != "sk-from-env" {
		t.Errorf("API key = %q, want env value", got)
	}
	if got := m.GetBaseURL(); got != "https://env.example.com/v1" {
		t.Errorf("base URL = %q, want env value", got)
	}
	if got := m.GetModel(); got != "env-model" {
		t.Errorf("model = %q, want env value", got)
	}
}

func TestConfigFileKeyBeatsEnv(t *testing.T) {
	m := newTestManager(t)
	m.SetConfig(&types.Config{OpenAIAPIKey: "sk-from-file"})

	t.Setenv(EnvOpenAIAPIKey, "sk-from-env")
	if got := m.GetAPIKey(); got != "sk-from-file" {
		t.Errorf("API key = %q, want file value", got)
	}
}
