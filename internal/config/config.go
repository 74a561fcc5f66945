// Package config provides configuration management for the deck translator tools.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"deck-translator/internal/logger"
	"deck-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "config.json"
	// EnvOpenAIAPIKey is the environment variable name for the OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for the OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// EnvOpenAIModel is the environment variable name for the model
	EnvOpenAIModel = "OPENAI_MODEL"
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default model to use for translation
	DefaultModel = "gpt-4o"
	// DefaultSourceLang is the default source language code
	DefaultSourceLang = "en"
	// DefaultTargetLang is the default target language code
	DefaultTargetLang = "zh"
	// DefaultRequestTimeout is the default per-request timeout in seconds
	DefaultRequestTimeout = 120
)

// Manager manages application configuration
type Manager struct {
	configPath string
	config     *types.Config
}

// NewManager creates a new Manager with the specified config path.
// If configPath is empty, it uses the default path in the user's home directory.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "deck-translator", DefaultConfigFileName)
	}

	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		OpenAIAPIKey:   "",
		OpenAIBaseURL:  DefaultBaseURL,
		OpenAIModel:    DefaultModel,
		SourceLang:     DefaultSourceLang,
		TargetLang:     DefaultTargetLang,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, defaults are used. Environment variables take
// precedence for the API key, base URL and model if the file values are empty.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			m.config = config
		}
	}

	// Apply defaults for empty fields
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = DefaultBaseURL
	}
	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = DefaultModel
	}
	if m.config.SourceLang == "" {
		m.config.SourceLang = DefaultSourceLang
	}
	if m.config.TargetLang == "" {
		m.config.TargetLang = DefaultTargetLang
	}
	if m.config.RequestTimeout <= 0 {
		m.config.RequestTimeout = DefaultRequestTimeout
	}

	return nil
}

// Save saves the current configuration to the config file.
func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// GetAPIKey returns the OpenAI API key, checking the config file first and
// falling back to the environment variable.
func (m *Manager) GetAPIKey() string {
	if m.config != nil && m.config.OpenAIAPIKey != "" {
		return m.config.OpenAIAPIKey
	}
	return os.Getenv(EnvOpenAIAPIKey)
}

// GetBaseURL returns the OpenAI API base URL, checking the config file first
// and falling back to the environment variable.
func (m *Manager) GetBaseURL() string {
	if m.config != nil && m.config.OpenAIBaseURL != "" && m.config.OpenAIBaseURL != DefaultBaseURL {
		return m.config.OpenAIBaseURL
	}
	if envURL := os.Getenv(EnvOpenAIBaseURL); envURL != "" {
		return envURL
	}
	if m.config != nil && m.config.OpenAIBaseURL != "" {
		return m.config.OpenAIBaseURL
	}
	return DefaultBaseURL
}

// GetModel returns the model to use for translation.
func (m *Manager) GetModel() string {
	if envModel := os.Getenv(EnvOpenAIModel); envModel != "" {
		return envModel
	}
	if m.config != nil && m.config.OpenAIModel != "" {
		return m.config.OpenAIModel
	}
	return DefaultModel
}

// GetSourceLang returns the source language code.
func (m *Manager) GetSourceLang() string {
	if m.config != nil && m.config.SourceLang != "" {
		return m.config.SourceLang
	}
	return DefaultSourceLang
}

// GetTargetLang returns the target language code.
func (m *Manager) GetTargetLang() string {
	if m.config != nil && m.config.TargetLang != "" {
		return m.config.TargetLang
	}
	return DefaultTargetLang
}

// GetRequestTimeout returns the per-request timeout in seconds.
func (m *Manager) GetRequestTimeout() int {
	if m.config != nil && m.config.RequestTimeout > 0 {
		return m.config.RequestTimeout
	}
	return DefaultRequestTimeout
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *Manager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}
