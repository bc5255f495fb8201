// Package config loads the application configuration. The knowledge base
// has its own loader and validation in internal/kb; this covers everything
// around it: server, storage, logging, assistant credentials.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Knowledge KnowledgeConfig `yaml:"knowledge" mapstructure:"knowledge"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Assistant AssistantConfig `yaml:"assistant" mapstructure:"assistant"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// KnowledgeConfig points at the knowledge base file.
type KnowledgeConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the evaluation history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// BatchConfig configures concurrent batch evaluation.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// AssistantConfig holds Anthropic API settings for the chat assistant.
type AssistantConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	Model          string  `yaml:"model" mapstructure:"model"`
	MaxTokens      int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	HistoryWindow  int     `yaml:"history_window" mapstructure:"history_window"`
	RequestsPerMin int     `yaml:"requests_per_min" mapstructure:"requests_per_min"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SOLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("knowledge.path", "knowledge.yaml")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "solar.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("assistant.model", "claude-haiku-4-5-20251001")
	v.SetDefault("assistant.max_tokens", 1024)
	v.SetDefault("assistant.history_window", 5)
	v.SetDefault("assistant.requests_per_min", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
