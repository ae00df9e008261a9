// Package config manages application configuration from default values,
// an optional config.yaml file, and BOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the Telegram bot credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// GeminiConfig holds the Gemini API credentials and generation parameters.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key" validate:"required"`
	ModelName   string  `mapstructure:"model_name" validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"min=0,max=2"`
}

// DatabaseConfig holds the SQLite database settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ServerConfig holds the HTTP listen address and webhook registration settings.
type ServerConfig struct {
	Listen      string `mapstructure:"listen" validate:"required"`
	WebhookURL  string `mapstructure:"webhook_url" validate:"required,url"`
	WebhookPath string `mapstructure:"webhook_path" validate:"required,startswith=/"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig configures scheduled background tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds all user-visible reply strings.
type MessagesConfig struct {
	SelectLanguage   string `mapstructure:"select_language" validate:"required"`
	Greeting         string `mapstructure:"greeting" validate:"required"`
	LanguageSet      string `mapstructure:"language_set" validate:"required"`
	SelectFirst      string `mapstructure:"select_first" validate:"required"`
	TextError        string `mapstructure:"text_error" validate:"required"`
	ImageError       string `mapstructure:"image_error" validate:"required"`
	AudioError       string `mapstructure:"audio_error" validate:"required"`
	VideoUnsupported string `mapstructure:"video_unsupported" validate:"required"`
}

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The config file at configPath (optional)
// 3. BOT_* environment variables
//
// Missing credentials (telegram token, gemini API key, webhook URL) are a
// fatal validation error: the process must not start without them.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow a missing config file; env vars and defaults still apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(errors.Unwrap(err)) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	// Credentials have empty defaults so the BOT_* env bindings are known to
	// viper; validation rejects them when still empty.
	v.SetDefault("telegram.token", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("server.webhook_url", "")

	v.SetDefault("gemini.model_name", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 1.0)

	v.SetDefault("database.path", "mirrormind.db")

	v.SetDefault("server.listen", ":10000")
	v.SetDefault("server.webhook_path", "/webhook")

	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
	})

	v.SetDefault("messages.select_language", "Select your language:")
	v.SetDefault("messages.greeting", "Hi. Tell me what's on your mind.")
	v.SetDefault("messages.language_set", "Language set to %s ✅")
	v.SetDefault("messages.select_first", "Please select language first.")
	v.SetDefault("messages.text_error", "Error generating response.")
	v.SetDefault("messages.image_error", "Couldn't analyze image.")
	v.SetDefault("messages.audio_error", "Couldn't process audio.")
	v.SetDefault("messages.video_unsupported", "Video analysis currently limited. Coming soon 🔥")
}
