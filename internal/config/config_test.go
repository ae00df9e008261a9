package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/babinc0270-design/mirrormind-bot/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

const minimalConfig = `
telegram:
  token: "123456:test-token"
gemini:
  api_key: "test-api-key"
server:
  webhook_url: "https://bot.example.com"
`

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, minimalConfig)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logger.Level)
	}
	if cfg.Gemini.ModelName != "gemini-2.5-flash" {
		t.Errorf("default model = %q, want gemini-2.5-flash", cfg.Gemini.ModelName)
	}
	if cfg.Database.Path != "mirrormind.db" {
		t.Errorf("default db path = %q, want mirrormind.db", cfg.Database.Path)
	}
	if cfg.Server.Listen != ":10000" {
		t.Errorf("default listen = %q, want :10000", cfg.Server.Listen)
	}
	if cfg.Server.WebhookPath != "/webhook" {
		t.Errorf("default webhook path = %q, want /webhook", cfg.Server.WebhookPath)
	}
	if cfg.Messages.TextError != "Error generating response." {
		t.Errorf("default text error = %q", cfg.Messages.TextError)
	}
	if cfg.Messages.SelectFirst != "Please select language first." {
		t.Errorf("default select-first = %q", cfg.Messages.SelectFirst)
	}
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, minimalConfig+`
logger:
  level: debug
  json: true
database:
  path: /var/lib/bot/data.db
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "debug" || !cfg.Logger.JSON {
		t.Errorf("logger config = %+v, want debug/json", cfg.Logger)
	}
	if cfg.Database.Path != "/var/lib/bot/data.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name: "missing telegram token",
			content: `
gemini:
  api_key: "test-api-key"
server:
  webhook_url: "https://bot.example.com"
`,
		},
		{
			name: "missing gemini api key",
			content: `
telegram:
  token: "123456:test-token"
server:
  webhook_url: "https://bot.example.com"
`,
		},
		{
			name: "missing webhook url",
			content: `
telegram:
  token: "123456:test-token"
gemini:
  api_key: "test-api-key"
`,
		},
		{
			name: "invalid webhook url",
			content: `
telegram:
  token: "123456:test-token"
gemini:
  api_key: "test-api-key"
server:
  webhook_url: "not a url"
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, tc.content)
			if _, err := config.LoadConfig(path); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:env-token")
	t.Setenv("BOT_GEMINI_API_KEY", "env-api-key")
	t.Setenv("BOT_SERVER_WEBHOOK_URL", "https://env.example.com")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123456:env-token" {
		t.Errorf("token = %q, want env value", cfg.Telegram.Token)
	}
	if cfg.Gemini.APIKey != "env-api-key" {
		t.Errorf("api key = %q, want env value", cfg.Gemini.APIKey)
	}
	if cfg.Server.WebhookURL != "https://env.example.com" {
		t.Errorf("webhook url = %q, want env value", cfg.Server.WebhookURL)
	}
}
