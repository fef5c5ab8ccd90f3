package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig

	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	Telegram TelegramConfig
	Airtable AirtableConfig
	OpenAI   OpenAIConfig

	Scheduler  SchedulerConfig
	Export     ExportConfig
	Vocabulary VocabularyConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken   string
	WebhookURL string
	ChatID     int64 // chat receiving reminders, digests, and form notifications
}

type AirtableConfig struct {
	APIKey    string
	BaseID    string
	TableName string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type SchedulerConfig struct {
	Timezone     string
	DigestTime   string // "HH:MM", local to Timezone
	NudgeDelay   time.Duration
	ReminderHour int
}

type ExportConfig struct {
	CSVPath string
}

type VocabularyConfig struct {
	Clients  []string
	Projects []string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	cfg.Telegram.ChatID = viper.GetInt64("telegram.chat_id")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}
	if chatID := viper.GetInt64("telegram_chat_id"); chatID != 0 {
		cfg.Telegram.ChatID = chatID
	}

	cfg.Airtable.APIKey = viper.GetString("airtable.api_key")
	cfg.Airtable.BaseID = viper.GetString("airtable.base_id")
	cfg.Airtable.TableName = viper.GetString("airtable.table_name")
	if key := viper.GetString("airtable_api_key"); key != "" {
		cfg.Airtable.APIKey = key
	}
	if base := viper.GetString("airtable_base_id"); base != "" {
		cfg.Airtable.BaseID = base
	}

	cfg.OpenAI.APIKey = viper.GetString("openai.api_key")
	cfg.OpenAI.Model = viper.GetString("openai.model")
	if key := viper.GetString("openai_api_key"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	cfg.Scheduler.Timezone = viper.GetString("scheduler.timezone")
	cfg.Scheduler.DigestTime = viper.GetString("scheduler.digest_time")
	cfg.Scheduler.NudgeDelay = viper.GetDuration("scheduler.nudge_delay")
	cfg.Scheduler.ReminderHour = viper.GetInt("scheduler.reminder_hour")

	cfg.Export.CSVPath = viper.GetString("export.csv_path")

	cfg.Vocabulary.Clients = splitList(viper.GetString("vocabulary.clients"))
	cfg.Vocabulary.Projects = splitList(viper.GetString("vocabulary.projects"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if cfg.Airtable.APIKey == "" || cfg.Airtable.BaseID == "" {
		return fmt.Errorf("airtable.api_key and airtable.base_id are required")
	}
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("airtable.table_name", "Tasks")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("scheduler.timezone", "Europe/Amsterdam")
	viper.SetDefault("scheduler.digest_time", "07:30")
	viper.SetDefault("scheduler.nudge_delay", "4h")
	viper.SetDefault("scheduler.reminder_hour", 9)
	viper.SetDefault("export.csv_path", "tasks_export.csv")
}

// splitList parses a comma-separated vocabulary string; viper cannot parse
// arrays from env vars seamlessly.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
