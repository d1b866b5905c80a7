package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	OpenAI        OpenAIConfig        `mapstructure:"openai"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Quiz          QuizConfig          `mapstructure:"quiz"`
	Server        ServerConfig        `mapstructure:"server"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Reports       ReportsConfig       `mapstructure:"reports"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type DatabaseConfig struct {
	Host     string            `mapstructure:"host" validate:"required"`
	Port     int               `mapstructure:"port" validate:"required,gt=0,lte=65535"`
	Database string            `mapstructure:"database" validate:"required"`
	Username string            `mapstructure:"username" validate:"required"`
	Password string            `mapstructure:"password"`
	TLS      bool              `mapstructure:"tls"`
	Params   map[string]string `mapstructure:"params"`

	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`
	// ConnMaxLifetime is in seconds.
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

type QuizConfig struct {
	Topic      string `mapstructure:"topic" validate:"required"`
	Difficulty string `mapstructure:"difficulty" validate:"oneof=easy medium hard"`
	// Timezone decides where the daily boundary falls. "Local" uses the host's timezone.
	Timezone            string `mapstructure:"timezone" validate:"required,timezone|eq=Local"`
	Storage             string `mapstructure:"storage" validate:"oneof=mysql yaml memory"`
	AttemptsDirectory   string `mapstructure:"attempts_directory" validate:"required_if=Storage yaml"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gte=1"`
}

type ServerConfig struct {
	Address       string `mapstructure:"address" validate:"required"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

type NotificationsConfig struct {
	WebhookURL     string `mapstructure:"webhook_url" validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
}

type ReportsConfig struct {
	OutputDirectory string `mapstructure:"output_directory" validate:"required"`
	TemplatePath    string `mapstructure:"template_path" validate:"omitempty,file"`
}

const (
	StorageMySQL  = "mysql"
	StorageYAML   = "yaml"
	StorageMemory = "memory"
)

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/enrollease")
	}

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "enrollease")
	v.SetDefault("database.username", "enrollease")
	v.SetDefault("quiz.topic", "general knowledge")
	v.SetDefault("quiz.difficulty", "medium")
	v.SetDefault("quiz.timezone", "Local")
	v.SetDefault("quiz.storage", StorageYAML)
	v.SetDefault("quiz.attempts_directory", filepath.Join("data", "attempts"))
	v.SetDefault("quiz.write_timeout_seconds", 10)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origin", "http://localhost:3000")
	v.SetDefault("notifications.timeout_seconds", 5)
	v.SetDefault("reports.output_directory", filepath.Join("outputs", "reports"))

	// Secrets are bound to environment variables only (not from config file)
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "ENROLLEASE_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind ENROLLEASE_DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("notifications.webhook_url", "ENROLLEASE_WEBHOOK_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind ENROLLEASE_WEBHOOK_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
