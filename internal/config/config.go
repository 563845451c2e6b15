package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration shared by the server, worker and CLI.
// Values come from an optional config file, overridden by environment variables.
type Config struct {
	DatabaseURL string   `mapstructure:"database_url"`
	Port        int      `mapstructure:"port"`
	PolicyFile  string   `mapstructure:"policy_file"`
	CachePath   string   `mapstructure:"cache_path"`
	AdminEmails []string `mapstructure:"admin_emails"`
	CORSOrigin  string   `mapstructure:"cors_origin"`

	LogJSON bool `mapstructure:"log_json"`
	Debug   bool `mapstructure:"debug"`

	Gemini   GeminiConfig   `mapstructure:"gemini"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// GeminiConfig configures the optional suggestion enhancer.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// RabbitMQConfig configures the analysis worker.
type RabbitMQConfig struct {
	URL         string `mapstructure:"url"`
	Queue       string `mapstructure:"queue"`
	Exchange    string `mapstructure:"exchange"`
	Concurrency int    `mapstructure:"concurrency"`
	MaxRetries  int    `mapstructure:"max_retries"`
}

// StorageConfig configures report export to R2 or S3. AccountID selects the R2 endpoint.
type StorageConfig struct {
	AccountID       string `mapstructure:"account_id"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
}

// Enabled reports whether enough settings are present to export reports.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"database_url":              "DATABASE_URL",
	"port":                      "PORT",
	"policy_file":               "POLICY_FILE",
	"cache_path":                "REPORT_CACHE_PATH",
	"admin_emails":              "ADMIN_EMAILS",
	"cors_origin":               "CORS_ORIGIN",
	"log_json":                  "LOG_JSON",
	"debug":                     "DEBUG",
	"gemini.api_key":            "GEMINI_API_KEY",
	"rabbitmq.url":              "RABBITMQ_URL",
	"rabbitmq.queue":            "RABBITMQ_QUEUE",
	"rabbitmq.exchange":         "RABBITMQ_EXCHANGE",
	"rabbitmq.concurrency":      "WORKER_CONCURRENCY",
	"rabbitmq.max_retries":      "WORKER_MAX_RETRIES",
	"storage.account_id":        "R2_ACCOUNT_ID",
	"storage.access_key_id":     "R2_ACCESS_KEY_ID",
	"storage.secret_access_key": "R2_SECRET_ACCESS_KEY",
	"storage.bucket":            "R2_BUCKET_NAME",
	"storage.region":            "R2_REGION",
	"storage.endpoint":          "R2_ENDPOINT",
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("cors_origin", "*")
	v.SetDefault("rabbitmq.queue", "profile_analyses")
	v.SetDefault("rabbitmq.exchange", "analysis_updates")
	v.SetDefault("rabbitmq.concurrency", 3)
	v.SetDefault("rabbitmq.max_retries", 3)
	v.SetDefault("storage.region", "auto")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.AdminEmails = normalizeEmails(cfg.AdminEmails)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return configErr("port", "must be between 1 and 65535, got %d", c.Port)
	}
	if c.RabbitMQ.Concurrency < 1 {
		return configErr("rabbitmq.concurrency", "must be at least 1, got %d", c.RabbitMQ.Concurrency)
	}
	if c.RabbitMQ.MaxRetries < 0 {
		return configErr("rabbitmq.max_retries", "must be non-negative, got %d", c.RabbitMQ.MaxRetries)
	}
	return nil
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		for _, part := range strings.Split(email, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
