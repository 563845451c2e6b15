package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "profile_analyses", cfg.RabbitMQ.Queue)
	assert.Equal(t, "analysis_updates", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 3, cfg.RabbitMQ.Concurrency)
	assert.Equal(t, "auto", cfg.Storage.Region)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeFile(t, "config.yaml", `
port: 9000
database_url: postgres://file/db
admin_emails:
  - Admin@Example.com
storage:
  bucket: reports
rabbitmq:
  concurrency: 5
`)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL, "environment overrides file")
	assert.Equal(t, []string{"admin@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 5, cfg.RabbitMQ.Concurrency)
	assert.True(t, cfg.Storage.Enabled())
}

func TestLoad_AdminEmailsFromEnvironment(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " root@example.com, Ops@Example.com ,,")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.AdminEmails)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{"port zero", Config{Port: 0, RabbitMQ: RabbitMQConfig{Concurrency: 1}}, "port"},
		{"port too high", Config{Port: 70000, RabbitMQ: RabbitMQConfig{Concurrency: 1}}, "port"},
		{"no workers", Config{Port: 8080}, "rabbitmq.concurrency"},
		{"negative retries", Config{Port: 8080, RabbitMQ: RabbitMQConfig{Concurrency: 1, MaxRetries: -1}}, "rabbitmq.max_retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}

	valid := Config{Port: 8080, RabbitMQ: RabbitMQConfig{Concurrency: 1}}
	assert.NoError(t, valid.Validate())
}
