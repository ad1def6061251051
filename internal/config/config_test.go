package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mathsolve", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 3600, cfg.Redis.AnswerTTLSeconds)
	assert.Equal(t, 300, cfg.Redis.HistoryTTLSeconds)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "question.solve.events", cfg.RabbitMQ.SolveEventQueue)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 9090

[redis]
answer_ttl_seconds = 60

[rabbitmq]
enabled = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 60, cfg.Redis.AnswerTTLSeconds)
	assert.True(t, cfg.RabbitMQ.Enabled)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "mathsolve", cfg.App.Name)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app]\nport = 9090\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7070")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("RABBITMQ_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.App.Port, "environment wins over the file")
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.True(t, cfg.RabbitMQ.Enabled)
}

func TestEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("APP_PORT", "not-a-number")
	t.Setenv("RABBITMQ_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "svc")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "math")
	t.Setenv("POSTGRES_SSLMODE", "require")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5433 user=svc password=pw dbname=math sslmode=require", cfg.PostgresDSN())
}

func TestHTTPAddr(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "8081")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8081", cfg.HTTPAddr())
}
