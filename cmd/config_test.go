package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"pos/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should fall back to defaults without an env file", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "")
		t.Setenv("RABBITMQ_PORT", "")

		cfg, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, 5672, cfg.Rabbit().Port)
		assert.Equal(t, "/", cfg.Rabbit().VHost)
	})

	t.Run("should read values from the env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=9090\nRABBITMQ_TLS=true\n"), 0o600))
		t.Setenv("HTTP_PORT", "")
		t.Setenv("RABBITMQ_TLS", "")
		// godotenv never overrides variables that are already set
		require.NoError(t, os.Unsetenv("HTTP_PORT"))
		require.NoError(t, os.Unsetenv("RABBITMQ_TLS"))

		cfg, err := cmd.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.True(t, cfg.RabbitTLS)
	})

	t.Run("should reject a malformed port", func(t *testing.T) {
		t.Setenv("RABBITMQ_PORT", "amqp")

		_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

		require.Error(t, err)
	})
}

func TestConfig_DSN(t *testing.T) {
	t.Run("should build a key value dsn from the parts", func(t *testing.T) {
		cfg := cmd.Config{DBHost: "db", DBPort: "5432", DBUser: "pos", DBPassword: "secret", DBName: "pos", DBSslMode: "disable"}

		dsn, err := cfg.DSN()

		require.NoError(t, err)
		assert.Equal(t, "host=db port=5432 user=pos password=secret dbname=pos sslmode=disable", dsn)
	})

	t.Run("should convert a database url", func(t *testing.T) {
		cfg := cmd.Config{DBURL: "postgres://pos:secret@db:5432/pos?sslmode=disable"}

		dsn, err := cfg.DSN()

		require.NoError(t, err)
		assert.Contains(t, dsn, "host='db'")
		assert.Contains(t, dsn, "dbname='pos'")
		assert.Contains(t, dsn, "sslmode='disable'")
	})

	t.Run("should reject a url with another scheme", func(t *testing.T) {
		_, err := cmd.Config{DBURL: "mysql://db/pos"}.DSN()

		require.Error(t, err)
	})
}
