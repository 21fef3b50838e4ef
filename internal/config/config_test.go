package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_PG_HOST", "db.internal")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
postgres:
  host: ${TEST_PG_HOST}
  user: app
leaderboard:
  default_limit: 25
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "db.internal", cfg.Postgres.Host)
	require.Equal(t, "app", cfg.Postgres.User)
	require.Equal(t, 25, cfg.Leaderboard.DefaultLimit)

	// Unset values fall back to defaults.
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 5432, cfg.Postgres.Port)
	require.Equal(t, "score-submissions", cfg.Kafka.Topic)
	require.NotEmpty(t, cfg.Sanitizer.DisallowedTerms)
	require.Equal(t, "web", cfg.Web.Dir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	cfg := PostgresConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", Database: "d",
	}
	require.Equal(t, "postgres://u:p@localhost:5432/d?sslmode=disable", cfg.ConnectionString())
}
