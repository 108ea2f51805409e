package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Backend.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "https://exercisedb-api1.p.rapidapi.com/api/v1", cfg.ExerciseDB.BaseURL)
	assert.Equal(t, "exercisedb-api1.p.rapidapi.com", cfg.ExerciseDB.Host)
	assert.Equal(t, 30*time.Minute, cfg.Catalog.ResultTTL)
	assert.Equal(t, "exercise-images", cfg.S3.BucketName)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
backend:
  driver: Postgres
postgres:
  dsn: postgres://localhost/liftlog
jwt:
  secret: file-secret
  expiration: 45m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, DriverPostgres, cfg.Backend.Driver)
	assert.Equal(t, "postgres://localhost/liftlog", cfg.Postgres.DSN)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 45*time.Minute, cfg.JWT.Expiration)
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("BACKEND_DRIVER", "cassandra")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestCalendarLocation(t *testing.T) {
	assert.Equal(t, time.UTC, CalendarConfig{}.Location())
	assert.Equal(t, time.UTC, CalendarConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "Europe/Berlin", CalendarConfig{Timezone: "Europe/Berlin"}.Location().String())
}
