package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("visit-service")
	require.NoError(t, err)

	assert.Equal(t, "visit-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())

	assert.Equal(t, "http://auth-service:8000/api/auth", cfg.Services.AuthBaseURL)
	assert.Equal(t, "http://auth-service:8000/api/auth/introspect/", cfg.Services.AuthIntrospectURL)
	assert.Equal(t, "http://patient-service:8000/api", cfg.Services.PatientBaseURL)
	assert.Equal(t, "http://staff-service:8000/api", cfg.Services.StaffBaseURL)

	assert.Equal(t, 5*time.Second, cfg.Services.IntrospectTimeout())
	assert.Equal(t, 2*time.Second, cfg.Services.ValidateTimeout())
	assert.Equal(t, 3*time.Second, cfg.Services.EnrichTimeout())

	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "migrations/visit", cfg.Postgres.MigrationsDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9001")
	t.Setenv("AUTH_SERVICE_URL", "http://localhost:7000/api/auth")
	t.Setenv("REMOTE_VALIDATE_TIMEOUT_SECONDS", "7")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("POSTGRES_MIGRATIONS_DIR", "/opt/migrations")

	cfg, err := Load("staff-service")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9001", cfg.App.Addr())
	assert.Equal(t, "http://localhost:7000/api/auth", cfg.Services.AuthBaseURL)
	assert.Equal(t, 7*time.Second, cfg.Services.ValidateTimeout())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "/opt/migrations", cfg.Postgres.MigrationsDir)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load("auth-service")
	require.Error(t, err)
}

func TestTimeoutFallbacks(t *testing.T) {
	services := ServicesConfig{}
	assert.Equal(t, 5*time.Second, services.IntrospectTimeout())
	assert.Equal(t, 2*time.Second, services.ValidateTimeout())
	assert.Equal(t, 3*time.Second, services.EnrichTimeout())

	app := AppConfig{}
	assert.Equal(t, time.Duration(0), app.RequestTimeout())
}

func TestMigrationsDirPerService(t *testing.T) {
	cases := map[string]string{
		"auth-service":      "migrations/auth",
		"patient-service":   "migrations/patient",
		"staff-service":     "migrations/staff",
		"visit-service":     "migrations/visit",
		"inventory-service": "migrations/inventory",
		"something-else":    "migrations",
	}
	for name, want := range cases {
		assert.Equal(t, want, defaultMigrationsDir(name), name)
	}
}
