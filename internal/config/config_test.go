package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "OUTPUT_DIR", "CATALOG_CACHE_TTL", "REDIS_URL", "DATABASE_URL"} {
		unsetEnv(t, key)
	}

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, time.Hour, cfg.CatalogCacheTTL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/dw.db")
	t.Setenv("CATALOG_CACHE_TTL", "90")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := LoadConfig()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/dw.db", cfg.SQLitePath)
	assert.Equal(t, 90*time.Second, cfg.CatalogCacheTTL)
	require.NoError(t, cfg.Validate())
}

func TestConfig_PostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", cfg.PostgresDSN())

	cfg.DatabaseURL = "postgres://u:p@db/n"
	assert.Equal(t, "postgres://u:p@db/n", cfg.PostgresDSN())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{DBDriver: "postgres", JWTSecret: "x", EngineScript: "main.py"}, false},
		{"bad driver", Config{DBDriver: "mysql", JWTSecret: "x", EngineScript: "main.py"}, true},
		{"no secret", Config{DBDriver: "sqlite", EngineScript: "main.py"}, true},
		{"no script", Config{DBDriver: "sqlite", JWTSecret: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
