package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the backend reads from the environment.
type Config struct {
	Env        string
	Port       string
	GinMode    string
	CORSOrigin string

	LogLevel string
	LogFile  string

	DBDriver    string // "postgres" or "sqlite"
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBSSLMode   string
	SQLitePath  string

	RedisURL        string
	CatalogCacheTTL time.Duration

	JWTSecret string

	PythonPath   string
	EngineScript string
	OutputDir    string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:     getEnv("ENV", "development"),
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", ""),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		LogFile:  getEnv("LOG_FILE", ""),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "datawizard"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		SQLitePath:  getEnv("SQLITE_PATH", "datawizard.db"),

		RedisURL:        getEnv("REDIS_URL", ""),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", time.Hour),

		JWTSecret: getEnv("JWT_SECRET", ""),

		PythonPath:   getEnv("PYTHON_PATH", "python3"),
		EngineScript: getEnv("ENGINE_SCRIPT", "PythonEngine/main.py"),
		OutputDir:    getEnv("OUTPUT_DIR", "outputs"),
	}
}

// PostgresDSN returns DATABASE_URL when set, otherwise builds a keyword DSN
// from the DB_* variables.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	if c.EngineScript == "" {
		return fmt.Errorf("ENGINE_SCRIPT not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// bare integers are seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	fmt.Fprintf(os.Stderr, "WARN: %s=%q not a duration, using default %s\n", key, v, def)
	return def
}
