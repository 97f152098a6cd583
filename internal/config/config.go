package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds all configuration for the application
type Config struct {
	AppMode string
	Port    string
	Storage StorageConfig

	// MaxLoansPerMember caps concurrent active loans per member; 0 means
	// unlimited.
	MaxLoansPerMember int

	// SnapshotCron, when set, schedules periodic snapshot saves in
	// addition to the save-after-mutation default (cron spec syntax).
	SnapshotCron string
}

// StorageConfig selects and configures the durable-state backend
type StorageConfig struct {
	Driver     string
	SQLitePath string
	MySQL      MySQLConfig
}

// MySQLConfig holds mysql connection settings
type MySQLConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// Load reads configuration from a .env file and environment variables
func Load() (*Config, error) {
	// Ignore a missing .env; plain environment variables still apply.
	_ = godotenv.Load()

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	driver := strings.TrimSpace(getEnv("STORAGE_DRIVER", DriverSQLite))
	switch driver {
	case DriverMemory, DriverSQLite, DriverMySQL:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER: '%s' (must be memory, sqlite or mysql)", driver)
	}

	maxLoans, err := strconv.Atoi(getEnv("MAX_LOANS_PER_MEMBER", "0"))
	if err != nil || maxLoans < 0 {
		return nil, fmt.Errorf("invalid MAX_LOANS_PER_MEMBER: %s", getEnv("MAX_LOANS_PER_MEMBER", "0"))
	}

	config := &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "3000"),
		Storage: StorageConfig{
			Driver:     driver,
			SQLitePath: getEnv("SQLITE_PATH", "shelfwise.db"),
			MySQL: MySQLConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "3306"),
				User:     getEnv("DB_USER", "root"),
				Password: getEnv("DB_PASS", ""),
				DBName:   getEnv("DB_NAME", "shelfwise"),
			},
		},
		MaxLoansPerMember: maxLoans,
		SnapshotCron:      strings.TrimSpace(getEnv("SNAPSHOT_CRON", "")),
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
