package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"library-api/internal/core/domain"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode         string
	Port            string
	Timezone        string
	Database        DatabaseConfig
	Loan            LoanConfig
	Redis           RedisConfig
	OverdueScanCron string
	SeedData        bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql or postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // postgres only
}

// LoanConfig holds the borrowing rules
type LoanConfig struct {
	MaxActive     int
	PeriodDays    int
	ExtensionDays int
}

// RedisConfig holds the loan event stream connection.
// An empty Addr disables event publishing.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	loan, err := loadLoanConfig()
	if err != nil {
		return nil, err
	}

	redis, err := loadRedisConfig(appMode)
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseBool(getEnv("SEED_DATA", strconv.FormatBool(appMode == "dev")))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DATA: %w", err)
	}

	timezone := getEnv("TZ", "Local")
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid TZ '%s': %w", timezone, err)
	}

	config := &Config{
		AppMode:         appMode,
		Port:            getEnv("PORT", "3000"),
		Timezone:        timezone,
		Database:        database,
		Loan:            loan,
		Redis:           redis,
		OverdueScanCron: getEnv("OVERDUE_SCAN_CRON", "30 8 * * *"),
		SeedData:        seed,
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	switch driver {
	case "mysql":
	case "postgres":
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'postgres')", driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "library"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
	}, nil
}

// loadLoanConfig loads the borrowing rules, falling back to 5 loans / 14 days / 7-day extensions
func loadLoanConfig() (LoanConfig, error) {
	defaults := domain.DefaultLoanPolicy()

	maxActive, err := getEnvPositiveInt("LOAN_MAX_ACTIVE", defaults.MaxActiveLoans)
	if err != nil {
		return LoanConfig{}, err
	}
	period, err := getEnvPositiveInt("LOAN_PERIOD_DAYS", defaults.LoanPeriodDays)
	if err != nil {
		return LoanConfig{}, err
	}
	extension, err := getEnvPositiveInt("LOAN_EXTENSION_DAYS", defaults.DefaultExtensionDays)
	if err != nil {
		return LoanConfig{}, err
	}

	return LoanConfig{
		MaxActive:     maxActive,
		PeriodDays:    period,
		ExtensionDays: extension,
	}, nil
}

// loadRedisConfig loads the event stream config based on mode
func loadRedisConfig(mode string) (RedisConfig, error) {
	prefix := modePrefix(mode)

	db, err := strconv.Atoi(getEnv(prefix+"REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid %sREDIS_DB: %w", prefix, err)
	}

	return RedisConfig{
		Addr:     getEnv(prefix+"REDIS_ADDR", ""),
		Password: getEnv(prefix+"REDIS_PASSWORD", ""),
		DB:       db,
		Stream:   getEnv("LOAN_EVENTS_STREAM", "library.loan.events"),
	}, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvPositiveInt parses an integer variable that must be > 0
func getEnvPositiveInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s: '%s' (must be a positive integer)", key, raw)
	}
	return value, nil
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
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}

// Location returns the time zone that defines "today" for loans
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoanPolicy converts the loan settings for the loan service
func (c *Config) LoanPolicy() domain.LoanPolicy {
	return domain.LoanPolicy{
		MaxActiveLoans:       c.Loan.MaxActive,
		LoanPeriodDays:       c.Loan.PeriodDays,
		DefaultExtensionDays: c.Loan.ExtensionDays,
	}
}
