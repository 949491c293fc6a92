package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DBDriverSQLite   = "sqlite"
	DBDriverLibSQL   = "libsql"
	DBDriverPostgres = "postgres"
)

type Config struct {
	ServerPort  string
	Environment string
	AppURL      string
	Timezone    string
	// Database
	DBDriver         string
	DBPath           string
	DatabaseURL      string // Postgres DSN (hosted store)
	TursoDatabaseURL string
	TursoAuthToken   string
	// Document storage (S3 compatible)
	UploadDir         string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3PublicURL       string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Reports cache
	RedisURL       string
	ReportCacheTTL time.Duration
	// Jobs
	SLAReminderCron string
	// Auth
	AuthEnabled bool
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		Environment:       environment,
		AppURL:            getEnv("APP_URL", "http://localhost:8080"),
		Timezone:          getEnv("TIMEZONE", "UTC"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", DBDriverSQLite)),
		DBPath:            getEnv("DB_PATH", "db/app.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TursoDatabaseURL:  getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:    getEnv("TURSO_AUTH_TOKEN", ""),
		UploadDir:         getEnv("UPLOAD_DIR", "static/uploads"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3BucketName:      getEnv("S3_BUCKET_NAME", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "claims@backoffice.local"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Claims Backoffice"),
		EmailTestMode:     getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		RedisURL:          getEnv("REDIS_URL", ""),
		ReportCacheTTL:    time.Duration(getEnvInt("REPORT_CACHE_TTL_SECONDS", 60)) * time.Second,
		SLAReminderCron:   getEnv("SLA_REMINDER_CRON", "0 7 * * *"),
		AuthEnabled:       getEnvBool("AUTH_ENABLED", environment == "production"),
	}
}

// Location returns the configured observer timezone, UTC if it cannot be loaded
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[WARNING] Unknown TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s: %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
