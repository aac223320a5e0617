package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPHost string
	HTTPPort string

	MySQLDSN     string
	MySQLMaxOpen int
	MySQLMaxIdle int
	MySQLMaxLife time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// smtp | ses | noop
	EmailProvider string
	SMTPHost      string
	SMTPPort      string
	AWSRegion     string

	// redis | mysql
	LockBackend string

	AccountCacheTTL time.Duration
	SendTimeout     time.Duration
	DispatchTimeout time.Duration
	MaxDeliveries   int

	TemplateDir string
	CVDir       string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		HTTPHost: getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		MySQLDSN:     getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/autoapply?parseTime=true"),
		MySQLMaxOpen: getEnvInt("MYSQL_MAX_OPEN", 10),
		MySQLMaxIdle: getEnvInt("MYSQL_MAX_IDLE", 5),
		MySQLMaxLife: getEnvDuration("MYSQL_MAX_LIFETIME", 5*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EmailProvider: getEnv("EMAIL_PROVIDER", "smtp"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		LockBackend: getEnv("LOCK_BACKEND", "redis"),

		AccountCacheTTL: getEnvDuration("ACCOUNT_CACHE_TTL", time.Minute),
		SendTimeout:     getEnvDuration("SEND_TIMEOUT", 8*time.Second),
		DispatchTimeout: getEnvDuration("DISPATCH_TIMEOUT", time.Minute),
		MaxDeliveries:   getEnvInt("QUEUE_MAX_DELIVERIES", 5),

		TemplateDir: getEnv("TEMPLATE_DIR", ""),
		CVDir:       getEnv("CV_DIR", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("30s", "5m") or a bare number
// of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
