package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int    `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`
	DatabaseURL string `json:"database_url"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`
	DBPath     string `json:"db_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret string `json:"jwt_secret"`

	// Blob storage configuration
	StorageDriver    string `json:"storage_driver"`
	StorageLocalDir  string `json:"storage_local_dir"`
	StoragePublicURL string `json:"storage_public_url"`
	S3Bucket         string `json:"s3_bucket"`
	S3Region         string `json:"s3_region"`
	S3Endpoint       string `json:"s3_endpoint"`
	S3AccessKey      string `json:"s3_access_key"`
	S3SecretKey      string `json:"s3_secret_key"`

	// API behaviour
	PageSize int    `json:"page_size"`
	SeedFile string `json:"seed_file"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DatabaseURL: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, LogLevel: %s, JWTSecret: [REDACTED], StorageDriver: %s, S3Bucket: %s, S3Region: %s, S3AccessKey: [REDACTED], S3SecretKey: [REDACTED], PageSize: %d}",
		c.Port, c.Host, c.Environment, maskDatabaseURL(c.DatabaseURL), c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.DBPath, c.LogLevel,
		c.StorageDriver, c.S3Bucket, c.S3Region, c.PageSize)
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It also validates formats like DatabaseURL and the storage driver
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	dbURL := GetEnvWithDefault("DATABASE_URL", "")
	if dbURL != "" {
		// validate URL with net/url
		if _, err := url.ParseRequestURI(dbURL); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL format: %w", err)
		}
	}

	storageDriver := strings.ToLower(GetEnvWithDefault("STORAGE_DRIVER", "local"))
	if storageDriver != "local" && storageDriver != "s3" {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q (supported: local, s3)", storageDriver)
	}

	config := &Config{
		Port:             port,
		Host:             GetEnvWithDefault("APP_HOST", "localhost"),
		Environment:      GetEnvWithDefault("APP_ENV", "development"),
		DatabaseURL:      dbURL,
		DBDriver:         GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:           GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:           GetEnvWithDefault("DB_PORT", "5432"),
		DBName:           GetEnvWithDefault("DB_NAME", "foodgram"),
		DBUser:           GetEnvWithDefault("DB_USER", "foodgram"),
		DBPassword:       GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:        GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:           GetEnvWithDefault("DB_PATH", "foodgram.sqlite"),
		LogLevel:         GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:        GetEnvWithDefault("JWT_SECRET", "secret"),
		StorageDriver:    storageDriver,
		StorageLocalDir:  GetEnvWithDefault("STORAGE_LOCAL_DIR", "media"),
		StoragePublicURL: GetEnvWithDefault("STORAGE_PUBLIC_URL", "/media"),
		S3Bucket:         GetEnvWithDefault("AWS_S3_BUCKET", ""),
		S3Region:         GetEnvWithDefault("AWS_S3_REGION", "us-east-1"),
		S3Endpoint:       GetEnvWithDefault("AWS_S3_ENDPOINT", ""),
		S3AccessKey:      GetEnvWithDefault("AWS_ACCESS_KEY", ""),
		S3SecretKey:      GetEnvWithDefault("AWS_SECRET_KEY", ""),
		PageSize:         GetEnvAsType("PAGE_SIZE", 6),
		SeedFile:         GetEnvWithDefault("SEED_FILE", ""),
	}

	if config.StorageDriver == "s3" && config.S3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required when STORAGE_DRIVER is s3")
	}
	if config.PageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", config.PageSize)
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
