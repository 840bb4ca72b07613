package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port        string
		GinMode     string
		Environment string
	}

	Session struct {
		Secret     string
		CookieName string
		TTL        time.Duration
		Secure     bool
	}

	Upload struct {
		Endpoint      string
		AccessKey     string
		SecretKey     string
		Bucket        string
		UseSSL        bool
		MaxFileSize   int64
		PublicBaseURL string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "koinonia")
	config.DB.Password = getEnv("DB_PASSWORD", "koinonia_password")
	config.DB.Name = getEnv("DB_NAME", "koinonia_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.Environment = getEnv("ENVIRONMENT", "development")

	config.Session.Secret = getEnv("SESSION_SECRET", "")
	config.Session.CookieName = getEnv("SESSION_COOKIE_NAME", "koinonia_session")
	config.Session.TTL = time.Duration(getEnvAsInt64("SESSION_TTL_HOURS", 168)) * time.Hour
	config.Session.Secure = getEnvAsBool("SESSION_COOKIE_SECURE", false)

	config.Upload.Endpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	config.Upload.AccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	config.Upload.SecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	config.Upload.Bucket = getEnv("MINIO_BUCKET", "koinonia-uploads")
	config.Upload.UseSSL = getEnvAsBool("MINIO_USE_SSL", false)
	config.Upload.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 10485760)
	config.Upload.PublicBaseURL = getEnv("UPLOAD_PUBLIC_BASE_URL", "")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
