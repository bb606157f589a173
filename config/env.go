package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultStorageKey = "@GoMarketplace:carts"

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	StorageDriver string
	StorageDir    string
	StorageKey    string

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	JWTSecret string
	JWTExpiry time.Duration

	PersistRetries int
	OriginURL      string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("APP_PORT", getEnv("PORT", "8080")),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StorageDriver: getEnv("STORAGE_DRIVER", "file"),
		StorageDir:    getEnv("STORAGE_DIR", "./data"),
		StorageKey:    getEnv("STORAGE_KEY", DefaultStorageKey),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "go_marketplace"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 720*time.Hour),

		PersistRetries: getEnvInt("PERSIST_RETRIES", 3),
		OriginURL:      os.Getenv("ORIGIN_URL"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, defaultValue)
		return defaultValue
	}
	return d
}
