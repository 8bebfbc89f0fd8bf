package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultDatabaseDSN = "host=localhost user=user password=password dbname=roomchatdb port=5432 sslmode=disable"

// Config holds the runtime settings of the chat backend.
type Config struct {
	ServerAddr string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	// DevTokens exposes POST /auth/token, which mints a token for any active
	// user id. Local development only.
	DevTokens bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: .env file not loaded, using process environment")
	}

	cfg := &Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", defaultDatabaseDSN),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTIssuer:     getEnv("JWT_ISSUER", "roomchat-service"),
		JWTTTL:        getEnvAsDuration("JWT_TTL", 72*time.Hour),
		DevTokens:     getEnvAsBool("AUTH_DEV_TOKENS", false),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadDatabaseDSN reads only the database connection string. Offline tools
// such as the admin CLI use it and do not need the JWT settings.
func LoadDatabaseDSN() string {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: .env file not loaded, using process environment")
	}
	return getEnv("DATABASE_DSN", defaultDatabaseDSN)
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must be set")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
