package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the process needs at startup. The JWT secret and
// the Mongo handle are passed down explicitly from here; nothing reads the
// environment after Load returns.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenTTL    time.Duration
	GinMode     string
	GithubToken string
}

// Load builds Config from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		DBName:      getEnv("DB_NAME", "devlink"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    time.Duration(getEnvInt("TOKEN_TTL_HOURS", 100)) * time.Hour,
		GinMode:     getEnv("GIN_MODE", "debug"),
		GithubToken: os.Getenv("GITHUB_TOKEN"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
