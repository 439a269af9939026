package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Assign   AssignConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AssignConfig struct {
	SuggestionBackend string // "memory", "redis" or "database"
	SuggestionTTL     time.Duration
	DialogTTL         time.Duration
	CandidateCacheTTL time.Duration
	RefreshTopic      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/relations.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Assign: AssignConfig{
			SuggestionBackend: getEnv("SUGGESTION_BACKEND", "memory"),
			SuggestionTTL:     time.Duration(getEnvAsInt("SUGGESTION_TTL_HOURS", 24*30)) * time.Hour,
			DialogTTL:         time.Duration(getEnvAsInt("DIALOG_TTL_MINUTES", 30)) * time.Minute,
			CandidateCacheTTL: time.Duration(getEnvAsInt("CANDIDATE_CACHE_TTL_SECONDS", 60)) * time.Second,
			RefreshTopic:      getEnv("RELATIONS_REFRESH_TOPIC", "RELATIONS_CHANGED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
