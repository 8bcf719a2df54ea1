package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Corpus   CorpusConfig
	Search   SearchConfig
	Session  SessionConfig
	GigaChat GigaChatConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// CorpusConfig holds property corpus source configuration.
// When DatabaseURL is set the corpus is read from Postgres,
// otherwise from the CSV file at CSVPath.
type CorpusConfig struct {
	CSVPath            string
	DatabaseURL        string
	MaxConnections     int
	MaxIdleConnections int
}

// SearchConfig holds result shaping configuration
type SearchConfig struct {
	ChatLimit    int // properties attached to a chat reply
	CompactLimit int // properties quoted inside fallback prose
}

// SessionConfig holds chat session store configuration
type SessionConfig struct {
	TTLMinutes  int
	MaxMessages int
}

// GigaChatConfig holds GigaChat API configuration
type GigaChatConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	AuthURL      string
	APIBase      string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      int
	Enabled      bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "text" (tint) or "json"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Corpus: CorpusConfig{
			CSVPath:            getEnv("PROPERTIES_CSV_PATH", "data/properties_with_photos.csv"),
			DatabaseURL:        getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Search: SearchConfig{
			ChatLimit:    getEnvAsInt("SEARCH_CHAT_LIMIT", 5),
			CompactLimit: getEnvAsInt("SEARCH_COMPACT_LIMIT", 3),
		},
		Session: SessionConfig{
			TTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 120),
			MaxMessages: getEnvAsInt("SESSION_MAX_MESSAGES", 10),
		},
		GigaChat: GigaChatConfig{
			ClientID:     getEnv("GIGACHAT_CLIENT_ID", ""),
			ClientSecret: getEnv("GIGACHAT_CLIENT_SECRET", ""),
			Scope:        getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			AuthURL:      getEnv("GIGACHAT_AUTH_URL", "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"),
			APIBase:      getEnv("GIGACHAT_API_BASE", "https://gigachat.devices.sberbank.ru/api/v1"),
			Model:        getEnv("GIGACHAT_MODEL", "GigaChat:latest"),
			MaxTokens:    getEnvAsInt("GIGACHAT_MAX_TOKENS", 1000),
			Temperature:  getEnvAsFloat("GIGACHAT_TEMPERATURE", 0.7),
			Timeout:      getEnvAsInt("GIGACHAT_TIMEOUT", 30),
			Enabled:      getEnv("GIGACHAT_CLIENT_ID", "") != "" && getEnv("GIGACHAT_CLIENT_SECRET", "") != "",
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

// Addr returns the host:port the server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
