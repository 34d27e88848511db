package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	KB       KBConfig
	Bot      BotConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LLMConfig configures the OpenAI-compatible embed/chat backend (Ollama by default).
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	ChatModel   string
	EmbedModel  string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

type KBConfig struct {
	Path      string
	IndexPath string
	TopK      int
	RulesPath string
}

type BotConfig struct {
	MaxTicketsPerUser int
	MaxHistoryTurns   int
	MaxTurnChars      int
	MaxAnswerChars    int
	AdminToken        string
	AdminMention      string
	AlertWebhookURL   string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, plain environment variables work too (Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	maxTokens, _ := strconv.Atoi(getEnv("MAX_TOKENS", "600"))
	temperature, _ := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.2"), 64)
	llmTimeout, _ := strconv.Atoi(getEnv("LLM_TIMEOUT", "60"))
	maxAttempts, _ := strconv.Atoi(getEnv("LLM_MAX_ATTEMPTS", "2"))
	backoffMs, _ := strconv.Atoi(getEnv("LLM_BACKOFF_MS", "500"))
	topK, _ := strconv.Atoi(getEnv("KB_TOP_K", "3"))
	maxTickets, _ := strconv.Atoi(getEnv("MAX_TICKETS_PER_USER", "2"))
	maxTurns, _ := strconv.Atoi(getEnv("MAX_HISTORY_TURNS", "20"))
	maxTurnChars, _ := strconv.Atoi(getEnv("MAX_TURN_CHARS", "3000"))
	maxAnswerChars, _ := strconv.Atoi(getEnv("MAX_ANSWER_CHARS", "2000"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "customhost"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
			APIKey:      getEnv("OLLAMA_API_KEY", "ollama"),
			ChatModel:   getEnv("MODEL", "gpt-oss:20b"),
			EmbedModel:  getEnv("EMBED_MODEL", "nomic-embed-text"),
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Timeout:     time.Duration(llmTimeout) * time.Second,
			MaxAttempts: maxAttempts,
			Backoff:     time.Duration(backoffMs) * time.Millisecond,
		},
		KB: KBConfig{
			Path:      getEnv("KB_PATH", "./kb.json"),
			IndexPath: getEnv("KB_INDEX_PATH", "./kb.index.json"),
			TopK:      topK,
			RulesPath: getEnv("MODERATION_RULES_PATH", ""),
		},
		Bot: BotConfig{
			MaxTicketsPerUser: maxTickets,
			MaxHistoryTurns:   maxTurns,
			MaxTurnChars:      maxTurnChars,
			MaxAnswerChars:    maxAnswerChars,
			AdminToken:        getEnv("ADMIN_TOKEN", ""),
			AdminMention:      getEnv("ADMIN_MENTION", ""),
			AlertWebhookURL:   getEnv("ADMIN_ALERT_WEBHOOK_URL", ""),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
