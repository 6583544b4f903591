package bootstrap

import (
	"os"
	"strconv"

	"github.com/devenspear/Crafted25-AIChatbot/internal/ratelimit"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	// Empty RedisAddr runs analytics and rate limiting on in-memory
	// fallbacks; the chat path itself never needs Redis.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CorpusPath string

	AnthropicAPIKey  string
	AnthropicBaseURL string
	Model            string
	MaxTokens        int

	AdminToken string
	CronSecret string

	MonthlyBudgetUSD float64

	ChatRateLimit  int
	AdminRateLimit int
}

func LoadConfig() *Config {
	// Missing .env is fine; the environment may be set by the platform.
	_ = godotenv.Load()

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CorpusPath: getEnv("CORPUS_PATH", "data/corpus.json"),

		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
		Model:            getEnv("MODEL_NAME", "claude-3-5-haiku-20241022"),
		MaxTokens:        getEnvInt("MAX_TOKENS", 1024),

		AdminToken: getEnv("ADMIN_TOKEN", ""),
		CronSecret: getEnv("CRON_SECRET", ""),

		MonthlyBudgetUSD: getEnvFloat("MONTHLY_BUDGET_USD", 0),

		ChatRateLimit:  getEnvInt("CHAT_RATE_LIMIT", ratelimit.ChatLimit),
		AdminRateLimit: getEnvInt("ADMIN_RATE_LIMIT", ratelimit.AdminLimit),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
