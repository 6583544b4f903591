package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/devenspear/Crafted25-AIChatbot/internal/corpus"
	"github.com/devenspear/Crafted25-AIChatbot/internal/llm"
)

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ProvideRedisClient returns nil when no Redis address is configured.
// Downstream providers fall back to in-memory implementations.
func ProvideRedisClient(cfg *Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Warn("redis not configured, using in-memory fallbacks")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func ProvideCorpusStore(cfg *Config, logger *slog.Logger) (*corpus.Store, error) {
	store, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", cfg.CorpusPath, err)
	}
	logger.Info("corpus loaded", "path", cfg.CorpusPath, "pages", store.Len())
	return store, nil
}

func ProvideLLMClient(cfg *Config) llm.Client {
	client := llm.NewAnthropic(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.Model)
	client.MaxTokens = cfg.MaxTokens
	return client
}

var InfrastructureModule = fx.Options(
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideRedisClient),
	fx.Provide(ProvideCorpusStore),
	fx.Provide(ProvideLLMClient),
)
