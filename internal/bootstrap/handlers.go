package bootstrap

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/devenspear/Crafted25-AIChatbot/internal/analytics"
	"github.com/devenspear/Crafted25-AIChatbot/internal/auth"
	"github.com/devenspear/Crafted25-AIChatbot/internal/billing"
	"github.com/devenspear/Crafted25-AIChatbot/internal/chat"
	"github.com/devenspear/Crafted25-AIChatbot/internal/corpus"
	"github.com/devenspear/Crafted25-AIChatbot/internal/health"
	"github.com/devenspear/Crafted25-AIChatbot/internal/llm"
	"github.com/devenspear/Crafted25-AIChatbot/internal/ratelimit"
	"github.com/devenspear/Crafted25-AIChatbot/internal/retrieval"
)

const version = "1.0.0"

// Limiters carries the per-surface rate limiters. The chat surface and the
// admin surface get independent windows and keys.
type Limiters struct {
	Chat  ratelimit.Limiter
	Admin ratelimit.Limiter
}

func ProvideLimiters(cfg *Config, redisClient *redis.Client, logger *slog.Logger) Limiters {
	if redisClient == nil {
		return Limiters{Chat: ratelimit.Noop{}, Admin: ratelimit.Noop{}}
	}
	return Limiters{
		Chat:  ratelimit.NewSlidingWindow(redisClient, ratelimit.ChatPrefix, cfg.ChatRateLimit, ratelimit.WindowSize, logger),
		Admin: ratelimit.NewSlidingWindow(redisClient, ratelimit.AdminPrefix, cfg.AdminRateLimit, ratelimit.WindowSize, logger),
	}
}

func ProvideAuthMiddleware(cfg *Config) *auth.Middleware {
	return auth.NewMiddleware(cfg.AdminToken, cfg.CronSecret)
}

func ProvideChatHandler(retriever *retrieval.Retriever, client llm.Client, tracker *analytics.Tracker, logger *slog.Logger) *chat.Handler {
	return chat.NewHandler(retriever, client, tracker, logger)
}

func ProvideAnalyticsHandler(store analytics.Store, aggregator *analytics.Aggregator, logger *slog.Logger) *analytics.Handler {
	return analytics.NewHandler(store, aggregator, logger)
}

func ProvideCronHandler(sweeper *analytics.Sweeper, logger *slog.Logger) *analytics.CronHandler {
	return analytics.NewCronHandler(sweeper, logger)
}

func ProvideBillingHandler(cfg *Config, reporter *billing.Reporter, logger *slog.Logger) *billing.Handler {
	return billing.NewHandler(reporter, cfg.MonthlyBudgetUSD, logger)
}

func ProvideHealthHandler(redisClient *redis.Client, corpusStore *corpus.Store) *health.Handler {
	return health.NewHandler(redisClient, corpusStore, version)
}

type HandlerParams struct {
	fx.In

	Echo      *echo.Echo
	Logger    *slog.Logger
	Auth      *auth.Middleware
	Limiters  Limiters
	Chat      *chat.Handler
	Analytics *analytics.Handler
	Cron      *analytics.CronHandler
	Billing   *billing.Handler
	Health    *health.Handler
}

func RegisterRoutes(p HandlerParams) {
	p.Health.RegisterRoutes(p.Echo)

	v1 := p.Echo.Group("/v1")

	chatGroup := v1.Group("", ratelimit.Middleware(p.Limiters.Chat, p.Logger))
	p.Chat.RegisterRoutes(chatGroup)

	admin := v1.Group("/admin", ratelimit.Middleware(p.Limiters.Admin, p.Logger), p.Auth.RequireAdmin)
	p.Analytics.RegisterRoutes(admin)
	p.Billing.RegisterRoutes(admin)

	v1.GET("/cron/cleanup", p.Cron.Cleanup, p.Auth.RequireCron)
}

var HandlersModule = fx.Options(
	fx.Provide(ProvideLimiters),
	fx.Provide(ProvideAuthMiddleware),
	fx.Provide(ProvideChatHandler),
	fx.Provide(ProvideAnalyticsHandler),
	fx.Provide(ProvideCronHandler),
	fx.Provide(ProvideBillingHandler),
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterRoutes),
)
