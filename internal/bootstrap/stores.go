package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/devenspear/Crafted25-AIChatbot/internal/analytics"
	"github.com/devenspear/Crafted25-AIChatbot/internal/billing"
	"github.com/devenspear/Crafted25-AIChatbot/internal/corpus"
	"github.com/devenspear/Crafted25-AIChatbot/internal/retrieval"
)

func ProvideEventStore(redisClient *redis.Client, logger *slog.Logger) analytics.Store {
	if redisClient == nil {
		return analytics.NewMemoryStore()
	}
	return analytics.NewRedisStore(redisClient, logger)
}

func ProvideTracker(store analytics.Store, logger *slog.Logger) *analytics.Tracker {
	return analytics.NewTracker(store, logger)
}

func ProvideAggregator(store analytics.Store, logger *slog.Logger) *analytics.Aggregator {
	return analytics.NewAggregator(store, logger)
}

func ProvideReporter(store analytics.Store, logger *slog.Logger) *billing.Reporter {
	return billing.NewReporter(store, logger)
}

func ProvideSweeper(lc fx.Lifecycle, store analytics.Store, logger *slog.Logger) *analytics.Sweeper {
	sweeper := analytics.NewSweeper(store, logger, analytics.DefaultSweepInterval)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
	return sweeper
}

func ProvideRetriever(store *corpus.Store) *retrieval.Retriever {
	return retrieval.NewRetriever(store)
}

var StoresModule = fx.Options(
	fx.Provide(ProvideEventStore),
	fx.Provide(ProvideTracker),
	fx.Provide(ProvideAggregator),
	fx.Provide(ProvideReporter),
	fx.Provide(ProvideSweeper),
	fx.Provide(ProvideRetriever),
)
