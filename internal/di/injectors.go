//go:build wireinject
// +build wireinject

package di

import (
	"clanwatch/internal"
	"clanwatch/internal/controllers"
	"clanwatch/internal/providers"
	"clanwatch/internal/reminder"
	"clanwatch/internal/services"
	"clanwatch/internal/storage"
	"clanwatch/internal/structures"
	"clanwatch/internal/upstream"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewZstdCompressor,
		providers.NewInstrumentedCacheProvider,
		providers.NewNotifierProvider,

		storage.NewStoreProvider,
		upstream.NewClient,
		services.NewAggregationService,
		reminder.NewReminder,
		wire.Bind(new(reminder.Ticker), new(*reminder.Reminder)),
		reminder.NewScheduler,
		controllers.NewApiController,
		controllers.NewBindingController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
