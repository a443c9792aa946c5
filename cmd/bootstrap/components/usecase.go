package components

import (
	"gearpool/internal/pkg/clock"
	"gearpool/internal/usecase"
	"gearpool/internal/usecase/commands"
	"gearpool/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		clock.NewRealClock,
		commands.NewLedgerCommands,
		commands.NewCheckoutCommands,
		commands.NewBookingCommands,
		commands.NewAllocatorCommands,
		commands.NewReconcilerCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewItemQueries,
		queries.NewBookingQueries,
		queries.NewCheckoutQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
