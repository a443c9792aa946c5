package components

import (
	"gearpool/internal/handler"
	"gearpool/internal/handler/api"
	"gearpool/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewItemHandler,
		api.NewCheckoutHandler,
		api.NewBookingHandler,
		api.NewAssignmentHandler,
		api.NewReconHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	item *api.ItemHandler,
	checkout *api.CheckoutHandler,
	booking *api.BookingHandler,
	assignment *api.AssignmentHandler,
	recon *api.ReconHandler,
) handler.Handlers {
	return handler.Handlers{
		Item:       item,
		Checkout:   checkout,
		Booking:    booking,
		Assignment: assignment,
		Recon:      recon,
	}
}
