package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gearpool/internal/domain/user"
	"gearpool/internal/handler/api"
	"gearpool/internal/handler/middleware"
	"gearpool/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Item       *api.ItemHandler
	Checkout   *api.CheckoutHandler
	Booking    *api.BookingHandler
	Assignment *api.AssignmentHandler
	Recon      *api.ReconHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	operator := authMiddleware.RequireRoleAtLeast(user.RoleOperator)
	admin := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		items := apiGroup.Group("/items")
		{
			addRoutes(items, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Item.ListItems},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Item.GetItem},
				{Method: http.MethodPost, Path: "", Handler: h.Item.CreateItem, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodPost, Path: "/:id/approve-checkout", Handler: h.Item.ApproveCheckout, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/register-return", Handler: h.Item.RegisterReturn, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/adjust-total", Handler: h.Item.AdjustTotal, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodPost, Path: "/:id/under-repair", Handler: h.Item.MarkUnderRepair, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/retire", Handler: h.Item.Retire, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodPost, Path: "/:id/reinstate", Handler: h.Item.Reinstate, Mw: []gin.HandlerFunc{admin}},
			})
		}

		checkouts := apiGroup.Group("/checkouts")
		{
			addRoutes(checkouts, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Checkout.Submit},
				{Method: http.MethodGet, Path: "", Handler: h.Checkout.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Checkout.Get},
				{Method: http.MethodPost, Path: "/:id/approve", Handler: h.Checkout.Approve, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: h.Checkout.Reject, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/checked-out", Handler: h.Checkout.MarkCheckedOut, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/return", Handler: h.Checkout.Return, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/check-in", Handler: h.Checkout.ConfirmCheckIn, Mw: []gin.HandlerFunc{operator}},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPost, Path: "/:id/approve", Handler: h.Booking.Approve, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: h.Booking.Reject, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Booking.Complete, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPut, Path: "/:id/assignment", Handler: h.Assignment.Assign, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodDelete, Path: "/:id/assignment", Handler: h.Assignment.Unassign, Mw: []gin.HandlerFunc{operator}},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/vehicles", Handler: h.Booking.ListVehicles},
			{Method: http.MethodGet, Path: "/admin/consistency", Handler: h.Recon.Validate, Mw: []gin.HandlerFunc{admin}},
			{Method: http.MethodPost, Path: "/admin/consistency/repair", Handler: h.Recon.Reconcile, Mw: []gin.HandlerFunc{admin}},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
