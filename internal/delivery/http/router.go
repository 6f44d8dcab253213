package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lendguard/internal/delivery/ws"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	DashboardHandler    *DashboardHandler
	LoanHandler         *LoanHandler
	TopUpHandler        *TopUpHandler
	NotificationHandler *NotificationHandler
	SettingsHandler     *SettingsHandler
	MarketHandler       *MarketHandler
	Hub                 *ws.Hub
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for high-frequency polling endpoints to reduce noise
			path := c.Request().URL.Path
			return path == "/health" || path == "/ws"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   "lendguard-api",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Realtime push channel
	e.GET("/ws", func(c echo.Context) error {
		return ws.ServeWS(config.Hub, c.Response(), c.Request())
	})

	// API group
	api := e.Group("/api")

	api.GET("/dashboard", config.DashboardHandler.GetDashboard)

	loans := api.Group("/loans")
	{
		loans.POST("/new", config.LoanHandler.CreateLoan)
		loans.PATCH("/:id/repay", config.LoanHandler.RepayLoan)
		loans.DELETE("/:id", config.LoanHandler.DeleteLoan)
	}

	api.POST("/topup", config.TopUpHandler.PerformTopUp)
	api.GET("/transactions", config.TopUpHandler.GetTransactions)

	api.PATCH("/settings", config.SettingsHandler.UpdateSettings)

	notifications := api.Group("/notifications")
	{
		notifications.GET("", config.NotificationHandler.List)
		notifications.PATCH("/:id/read", config.NotificationHandler.MarkRead)
		notifications.POST("/trigger", config.NotificationHandler.Trigger)
	}

	market := api.Group("/market")
	{
		market.GET("/klines", config.MarketHandler.GetKlines)
		market.GET("/ticker-24h", config.MarketHandler.GetTicker24h)
	}
}
