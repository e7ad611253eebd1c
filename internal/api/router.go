// Package api is the reference finance service: the REST backend the gateway
// talks to, served by echo over an in-memory ledger.
package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/dompet/finance-gateway/docs"
	"github.com/dompet/finance-gateway/internal/api/handler"
	"github.com/dompet/finance-gateway/internal/api/ledger"
	"github.com/dompet/finance-gateway/internal/api/middleware"
)

// Deps are the collaborators of the router.
type Deps struct {
	Ledger *ledger.Ledger
	Tokens *ledger.TokenIssuer
	Log    zerolog.Logger
	// RecentLimit bounds the dashboard's recent transactions.
	RecentLimit int
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Metrics())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Ledger, d.Tokens)
	profileHandler := handler.NewProfileHandler(d.Ledger)
	txHandler := handler.NewTransactionHandler(d.Ledger, d.RecentLimit)
	categoryHandler := handler.NewCategoryHandler(d.Ledger)
	healthHandler := handler.NewHealthHandler()

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.Auth(d.Tokens))
	authed.POST("/auth/change-password", authHandler.ChangePassword)

	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile", profileHandler.Update)

	authed.GET("/transactions", txHandler.List)
	authed.GET("/transactions/dashboard", txHandler.Dashboard)
	authed.POST("/transactions", txHandler.Create)
	authed.PUT("/transactions/:id", txHandler.Update)
	authed.DELETE("/transactions/:id", txHandler.Delete)

	authed.GET("/categories", categoryHandler.List)
	authed.POST("/categories", categoryHandler.Create)
	authed.DELETE("/categories/:id", categoryHandler.Delete)

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
