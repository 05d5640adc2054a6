package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/telran/accounting/docs"
	"github.com/telran/accounting/internal/api/handler"
	"github.com/telran/accounting/internal/api/middleware"
	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

// Dependencies carries everything the HTTP layer needs. Mongo and Redis are
// only used by the readiness probe and may be nil.
type Dependencies struct {
	Accounts  ports.AccountService
	Auth      ports.AuthService
	JWTSecret string
	Mongo     *mongo.Client
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// HTTP metrics get their own registry so several routers can coexist in
	// tests; /metrics serves it together with the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounting",
		Registerer: reg,
	}))

	accountHandler := handler.NewAccountHandler(deps.Accounts, deps.Logger)
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Logger)
	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Accounts)
	ownerOrAdmin := middleware.OwnerOrRBAC("login", domain.RoleAdministrator)
	ownerOnly := middleware.OwnerOrRBAC("login")
	adminOnly := middleware.RBAC(domain.RoleAdministrator)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/accounts", accountHandler.Register)

	// --- Authenticated routes ---
	accounts := e.Group("/accounts", authMiddleware)
	accounts.GET("/me", accountHandler.Me)
	accounts.GET("/:login", accountHandler.Get)
	accounts.PUT("/:login", accountHandler.Edit, ownerOrAdmin)
	accounts.DELETE("/:login", accountHandler.Remove, ownerOrAdmin)
	accounts.PUT("/:login/password", accountHandler.ChangePassword, ownerOnly)
	accounts.PUT("/:login/roles/:role", accountHandler.AddRole, adminOnly)
	accounts.DELETE("/:login/roles/:role", accountHandler.RemoveRole, adminOnly)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
