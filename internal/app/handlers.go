package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/http"
	httpH "github.com/yungbote/pathways-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pathways-backend/internal/http/middleware"
	"github.com/yungbote/pathways-backend/internal/observability"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Onboarding *httpH.OnboardingHandler
	Catalog    *httpH.CatalogHandler
	Progress   *httpH.ProgressHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db, log),
		Auth:       httpH.NewAuthHandler(services.Auth, services.User),
		User:       httpH.NewUserHandler(services.User),
		Onboarding: httpH.NewOnboardingHandler(services.Onboarding),
		Catalog:    httpH.NewCatalogHandler(services.Catalog),
		Progress:   httpH.NewProgressHandler(services.Progress),
		Realtime:   httpH.NewRealtimeHandler(log, sseHub),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	tracing := ""
	if cfg.Otel.Enabled {
		tracing = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		CORSOrigins:       cfg.CORSOrigins,
		TracingService:    tracing,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		OnboardingHandler: handlers.Onboarding,
		CatalogHandler:    handlers.Catalog,
		ProgressHandler:   handlers.Progress,
		RealtimeHandler:   handlers.Realtime,
	})
}
