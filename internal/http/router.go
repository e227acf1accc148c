package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pathways-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pathways-backend/internal/http/middleware"
	"github.com/yungbote/pathways-backend/internal/observability"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

const streamRoute = "/api/v1/progress/stream"

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	// TracingService enables otelgin spans under this service name.
	TracingService string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	OnboardingHandler *httpH.OnboardingHandler
	CatalogHandler    *httpH.CatalogHandler
	ProgressHandler   *httpH.ProgressHandler
	RealtimeHandler   *httpH.RealtimeHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, streamRoute))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", func(c *gin.Context) { cfg.Metrics.WriteHTTP(c.Writer, c.Request) })
	}

	api := r.Group("/api/v1")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/signup", cfg.AuthHandler.Signup)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}

		// Catalog (public)
		if cfg.CatalogHandler != nil {
			api.GET("/stages", cfg.CatalogHandler.ListStages)
			api.GET("/stages/:id", cfg.CatalogHandler.GetStage)
			api.GET("/milestones", cfg.CatalogHandler.ListMilestones)
			api.GET("/milestones/:id", cfg.CatalogHandler.GetMilestone)
			api.GET("/resources", cfg.CatalogHandler.ListResources)
			api.GET("/resources/:id", cfg.CatalogHandler.GetResource)
		}

		// Recommendation preview needs no account
		if cfg.OnboardingHandler != nil {
			api.POST("/onboarding/recommend", cfg.OnboardingHandler.Recommend)
		}
	}

	protected := api.Group("")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.GET("/auth/me", cfg.AuthHandler.Me)
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/users/me", cfg.UserHandler.GetMe)
			protected.PATCH("/users/me", cfg.UserHandler.UpdateMe)
			protected.PATCH("/users/me/password", cfg.UserHandler.ChangePassword)
		}

		if cfg.OnboardingHandler != nil {
			protected.POST("/onboarding", cfg.OnboardingHandler.Submit)
			protected.GET("/onboarding", cfg.OnboardingHandler.GetLatest)
		}

		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.GetProgress)
			protected.DELETE("/progress", cfg.ProgressHandler.Reset)
			protected.POST("/progress/milestones/:milestone_id/toggle", cfg.ProgressHandler.Toggle)
			protected.GET("/progress/history", cfg.ProgressHandler.ListHistory)
			protected.GET("/progress/history/milestone/:milestone_id", cfg.ProgressHandler.ListMilestoneHistory)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/progress/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
