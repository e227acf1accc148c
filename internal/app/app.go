package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/db"
	"github.com/yungbote/pathways-backend/internal/data/seed"
	"github.com/yungbote/pathways-backend/internal/http"
	"github.com/yungbote/pathways-backend/internal/observability"
	"github.com/yungbote/pathways-backend/internal/platform/envutil"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime"
)

const collectorInterval = 15 * time.Second

// envLogMode is read before config so config loading itself can log.
func envLogMode() string {
	return envutil.String("LOG_MODE", "development")
}

// App owns every long-lived handle. Nothing here is global; handlers reach
// storage only through the services wired in New.
type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics
	Server   *http.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (a *App, err error) {
	bootLog, err := logger.New(envLogMode())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	bootLog.Info("Loading environment variables...")
	cfg, err := LoadConfig(bootLog)
	if err != nil {
		bootLog.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := bootLog.With("service_name", serviceName, "env", cfg.Env)

	a = &App{Log: log, Cfg: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)
	a.Metrics = observability.Init(cfg.MetricsEnabled)

	a.dbService, err = db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.DB = a.dbService.DB()
	if err := db.AutoMigrateAll(a.DB); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	a.Repos = wireRepos(a.DB, log)
	if cfg.SeedOnStart {
		catalog, err := seed.LoadFile(cfg.SeedCatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load seed catalog: %w", err)
		}
		if err := seed.Apply(ctx, a.DB, a.Repos.Seed(), catalog, log); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}

	a.Clients, err = wireClients(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	a.SSEHub = realtime.NewSSEHub(log, realtime.WithMetrics(a.Metrics))
	a.Services = wireServices(a.DB, log, cfg, a.Repos, a.Clients, a.SSEHub, a.Metrics)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlerset := wireHandlers(a.DB, log, a.Services, a.SSEHub)
	middleware := wireMiddleware(log, a.Services)
	router := wireRouter(log, cfg, handlerset, middleware, a.Metrics)
	a.Server = http.NewServer(router, log)
	return a, nil
}

// Run serves until ctx is cancelled. Background loops share ctx and stop with it.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if a.Clients.SSEBus != nil {
		if err := a.Clients.SSEBus.StartForwarder(gctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start sse forwarder: %w", err)
		}
	}
	if a.Metrics != nil {
		a.Metrics.StartServer(gctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartDBCollector(gctx, a.Log, a.DB, collectorInterval)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(gctx, a.Log, a.Clients.Redis, collectorInterval)
		}
	}

	g.Go(func() error {
		return a.Server.Run(gctx, a.Cfg.Addr())
	})
	return g.Wait()
}

// Close releases resources in reverse order of construction. Safe on a
// partially built App.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Notifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := a.Services.Notifier.Close(ctx); err != nil {
			a.Log.Warn("journey queue did not drain", "error", err)
		}
		cancel()
	}
	a.Clients.Close(a.Log)
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
