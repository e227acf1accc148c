package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/modules/progress"
	"github.com/yungbote/pathways-backend/internal/observability"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime"
	"github.com/yungbote/pathways-backend/internal/services"
)

type Aggregates struct {
	Progress   domainagg.ProgressAggregate
	Onboarding domainagg.OnboardingAggregate
}

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Onboarding services.OnboardingService
	Catalog    services.CatalogService
	Progress   services.ProgressService
	Notifier   services.ProgressNotifier
}

func wireAggregates(db *gorm.DB, log *logger.Logger, reposet Repos, clients Clients, recorder *progress.Recorder, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{
		DB:     db,
		Log:    log,
		Hooks:  aggregates.NewObservabilityHooks(metrics),
		Locker: clients.Locker,
	}
	return Aggregates{
		Progress: aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
			Base:       base,
			Users:      reposet.User,
			Milestones: reposet.Milestone,
			Recorder:   recorder,
		}),
		Onboarding: aggregates.NewOnboardingAggregate(aggregates.OnboardingAggregateDeps{
			Base:      base,
			Users:     reposet.User,
			Responses: reposet.OnboardingResponse,
		}),
	}
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, hub *realtime.SSEHub, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var emit services.SSEEmitter = &services.HubEmitter{Hub: hub}
	if clients.SSEBus != nil {
		emit = &services.BusEmitter{Bus: clients.SSEBus, Log: log}
	}
	var sink services.JourneySink
	if clients.Journey != nil {
		sink = clients.Journey
	}
	notifier := services.NewProgressNotifier(log, emit, sink, metrics)

	recorder := progress.NewRecorder(reposet.JourneySnapshot, progress.NewClock(time.Now))
	aggs := wireAggregates(db, log, reposet, clients, recorder, metrics)

	return Services{
		Auth: services.NewAuthService(db, log, reposet.User, services.AuthConfig{
			JWTSecretKey: cfg.JWTSecretKey,
			AccessTTL:    cfg.AccessTokenTTL,
			BcryptCost:   cfg.BcryptCost,
		}),
		User:       services.NewUserService(db, log, reposet.User, cfg.BcryptCost),
		Onboarding: services.NewOnboardingService(log, aggs.Onboarding, reposet.OnboardingResponse, notifier, metrics),
		Catalog:    services.NewCatalogService(log, reposet.Stage, reposet.Milestone, reposet.Resource),
		Progress: services.NewProgressService(services.ProgressServiceDeps{
			Log:        log,
			Aggregate:  aggs.Progress,
			Users:      reposet.User,
			Milestones: reposet.Milestone,
			Recorder:   recorder,
			Notifier:   notifier,
			Metrics:    metrics,
		}),
		Notifier: notifier,
	}
}
