package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/data/repos"
	"github.com/yungbote/pathways-backend/internal/data/repos/testutil"
	"github.com/yungbote/pathways-backend/internal/data/seed"
	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/modules/progress"
	"github.com/yungbote/pathways-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime"
	"github.com/yungbote/pathways-backend/internal/services"
)

type captureEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (c *captureEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *captureEmitter) events() []realtime.SSEEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(c.msgs))
	for _, m := range c.msgs {
		out = append(out, m.Event)
	}
	return out
}

type captureSink struct {
	mu    sync.Mutex
	snaps []*types.JourneySnapshot
	err   error
	// block, when set, holds every Publish until it is closed.
	block chan struct{}
}

func (c *captureSink) published() []*types.JourneySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.JourneySnapshot(nil), c.snaps...)
}

func (c *captureSink) Publish(_ context.Context, s *types.JourneySnapshot) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.snaps = append(c.snaps, s)
	return nil
}

type harness struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	catalog  *seed.Catalog
	emitter  *captureEmitter
	sink     *captureSink
	notifier services.ProgressNotifier

	auth       services.AuthService
	user       services.UserService
	onboarding services.OnboardingService
	catalogSvc services.CatalogService
	progress   services.ProgressService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(db, log)
	responses := repos.NewOnboardingResponseRepo(db, log)
	stages := repos.NewStageRepo(db, log)
	milestones := repos.NewMilestoneRepo(db, log)
	resources := repos.NewResourceRepo(db, log)
	snapshots := repos.NewJourneySnapshotRepo(db, log)

	cat, err := seed.Default()
	require.NoError(t, err)
	require.NoError(t, seed.Apply(context.Background(), db, seed.Repos{Stages: stages, Milestones: milestones, Resources: resources}, cat, log))

	emitter := &captureEmitter{}
	sink := &captureSink{}
	notifier := services.NewProgressNotifier(log, emitter, sink, nil)
	recorder := progress.NewRecorder(snapshots, progress.NewClock(time.Now))
	base := aggregates.BaseDeps{DB: db, Log: log}

	h := &harness{
		db:       db,
		log:      log,
		users:    userRepo,
		catalog:  cat,
		emitter:  emitter,
		sink:     sink,
		notifier: notifier,
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = notifier.Close(ctx)
	})
	h.auth = services.NewAuthService(db, log, userRepo, services.AuthConfig{
		JWTSecretKey: "test-secret",
		AccessTTL:    time.Hour,
		BcryptCost:   bcrypt.MinCost,
	})
	h.user = services.NewUserService(db, log, userRepo, bcrypt.MinCost)
	h.onboarding = services.NewOnboardingService(
		log,
		aggregates.NewOnboardingAggregate(aggregates.OnboardingAggregateDeps{Base: base, Users: userRepo, Responses: responses}),
		responses,
		notifier,
		nil,
	)
	h.catalogSvc = services.NewCatalogService(log, stages, milestones, resources)
	h.progress = services.NewProgressService(services.ProgressServiceDeps{
		Log: log,
		Aggregate: aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
			Base:       base,
			Users:      userRepo,
			Milestones: milestones,
			Recorder:   recorder,
		}),
		Users:      userRepo,
		Milestones: milestones,
		Recorder:   recorder,
		Notifier:   notifier,
	})
	return h
}

// signup registers a user and returns a context carrying their identity.
func (h *harness) signup(t *testing.T, email string) (context.Context, *types.User) {
	t.Helper()
	res, err := h.auth.Signup(context.Background(), services.SignupInput{Email: email, Password: "password123", Name: "Parent"})
	require.NoError(t, err)
	ctx, err := h.auth.SetContextFromToken(context.Background(), res.Token)
	require.NoError(t, err)
	return ctx, res.User
}

func (h *harness) milestonesOf(stage string) []*types.Milestone {
	var out []*types.Milestone
	for _, m := range h.catalog.Milestones {
		if m.StageID == stage {
			out = append(out, m)
		}
	}
	return out
}

func anonymous() context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: uuid.Nil})
}
