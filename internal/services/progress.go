package services

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/data/repos"
	types "github.com/yungbote/pathways-backend/internal/domain"
	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/modules/progress"
	"github.com/yungbote/pathways-backend/internal/observability"
	"github.com/yungbote/pathways-backend/internal/platform/apierr"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

// ProgressView is the user's live progress against the current catalog.
type ProgressView struct {
	CompletedMilestoneIDs []string               `json:"completed_milestone_ids"`
	StageProgress         types.StageProgressMap `json:"stage_progress"`
	TotalCompleted        int                    `json:"total_completed"`
	TotalMilestones       int                    `json:"total_milestones"`
}

type ProgressService interface {
	Toggle(ctx context.Context, milestoneID string) (domainagg.ToggleMilestoneResult, error)
	GetProgress(ctx context.Context) (*ProgressView, error)
	Reset(ctx context.Context) error
	// ListHistory follows the Recorder convention: 0 is the default page and
	// a negative limit returns everything.
	ListHistory(ctx context.Context, limit int) ([]*types.JourneySnapshot, error)
	ListMilestoneHistory(ctx context.Context, milestoneID string) ([]*types.JourneySnapshot, error)
}

type progressService struct {
	log        *logger.Logger
	aggregate  domainagg.ProgressAggregate
	users      repos.UserRepo
	milestones repos.MilestoneRepo
	recorder   *progress.Recorder
	notifier   ProgressNotifier
	metrics    *observability.Metrics
}

type ProgressServiceDeps struct {
	Log        *logger.Logger
	Aggregate  domainagg.ProgressAggregate
	Users      repos.UserRepo
	Milestones repos.MilestoneRepo
	Recorder   *progress.Recorder
	Notifier   ProgressNotifier
	Metrics    *observability.Metrics
}

func NewProgressService(deps ProgressServiceDeps) ProgressService {
	return &progressService{
		log:        logger.OrNop(deps.Log).With("service", "ProgressService"),
		aggregate:  deps.Aggregate,
		users:      deps.Users,
		milestones: deps.Milestones,
		recorder:   deps.Recorder,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
	}
}

func (s *progressService) Toggle(ctx context.Context, milestoneID string) (domainagg.ToggleMilestoneResult, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return domainagg.ToggleMilestoneResult{}, err
	}
	res, err := s.aggregate.Toggle(ctx, domainagg.ToggleMilestoneInput{UserID: userID, MilestoneID: milestoneID})
	if err != nil {
		return domainagg.ToggleMilestoneResult{}, err
	}
	s.metrics.IncToggle(string(res.Action))
	s.log.Debug("milestone toggled", "user_id", userID, "milestone_id", res.MilestoneID, "action", res.Action)
	if s.notifier != nil {
		s.notifier.ProgressUpdated(ctx, userID, res)
	}
	return res, nil
}

func (s *progressService) GetProgress(ctx context.Context) (*ProgressView, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	var (
		user *types.User
		refs []types.MilestoneRef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetByID(dbctx.Context{Ctx: gctx}, userID)
		user = u
		return err
	})
	g.Go(func() error {
		r, err := s.milestones.ListRefs(dbctx.Context{Ctx: gctx})
		refs = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggregates.MapError("Progress.GetProgress", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", "user not found")
	}
	completed := []string(user.CompletedMilestones)
	if completed == nil {
		completed = []string{}
	}
	return &ProgressView{
		CompletedMilestoneIDs: completed,
		StageProgress:         progress.Aggregate(refs, completed),
		TotalCompleted:        len(completed),
		TotalMilestones:       len(refs),
	}, nil
}

func (s *progressService) Reset(ctx context.Context) error {
	userID, err := requireUserID(ctx)
	if err != nil {
		return err
	}
	if err := s.aggregate.Reset(ctx, userID); err != nil {
		return err
	}
	s.log.Info("progress reset", "user_id", userID)
	if s.notifier != nil {
		s.notifier.ProgressReset(ctx, userID)
	}
	return nil
}

func (s *progressService) ListHistory(ctx context.Context, limit int) ([]*types.JourneySnapshot, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.recorder.ListForUser(dbctx.Context{Ctx: ctx}, userID, limit)
	if err != nil {
		return nil, aggregates.MapError("Progress.ListHistory", err)
	}
	return out, nil
}

func (s *progressService) ListMilestoneHistory(ctx context.Context, milestoneID string) ([]*types.JourneySnapshot, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(milestoneID) == "" {
		return nil, apierr.Invalid("invalid_milestone_id", "milestone id is required")
	}
	out, err := s.recorder.ListForMilestone(dbctx.Context{Ctx: ctx}, userID, milestoneID)
	if err != nil {
		return nil, aggregates.MapError("Progress.ListMilestoneHistory", err)
	}
	return out, nil
}

// ParseHistoryLimit reads the ?limit= query value. Empty means the default
// page, "all" or "0" means unlimited.
func ParseHistoryLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return 0, nil
	case strings.EqualFold(raw, "all"), raw == "0":
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apierr.Invalid("invalid_limit", "limit must be a non-negative integer or \"all\"")
	}
	return n, nil
}
