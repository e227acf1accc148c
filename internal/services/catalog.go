package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/data/repos"
	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/domain/catalog"
	"github.com/yungbote/pathways-backend/internal/platform/apierr"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

var stageCodePattern = regexp.MustCompile(`^[Ss]([1-9][0-9]*)$`)

type CatalogService interface {
	ListStages(ctx context.Context) ([]*types.Stage, error)
	// GetStage accepts a stage code ("S1") or the stage uuid.
	GetStage(ctx context.Context, id string) (*types.Stage, error)
	ListMilestones(ctx context.Context, stageID string) ([]*types.Milestone, error)
	GetMilestone(ctx context.Context, id string) (*types.Milestone, error)
	ListResources(ctx context.Context, category, search string) ([]*types.Resource, error)
	GetResource(ctx context.Context, id string) (*types.Resource, error)
}

type catalogService struct {
	log        *logger.Logger
	stages     repos.StageRepo
	milestones repos.MilestoneRepo
	resources  repos.ResourceRepo
}

func NewCatalogService(log *logger.Logger, stages repos.StageRepo, milestones repos.MilestoneRepo, resources repos.ResourceRepo) CatalogService {
	return &catalogService{
		log:        logger.OrNop(log).With("service", "CatalogService"),
		stages:     stages,
		milestones: milestones,
		resources:  resources,
	}
}

func (s *catalogService) ListStages(ctx context.Context) ([]*types.Stage, error) {
	out, err := s.stages.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, aggregates.MapError("Catalog.ListStages", err)
	}
	return out, nil
}

func (s *catalogService) GetStage(ctx context.Context, id string) (*types.Stage, error) {
	id = strings.TrimSpace(id)
	dbc := dbctx.Context{Ctx: ctx}
	var (
		stage *types.Stage
		err   error
	)
	if m := stageCodePattern.FindStringSubmatch(id); m != nil {
		if _, convErr := strconv.Atoi(m[1]); convErr != nil {
			return nil, apierr.Invalid("invalid_stage_id", "invalid stage id %q", id)
		}
		stage, err = s.stages.GetByCode(dbc, id)
	} else if parsed, parseErr := uuid.Parse(id); parseErr == nil {
		stage, err = s.stages.GetByID(dbc, parsed)
	} else {
		return nil, apierr.Invalid("invalid_stage_id", "invalid stage id %q", id)
	}
	if err != nil {
		return nil, aggregates.MapError("Catalog.GetStage", err)
	}
	if stage == nil {
		return nil, apierr.NotFound("stage_not_found", "stage not found")
	}
	return stage, nil
}

func (s *catalogService) ListMilestones(ctx context.Context, stageID string) ([]*types.Milestone, error) {
	stageID = strings.TrimSpace(stageID)
	if stageID != "" {
		if !stageCodePattern.MatchString(stageID) {
			return nil, apierr.Invalid("invalid_stage_id", "invalid stage id %q", stageID)
		}
		stageID = strings.ToUpper(stageID)
	}
	out, err := s.milestones.List(dbctx.Context{Ctx: ctx}, stageID)
	if err != nil {
		return nil, aggregates.MapError("Catalog.ListMilestones", err)
	}
	return out, nil
}

func (s *catalogService) GetMilestone(ctx context.Context, id string) (*types.Milestone, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return nil, apierr.Invalid("invalid_milestone_id", "invalid milestone id format")
	}
	m, err := s.milestones.GetByID(dbctx.Context{Ctx: ctx}, strings.ToLower(id))
	if err != nil {
		return nil, aggregates.MapError("Catalog.GetMilestone", err)
	}
	if m == nil {
		return nil, apierr.NotFound("milestone_not_found", "milestone not found")
	}
	return m, nil
}

func (s *catalogService) ListResources(ctx context.Context, category, search string) ([]*types.Resource, error) {
	filter := repos.ResourceFilter{Search: strings.TrimSpace(search)}
	if raw := strings.TrimSpace(category); raw != "" {
		c, ok := catalog.ParseResourceCategory(raw)
		if !ok {
			return nil, apierr.Invalid("invalid_category", "unknown resource category %q", raw)
		}
		filter.Category = c
	}
	out, err := s.resources.List(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, aggregates.MapError("Catalog.ListResources", err)
	}
	return out, nil
}

func (s *catalogService) GetResource(ctx context.Context, id string) (*types.Resource, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierr.Invalid("invalid_resource_id", "resource id is required")
	}
	r, err := s.resources.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError("Catalog.GetResource", err)
	}
	if r == nil {
		return nil, apierr.NotFound("resource_not_found", "resource with id %q not found", id)
	}
	return r, nil
}
