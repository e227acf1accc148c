package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/pathways-backend/internal/data/repos"
	types "github.com/yungbote/pathways-backend/internal/domain"
	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

type OnboardingAggregateDeps struct {
	Base BaseDeps

	Users     repos.UserRepo
	Responses repos.OnboardingResponseRepo
}

type onboardingAggregate struct {
	deps OnboardingAggregateDeps
}

func NewOnboardingAggregate(deps OnboardingAggregateDeps) domainagg.OnboardingAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "OnboardingAggregate")
	return &onboardingAggregate{deps: deps}
}

func (a *onboardingAggregate) Contract() domainagg.Contract {
	return domainagg.OnboardingAggregateContract
}

func (a *onboardingAggregate) Submit(ctx context.Context, in domainagg.SubmitOnboardingInput) (domainagg.SubmitOnboardingResult, error) {
	const op = "Onboarding.Submit"
	var out domainagg.SubmitOnboardingResult
	if in.UserID == uuid.Nil {
		return out, MapError(op, ValidationError("user id is required"))
	}
	for field, v := range map[string]string{
		"child_age_range":      in.ChildAgeRange,
		"diagnosis_status":     in.DiagnosisStatus,
		"primary_concern":      in.PrimaryConcern,
		"recommended_stage_id": in.RecommendedStageID,
	} {
		if strings.TrimSpace(v) == "" {
			return out, MapError(op, ValidationError(field+" is required"))
		}
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		user, err := a.deps.Users.GetByIDForUpdate(dbc, in.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return NotFoundError("user not found")
		}
		resp := &types.OnboardingResponse{
			UserID:             in.UserID,
			ChildAgeRange:      in.ChildAgeRange,
			DiagnosisStatus:    in.DiagnosisStatus,
			PrimaryConcern:     in.PrimaryConcern,
			RecommendedStageID: in.RecommendedStageID,
		}
		if err := a.deps.Responses.Create(dbc, resp); err != nil {
			return err
		}
		if err := a.deps.Users.UpdateFields(dbc, in.UserID, map[string]interface{}{
			"recommended_stage_id": in.RecommendedStageID,
		}); err != nil {
			return err
		}
		out = domainagg.SubmitOnboardingResult{
			ResponseID:         resp.ID,
			RecommendedStageID: in.RecommendedStageID,
			CreatedAt:          resp.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return domainagg.SubmitOnboardingResult{}, err
	}
	return out, nil
}
