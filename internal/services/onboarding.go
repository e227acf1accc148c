package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/data/repos"
	types "github.com/yungbote/pathways-backend/internal/domain"
	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/modules/onboarding"
	"github.com/yungbote/pathways-backend/internal/observability"
	"github.com/yungbote/pathways-backend/internal/platform/apierr"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type OnboardingAnswers struct {
	ChildAgeRange   string
	DiagnosisStatus string
	PrimaryConcern  string
}

type OnboardingService interface {
	Submit(ctx context.Context, in OnboardingAnswers) (*types.OnboardingResponse, error)
	GetLatest(ctx context.Context) (*types.OnboardingResponse, error)
	Preview(in OnboardingAnswers) (onboarding.Recommendation, error)
}

type onboardingService struct {
	log       *logger.Logger
	aggregate domainagg.OnboardingAggregate
	responses repos.OnboardingResponseRepo
	notifier  ProgressNotifier
	metrics   *observability.Metrics
}

func NewOnboardingService(
	log *logger.Logger,
	aggregate domainagg.OnboardingAggregate,
	responses repos.OnboardingResponseRepo,
	notifier ProgressNotifier,
	metrics *observability.Metrics,
) OnboardingService {
	return &onboardingService{
		log:       logger.OrNop(log).With("service", "OnboardingService"),
		aggregate: aggregate,
		responses: responses,
		notifier:  notifier,
		metrics:   metrics,
	}
}

func parseOnboardingAnswers(in OnboardingAnswers) (onboarding.Answers, error) {
	a, err := onboarding.ParseAnswers(in.ChildAgeRange, in.DiagnosisStatus, in.PrimaryConcern)
	if err != nil {
		var ive *onboarding.InvalidValueError
		if errors.As(err, &ive) {
			return a, apierr.New(http.StatusBadRequest, "invalid_"+ive.Field, err)
		}
		return a, apierr.New(http.StatusBadRequest, "invalid_request", err)
	}
	return a, nil
}

func (s *onboardingService) Preview(in OnboardingAnswers) (onboarding.Recommendation, error) {
	a, err := parseOnboardingAnswers(in)
	if err != nil {
		return onboarding.Recommendation{}, err
	}
	return onboarding.Explain(a.AgeRange, a.Diagnosis, a.Concern), nil
}

func (s *onboardingService) Submit(ctx context.Context, in OnboardingAnswers) (*types.OnboardingResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	a, err := parseOnboardingAnswers(in)
	if err != nil {
		return nil, err
	}
	stage := onboarding.RecommendAnswers(a)

	res, err := s.aggregate.Submit(ctx, domainagg.SubmitOnboardingInput{
		UserID:             userID,
		ChildAgeRange:      string(a.AgeRange),
		DiagnosisStatus:    string(a.Diagnosis),
		PrimaryConcern:     string(a.Concern),
		RecommendedStageID: string(stage),
	})
	if err != nil {
		return nil, err
	}
	out := &types.OnboardingResponse{
		ID:                 res.ResponseID,
		UserID:             userID,
		ChildAgeRange:      string(a.AgeRange),
		DiagnosisStatus:    string(a.Diagnosis),
		PrimaryConcern:     string(a.Concern),
		RecommendedStageID: res.RecommendedStageID,
		CreatedAt:          res.CreatedAt,
		UpdatedAt:          res.CreatedAt,
	}
	s.metrics.IncOnboardingRecommendation(out.RecommendedStageID)
	s.log.Info("onboarding submitted", "user_id", userID, "recommended_stage_id", out.RecommendedStageID)
	if s.notifier != nil {
		s.notifier.OnboardingCompleted(ctx, userID, out)
	}
	return out, nil
}

func (s *onboardingService) GetLatest(ctx context.Context) (*types.OnboardingResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.responses.GetLatestByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError("Onboarding.GetLatest", err)
	}
	if resp == nil {
		return nil, apierr.NotFound("onboarding_not_found", "no onboarding response found for this user")
	}
	return resp, nil
}
