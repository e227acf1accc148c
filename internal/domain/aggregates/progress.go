package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pathways-backend/internal/domain/journey"
)

var ProgressAggregateContract = Contract{
	Name:             "Progress.ProgressAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes: "Owns the completed-milestone set and its journey snapshot. A toggle writes the " +
		"snapshot and the user row in one transaction, serialized per user.",
}

// ProgressAggregate owns completed-set writes.
//
// Failures are *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeUnavailable, CodeInternal.
type ProgressAggregate interface {
	Aggregate

	// Toggle flips one milestone in the user's completed set and appends the
	// matching journey snapshot.
	Toggle(ctx context.Context, in ToggleMilestoneInput) (ToggleMilestoneResult, error)

	// Reset empties the completed set. History is left untouched.
	Reset(ctx context.Context, userID uuid.UUID) error
}

type ToggleMilestoneInput struct {
	UserID      uuid.UUID
	MilestoneID string
}

type ToggleMilestoneResult struct {
	MilestoneID         string
	IsComplete          bool
	Action              journey.Action
	CompletedMilestones []string
	StageProgress       journey.StageProgressMap
	Snapshot            *journey.Snapshot
	AppliedAt           time.Time
}

var OnboardingAggregateContract = Contract{
	Name:             "Onboarding.OnboardingAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Stores a questionnaire response and the user's recommended stage together.",
}

type OnboardingAggregate interface {
	Aggregate

	Submit(ctx context.Context, in SubmitOnboardingInput) (SubmitOnboardingResult, error)
}

type SubmitOnboardingInput struct {
	UserID             uuid.UUID
	ChildAgeRange      string
	DiagnosisStatus    string
	PrimaryConcern     string
	RecommendedStageID string
}

type SubmitOnboardingResult struct {
	ResponseID         uuid.UUID
	RecommendedStageID string
	CreatedAt          time.Time
}
