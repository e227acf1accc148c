package domain

import (
	"github.com/yungbote/pathways-backend/internal/domain/catalog"
	"github.com/yungbote/pathways-backend/internal/domain/journey"
	"github.com/yungbote/pathways-backend/internal/domain/user"
)

const (
	ActionCompleted   = journey.ActionCompleted
	ActionUncompleted = journey.ActionUncompleted

	UnknownStageID        = catalog.UnknownStageID
	UnknownMilestoneTitle = catalog.UnknownMilestoneTitle
)

type User = user.User
type OnboardingResponse = user.OnboardingResponse

type Stage = catalog.Stage
type Milestone = catalog.Milestone
type MilestoneRef = catalog.MilestoneRef
type Resource = catalog.Resource
type ResourceCategory = catalog.ResourceCategory

type JourneySnapshot = journey.Snapshot
type JourneyAction = journey.Action
type StageProgress = journey.StageProgress
type StageProgressMap = journey.StageProgressMap

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&OnboardingResponse{},
		&Stage{},
		&Milestone{},
		&Resource{},
		&JourneySnapshot{},
	}
}
