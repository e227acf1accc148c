package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/repos/catalog"
	"github.com/yungbote/pathways-backend/internal/data/repos/journey"
	"github.com/yungbote/pathways-backend/internal/data/repos/user"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type OnboardingResponseRepo = user.OnboardingResponseRepo

type StageRepo = catalog.StageRepo
type MilestoneRepo = catalog.MilestoneRepo
type ResourceRepo = catalog.ResourceRepo
type ResourceFilter = catalog.ResourceFilter

type JourneySnapshotRepo = journey.SnapshotRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return user.NewUserRepo(db, log)
}

func NewOnboardingResponseRepo(db *gorm.DB, log *logger.Logger) OnboardingResponseRepo {
	return user.NewOnboardingResponseRepo(db, log)
}

func NewStageRepo(db *gorm.DB, log *logger.Logger) StageRepo {
	return catalog.NewStageRepo(db, log)
}

func NewMilestoneRepo(db *gorm.DB, log *logger.Logger) MilestoneRepo {
	return catalog.NewMilestoneRepo(db, log)
}

func NewResourceRepo(db *gorm.DB, log *logger.Logger) ResourceRepo {
	return catalog.NewResourceRepo(db, log)
}

func NewJourneySnapshotRepo(db *gorm.DB, log *logger.Logger) JourneySnapshotRepo {
	return journey.NewSnapshotRepo(db, log)
}
