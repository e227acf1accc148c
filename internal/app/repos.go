package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/repos"
	"github.com/yungbote/pathways-backend/internal/data/seed"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type Repos struct {
	User               repos.UserRepo
	OnboardingResponse repos.OnboardingResponseRepo
	Stage              repos.StageRepo
	Milestone          repos.MilestoneRepo
	Resource           repos.ResourceRepo
	JourneySnapshot    repos.JourneySnapshotRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:               repos.NewUserRepo(db, log),
		OnboardingResponse: repos.NewOnboardingResponseRepo(db, log),
		Stage:              repos.NewStageRepo(db, log),
		Milestone:          repos.NewMilestoneRepo(db, log),
		Resource:           repos.NewResourceRepo(db, log),
		JourneySnapshot:    repos.NewJourneySnapshotRepo(db, log),
	}
}

func (r Repos) Seed() seed.Repos {
	return seed.Repos{Stages: r.Stage, Milestones: r.Milestone, Resources: r.Resource}
}
