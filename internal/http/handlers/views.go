package handlers

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/pathways-backend/internal/domain"
)

// userView keeps the camelCase field names the mobile client was built against.
type userView struct {
	ID                  uuid.UUID `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	RecommendedStageID  *string   `json:"recommendedStageId"`
	CompletedMilestones []string  `json:"completedMilestones"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func newUserView(u *types.User) *userView {
	if u == nil {
		return nil
	}
	completed := []string(u.CompletedMilestones)
	if completed == nil {
		completed = []string{}
	}
	return &userView{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		RecommendedStageID:  u.RecommendedStageID,
		CompletedMilestones: completed,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

type onboardingView struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"userId"`
	ChildAgeRange      string    `json:"childAgeRange"`
	DiagnosisStatus    string    `json:"diagnosisStatus"`
	PrimaryConcern     string    `json:"primaryConcern"`
	RecommendedStageID string    `json:"recommendedStageId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func newOnboardingView(o *types.OnboardingResponse) *onboardingView {
	if o == nil {
		return nil
	}
	return &onboardingView{
		ID:                 o.ID,
		UserID:             o.UserID,
		ChildAgeRange:      o.ChildAgeRange,
		DiagnosisStatus:    o.DiagnosisStatus,
		PrimaryConcern:     o.PrimaryConcern,
		RecommendedStageID: o.RecommendedStageID,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// historyEntry is one journey snapshot as the history endpoints return it.
type historyEntry struct {
	ID                  uuid.UUID              `json:"id"`
	MilestoneID         string                 `json:"milestone_id"`
	MilestoneTitle      string                 `json:"milestone_title"`
	StageID             string                 `json:"stage_id"`
	Action              types.JourneyAction    `json:"action"`
	CompletedMilestones []string               `json:"completed_milestones"`
	TotalCompleted      int                    `json:"total_milestones_completed"`
	StageProgress       types.StageProgressMap `json:"stage_progress"`
	Timestamp           time.Time              `json:"timestamp"`
}

func newHistory(snaps []*types.JourneySnapshot) []historyEntry {
	out := make([]historyEntry, 0, len(snaps))
	for _, s := range snaps {
		if s == nil {
			continue
		}
		completed := []string(s.CompletedMilestones)
		if completed == nil {
			completed = []string{}
		}
		progress := s.Progress()
		if progress == nil {
			progress = types.StageProgressMap{}
		}
		out = append(out, historyEntry{
			ID:                  s.ID,
			MilestoneID:         s.MilestoneID,
			MilestoneTitle:      s.MilestoneTitle,
			StageID:             s.StageID,
			Action:              s.Action,
			CompletedMilestones: completed,
			TotalCompleted:      s.TotalMilestonesCompleted,
			StageProgress:       progress,
			Timestamp:           s.Timestamp,
		})
	}
	return out
}
