package journey

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Action string

const (
	ActionCompleted   Action = "completed"
	ActionUncompleted Action = "uncompleted"
)

// StageProgress is the per-stage tally. Field names on the wire match the
// progress endpoint so clients can reuse one decoder.
type StageProgress struct {
	Total      int     `json:"total_milestones"`
	Completed  int     `json:"completed_milestones"`
	Percentage float64 `json:"percentage"`
}

type StageProgressMap map[string]StageProgress

// Snapshot is an immutable record of a user's full progress state right after
// one toggle. Rows are never updated or deleted.
type Snapshot struct {
	ID                       uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                   uuid.UUID                           `gorm:"type:uuid;not null;index:idx_journey_user_ts,priority:1;index:idx_journey_user_milestone_ts,priority:1" json:"user_id"`
	MilestoneID              string                              `gorm:"column:milestone_id;not null;index:idx_journey_user_milestone_ts,priority:2" json:"milestone_id"`
	StageID                  string                              `gorm:"column:stage_id;not null" json:"stage_id"`
	MilestoneTitle           string                              `gorm:"column:milestone_title;not null" json:"milestone_title"`
	Action                   Action                              `gorm:"column:action;not null" json:"action"`
	CompletedMilestones      datatypes.JSONSlice[string]         `gorm:"column:completed_milestones" json:"completed_milestones"`
	TotalMilestonesCompleted int                                 `gorm:"column:total_milestones_completed;not null" json:"total_milestones_completed"`
	StageProgress            datatypes.JSONType[StageProgressMap] `gorm:"column:stage_progress" json:"stage_progress"`
	Timestamp                time.Time                           `gorm:"column:recorded_at;not null;index:idx_journey_user_ts,priority:2,sort:desc;index:idx_journey_user_milestone_ts,priority:3,sort:desc" json:"timestamp"`
}

func (Snapshot) TableName() string { return "journey_snapshot" }

// BeforeCreate assigns a v7 id so ids sort with insertion time.
func (s *Snapshot) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		s.ID = id
	}
	if s.CompletedMilestones == nil {
		s.CompletedMilestones = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (s *Snapshot) Progress() StageProgressMap {
	return s.StageProgress.Data()
}
