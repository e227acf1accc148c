package catalog

import "time"

// UnknownStageID and UnknownMilestoneTitle label snapshots for milestone ids
// that are not (or no longer) in the catalog.
const (
	UnknownStageID        = "unknown"
	UnknownMilestoneTitle = "Unknown Milestone"
)

type Milestone struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	StageID      string    `gorm:"column:stage_id;not null;index" json:"stage_id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Behavior     string    `gorm:"column:behavior;not null" json:"behavior"`
	WhyItMatters string    `gorm:"column:why_it_matters;not null" json:"why_it_matters"`
	IfNotYet     string    `gorm:"column:if_not_yet;not null" json:"if_not_yet"`
	Reassurance  string    `gorm:"column:reassurance;not null" json:"reassurance"`
	Position     int       `gorm:"column:position;not null;default:0" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Milestone) TableName() string { return "milestone" }

// MilestoneRef is the slice of a milestone the progress math needs.
type MilestoneRef struct {
	ID      string `gorm:"column:id"`
	StageID string `gorm:"column:stage_id"`
}

func (m *Milestone) Ref() MilestoneRef {
	return MilestoneRef{ID: m.ID, StageID: m.StageID}
}
