package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User owns the live completed-milestone set. ProgressVersion is bumped on every
// progress write and guards compare-and-set updates of that set.
type User struct {
	ID                  uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Email               string                      `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password            string                      `gorm:"not null;column:password" json:"-"`
	Name                string                      `gorm:"not null;column:name" json:"name"`
	RecommendedStageID  *string                     `gorm:"column:recommended_stage_id" json:"recommended_stage_id,omitempty"`
	CompletedMilestones datatypes.JSONSlice[string] `gorm:"column:completed_milestones" json:"completed_milestones"`
	ProgressVersion     int                         `gorm:"column:progress_version;not null;default:0" json:"-"`
	CreatedAt           time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time                   `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CompletedMilestones == nil {
		u.CompletedMilestones = datatypes.JSONSlice[string]{}
	}
	return nil
}
