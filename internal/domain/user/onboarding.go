package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OnboardingResponse is one submitted questionnaire. A user may submit many;
// the latest one drives RecommendedStageID.
type OnboardingResponse struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index:idx_onboarding_user_created,priority:1" json:"user_id"`
	ChildAgeRange      string    `gorm:"column:child_age_range;not null" json:"child_age_range"`
	DiagnosisStatus    string    `gorm:"column:diagnosis_status;not null" json:"diagnosis_status"`
	PrimaryConcern     string    `gorm:"column:primary_concern;not null" json:"primary_concern"`
	RecommendedStageID string    `gorm:"column:recommended_stage_id;not null" json:"recommended_stage_id"`
	CreatedAt          time.Time `gorm:"not null;index:idx_onboarding_user_created,priority:2" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (OnboardingResponse) TableName() string { return "onboarding_response" }

func (o *OnboardingResponse) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
