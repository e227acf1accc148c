package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stage is one step of the five-stage journey. Code is the stable "S<n>"
// identifier shared with milestones and recommendations (lowercased on the wire
// for recommendations, e.g. "s2").
type Stage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code           string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Order          int       `gorm:"column:sort_order;not null;uniqueIndex" json:"order"`
	Title          string    `gorm:"column:title;not null" json:"title"`
	Description    string    `gorm:"column:description;not null" json:"description"`
	AgeRange       string    `gorm:"column:age_range;not null" json:"age_range"`
	Color          string    `gorm:"column:color;not null" json:"color"`
	Icon           string    `gorm:"column:icon;not null" json:"icon"`
	NextStepPrompt string    `gorm:"column:next_step_prompt" json:"next_step_prompt,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (Stage) TableName() string { return "stage" }

func (s *Stage) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = StageUUID(s.Code)
	}
	return nil
}

// catalogNamespace seeds deterministic ids so reseeding the catalog is idempotent.
var catalogNamespace = uuid.MustParse("5b0e3c1e-8f0a-4d9b-a1d2-7c3f64a4e9b0")

func StageUUID(code string) uuid.UUID {
	return uuid.NewSHA1(catalogNamespace, []byte("stage/"+strings.ToUpper(strings.TrimSpace(code))))
}

func MilestoneUUID(stageCode, slug string) uuid.UUID {
	return uuid.NewSHA1(catalogNamespace, []byte("milestone/"+strings.ToUpper(strings.TrimSpace(stageCode))+"/"+strings.TrimSpace(slug)))
}

func ResourceUUID(slug string) uuid.UUID {
	return uuid.NewSHA1(catalogNamespace, []byte("resource/"+strings.TrimSpace(slug)))
}
