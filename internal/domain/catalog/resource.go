package catalog

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ResourceCategory string

const (
	CategoryEarlyIntervention ResourceCategory = "Early Intervention"
	CategoryDiagnosis         ResourceCategory = "Diagnosis"
	CategoryInsurance         ResourceCategory = "Insurance"
	CategoryIEP               ResourceCategory = "IEP"
	CategoryTherapy           ResourceCategory = "Therapy"
	CategoryGeneral           ResourceCategory = "General"
)

var resourceCategories = []ResourceCategory{
	CategoryEarlyIntervention,
	CategoryDiagnosis,
	CategoryInsurance,
	CategoryIEP,
	CategoryTherapy,
	CategoryGeneral,
}

// ParseResourceCategory matches case-insensitively and returns the canonical value.
func ParseResourceCategory(raw string) (ResourceCategory, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range resourceCategories {
		if strings.EqualFold(raw, string(c)) {
			return c, true
		}
	}
	return "", false
}

type Resource struct {
	ID          string                      `gorm:"column:id;primaryKey" json:"id"`
	Title       string                      `gorm:"column:title;not null" json:"title"`
	Description string                      `gorm:"column:description;not null" json:"description"`
	URL         string                      `gorm:"column:url;not null" json:"url"`
	Category    ResourceCategory            `gorm:"column:category;not null;index" json:"category"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	CreatedAt   time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Resource) TableName() string { return "resource" }
