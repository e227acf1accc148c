package catalog

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pathways-backend/internal/domain"
	domcatalog "github.com/yungbote/pathways-backend/internal/domain/catalog"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type StageRepo interface {
	List(dbc dbctx.Context) ([]*types.Stage, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Stage, error)
	GetByCode(dbc dbctx.Context, code string) (*types.Stage, error)
	Upsert(dbc dbctx.Context, stages []*types.Stage) error
}

type stageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStageRepo(db *gorm.DB, baseLog *logger.Logger) StageRepo {
	return &stageRepo{db: db, log: logger.OrNop(baseLog).With("repo", "StageRepo")}
}

func (r *stageRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Context())
}

func (r *stageRepo) List(dbc dbctx.Context) ([]*types.Stage, error) {
	var out []*types.Stage
	if err := r.tx(dbc).Order("sort_order ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Stage, error) {
	var out []*types.Stage
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *stageRepo) GetByCode(dbc dbctx.Context, code string) (*types.Stage, error) {
	var out []*types.Stage
	if err := r.tx(dbc).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// Upsert inserts stages or refreshes their content. Stage ids derive from the
// code, so the id is the conflict key.
func (r *stageRepo) Upsert(dbc dbctx.Context, stages []*types.Stage) error {
	if len(stages) == 0 {
		return nil
	}
	for _, s := range stages {
		s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
		if s.ID == uuid.Nil {
			s.ID = domcatalog.StageUUID(s.Code)
		}
	}
	return r.tx(dbc).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sort_order", "title", "description", "age_range", "color", "icon", "next_step_prompt", "updated_at",
		}),
	}).Create(&stages).Error
}
