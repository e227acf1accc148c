package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type MilestoneRepo interface {
	List(dbc dbctx.Context, stageID string) ([]*types.Milestone, error)
	GetByID(dbc dbctx.Context, id string) (*types.Milestone, error)
	ListRefs(dbc dbctx.Context) ([]types.MilestoneRef, error)
	Upsert(dbc dbctx.Context, milestones []*types.Milestone) error
}

type milestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return &milestoneRepo{db: db, log: logger.OrNop(baseLog).With("repo", "MilestoneRepo")}
}

func (r *milestoneRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Context())
}

// List returns milestones in stage then position order. An empty stageID lists all.
func (r *milestoneRepo) List(dbc dbctx.Context, stageID string) ([]*types.Milestone, error) {
	q := r.tx(dbc)
	if stageID != "" {
		q = q.Where("stage_id = ?", stageID)
	}
	var out []*types.Milestone
	if err := q.Order("stage_id ASC").Order("position ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *milestoneRepo) GetByID(dbc dbctx.Context, id string) (*types.Milestone, error) {
	if id == "" {
		return nil, nil
	}
	var out []*types.Milestone
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// ListRefs loads the (id, stage_id) pairs of the whole catalog.
func (r *milestoneRepo) ListRefs(dbc dbctx.Context) ([]types.MilestoneRef, error) {
	var out []types.MilestoneRef
	if err := r.tx(dbc).Model(&types.Milestone{}).Select("id", "stage_id").Order("id ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *milestoneRepo) Upsert(dbc dbctx.Context, milestones []*types.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	return r.tx(dbc).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stage_id", "title", "behavior", "why_it_matters", "if_not_yet", "reassurance", "position", "updated_at",
		}),
	}).Create(&milestones).Error
}
