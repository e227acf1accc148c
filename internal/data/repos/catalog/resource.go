package catalog

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type ResourceFilter struct {
	Category types.ResourceCategory
	// Search matches title, description and tags case-insensitively.
	Search string
}

type ResourceRepo interface {
	List(dbc dbctx.Context, filter ResourceFilter) ([]*types.Resource, error)
	GetByID(dbc dbctx.Context, id string) (*types.Resource, error)
	Upsert(dbc dbctx.Context, resources []*types.Resource) error
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	return &resourceRepo{db: db, log: logger.OrNop(baseLog).With("repo", "ResourceRepo")}
}

func (r *resourceRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Context())
}

func (r *resourceRepo) List(dbc dbctx.Context, filter ResourceFilter) ([]*types.Resource, error) {
	q := r.tx(dbc)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where(
			"lower(title) LIKE ? ESCAPE '\\' OR lower(description) LIKE ? ESCAPE '\\' OR lower(CAST(tags AS TEXT)) LIKE ? ESCAPE '\\'",
			like, like, like,
		)
	}
	var out []*types.Resource
	if err := q.Order("category ASC").Order("title ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resourceRepo) GetByID(dbc dbctx.Context, id string) (*types.Resource, error) {
	var out []*types.Resource
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *resourceRepo) Upsert(dbc dbctx.Context, resources []*types.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	return r.tx(dbc).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "url", "category", "tags", "updated_at"}),
	}).Create(&resources).Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
