package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string, excludeID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: logger.OrNop(baseLog).With("repo", "UserRepo")}
}

func (r *userRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Context())
}

func (r *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	for _, u := range users {
		u.Email = normalizeEmail(u.Email)
	}
	if err := r.tx(dbc).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID returns nil without error when the user does not exist.
func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	return r.first(r.tx(dbc), id)
}

// GetByIDForUpdate row-locks the user for the rest of the transaction on
// databases that support it.
func (r *userRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	return r.first(r.tx(dbc).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *userRepo) first(q *gorm.DB, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.User
	if err := q.Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	var out []*types.User
	if err := r.tx(dbc).Where("lower(email) = ?", email).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string, excludeID uuid.UUID) (bool, error) {
	q := r.tx(dbc).Model(&types.User{}).Where("lower(email) = ?", normalizeEmail(email))
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if v, ok := updates["email"].(string); ok {
		updates["email"] = normalizeEmail(v)
	}
	return r.tx(dbc).Model(&types.User{}).Where("id = ?", id).Updates(updates).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
