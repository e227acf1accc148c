package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type OnboardingResponseRepo interface {
	Create(dbc dbctx.Context, resp *types.OnboardingResponse) error
	GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.OnboardingResponse, error)
}

type onboardingResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOnboardingResponseRepo(db *gorm.DB, baseLog *logger.Logger) OnboardingResponseRepo {
	return &onboardingResponseRepo{db: db, log: logger.OrNop(baseLog).With("repo", "OnboardingResponseRepo")}
}

func (r *onboardingResponseRepo) Create(dbc dbctx.Context, resp *types.OnboardingResponse) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Context()).Create(resp).Error
}

func (r *onboardingResponseRepo) GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.OnboardingResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.OnboardingResponse
	if err := transaction.WithContext(dbc.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
