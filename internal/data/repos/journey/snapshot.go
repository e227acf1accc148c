package journey

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

// SnapshotRepo is append-only: there is deliberately no update or delete.
type SnapshotRepo interface {
	Create(dbc dbctx.Context, snap *types.JourneySnapshot) error
	// ListByUser returns newest first. limit <= 0 returns every row.
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.JourneySnapshot, error)
	ListByUserMilestone(dbc dbctx.Context, userID uuid.UUID, milestoneID string) ([]*types.JourneySnapshot, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{db: db, log: logger.OrNop(baseLog).With("repo", "JourneySnapshotRepo")}
}

func (r *snapshotRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Context())
}

func (r *snapshotRepo) Create(dbc dbctx.Context, snap *types.JourneySnapshot) error {
	return r.tx(dbc).Create(snap).Error
}

func (r *snapshotRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.JourneySnapshot, error) {
	q := newestFirst(r.tx(dbc).Where("user_id = ?", userID))
	if limit > 0 {
		q = q.Limit(limit)
	}
	out := []*types.JourneySnapshot{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *snapshotRepo) ListByUserMilestone(dbc dbctx.Context, userID uuid.UUID, milestoneID string) ([]*types.JourneySnapshot, error) {
	out := []*types.JourneySnapshot{}
	q := newestFirst(r.tx(dbc).Where("user_id = ? AND milestone_id = ?", userID, milestoneID))
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *snapshotRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := r.tx(dbc).Model(&types.JourneySnapshot{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Snapshot ids are v7 uuids, so id breaks timestamp ties in insertion order.
func newestFirst(q *gorm.DB) *gorm.DB {
	return q.Order("recorded_at DESC").Order("id DESC")
}
