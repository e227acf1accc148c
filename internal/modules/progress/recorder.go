package progress

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/pathways-backend/internal/domain/catalog"
	"github.com/yungbote/pathways-backend/internal/domain/journey"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

// DefaultHistoryLimit is the page size when a caller does not ask for one.
const DefaultHistoryLimit = 50

// SnapshotStore is the append-only persistence the recorder writes through.
type SnapshotStore interface {
	Create(dbc dbctx.Context, snap *journey.Snapshot) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*journey.Snapshot, error)
	ListByUserMilestone(dbc dbctx.Context, userID uuid.UUID, milestoneID string) ([]*journey.Snapshot, error)
}

// Recorder builds and appends journey snapshots.
type Recorder struct {
	store SnapshotStore
	clock *Clock
}

func NewRecorder(store SnapshotStore, clock *Clock) *Recorder {
	if clock == nil {
		clock = NewClock(nil)
	}
	return &Recorder{store: store, clock: clock}
}

type RecordInput struct {
	UserID              uuid.UUID
	MilestoneID         string
	Milestone           *catalog.Milestone
	Action              journey.Action
	CompletedMilestones []string
	StageProgress       journey.StageProgressMap
}

// Build assembles a snapshot without persisting it. A nil Milestone marks an id
// that is not in the catalog.
func (r *Recorder) Build(in RecordInput) *journey.Snapshot {
	stageID, title := catalog.UnknownStageID, catalog.UnknownMilestoneTitle
	if in.Milestone != nil {
		stageID, title = in.Milestone.StageID, in.Milestone.Title
	}
	completed := make([]string, len(in.CompletedMilestones))
	copy(completed, in.CompletedMilestones)
	sp := make(journey.StageProgressMap, len(in.StageProgress))
	for k, v := range in.StageProgress {
		sp[k] = v
	}
	return &journey.Snapshot{
		UserID:                   in.UserID,
		MilestoneID:              in.MilestoneID,
		StageID:                  stageID,
		MilestoneTitle:           title,
		Action:                   in.Action,
		CompletedMilestones:      datatypes.JSONSlice[string](completed),
		TotalMilestonesCompleted: len(completed),
		StageProgress:            datatypes.NewJSONType(sp),
		Timestamp:                r.clock.Now(),
	}
}

// Record builds the snapshot and appends it through dbc, so callers inside a
// transaction get the write rolled back with everything else.
func (r *Recorder) Record(dbc dbctx.Context, in RecordInput) (*journey.Snapshot, error) {
	snap := r.Build(in)
	if err := r.store.Create(dbc, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListForUser returns the newest snapshots first. limit 0 means
// DefaultHistoryLimit and a negative limit means no limit.
func (r *Recorder) ListForUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*journey.Snapshot, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 0 {
		limit = 0
	}
	return r.store.ListByUser(dbc, userID, limit)
}

// ListForMilestone returns every snapshot for one milestone, newest first.
func (r *Recorder) ListForMilestone(dbc dbctx.Context, userID uuid.UUID, milestoneID string) ([]*journey.Snapshot, error) {
	return r.store.ListByUserMilestone(dbc, userID, milestoneID)
}
