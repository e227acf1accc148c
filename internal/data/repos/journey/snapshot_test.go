package journey

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/pathways-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

func snap(userID uuid.UUID, milestoneID string, at time.Time) *types.JourneySnapshot {
	return &types.JourneySnapshot{
		UserID:                   userID,
		MilestoneID:              milestoneID,
		StageID:                  "S1",
		MilestoneTitle:           milestoneID,
		Action:                   types.ActionCompleted,
		CompletedMilestones:      datatypes.JSONSlice[string]{milestoneID},
		TotalMilestonesCompleted: 1,
		StageProgress: datatypes.NewJSONType(types.StageProgressMap{
			"S1": {Total: 2, Completed: 1, Percentage: 50},
		}),
		Timestamp: at,
	}
}

func TestSnapshotRepoOrderingAndFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewSnapshotRepo(db, testutil.Logger(t))

	userID := uuid.New()
	otherID := uuid.New()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	rows := []*types.JourneySnapshot{
		snap(userID, "a", base),
		snap(userID, "b", base.Add(time.Second)),
		snap(userID, "a", base.Add(2*time.Second)),
		// same timestamp as the previous row; insertion order decides
		snap(userID, "c", base.Add(2*time.Second)),
		snap(otherID, "a", base.Add(3*time.Second)),
	}
	for _, r := range rows {
		if err := repo.Create(dbc, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := repo.ListByUser(dbc, userID, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(all))
	}
	wantOrder := []string{"c", "a", "b", "a"}
	for i, s := range all {
		if s.MilestoneID != wantOrder[i] {
			t.Fatalf("ListByUser order[%d]: want=%s got=%s", i, wantOrder[i], s.MilestoneID)
		}
		if i > 0 && s.Timestamp.After(all[i-1].Timestamp) {
			t.Fatalf("ListByUser: timestamps not descending at %d", i)
		}
	}
	if got := all[0].Progress()["S1"]; got.Total != 2 || got.Percentage != 50 {
		t.Fatalf("stage_progress roundtrip: got=%+v", got)
	}

	limited, err := repo.ListByUser(dbc, userID, 2)
	if err != nil || len(limited) != 2 || limited[0].MilestoneID != "c" {
		t.Fatalf("ListByUser limit: err=%v len=%d", err, len(limited))
	}

	forA, err := repo.ListByUserMilestone(dbc, userID, "a")
	if err != nil || len(forA) != 2 || !forA[0].Timestamp.After(forA[1].Timestamp) {
		t.Fatalf("ListByUserMilestone: err=%v len=%d", err, len(forA))
	}

	none, err := repo.ListByUser(dbc, uuid.New(), 0)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("ListByUser unknown user: want empty non-nil slice, err=%v got=%v", err, none)
	}

	if n, err := repo.CountByUser(dbc, userID); err != nil || n != 4 {
		t.Fatalf("CountByUser: err=%v n=%d", err, n)
	}
}
