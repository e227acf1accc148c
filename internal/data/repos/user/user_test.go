package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pathways-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewUserRepo(db, testutil.Logger(t))

	u := &types.User{Email: "  Parent@Example.com ", Password: "pw", Name: "Parent"}
	if _, err := repo.Create(dbc, []*types.User{u}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("Create: want id assigned")
	}
	if u.Email != "parent@example.com" {
		t.Fatalf("Create: want normalized email got=%q", u.Email)
	}

	got, err := repo.GetByID(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if len(got.CompletedMilestones) != 0 {
		t.Fatalf("GetByID: want empty completed set got=%v", got.CompletedMilestones)
	}

	if got, err := repo.GetByEmail(dbc, "PARENT@example.com"); err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: err=%v got=%v", err, got)
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID missing: err=%v got=%v", err, missing)
	}

	if exists, err := repo.EmailExists(dbc, "parent@example.com", uuid.Nil); err != nil || !exists {
		t.Fatalf("EmailExists: err=%v exists=%v", err, exists)
	}
	if exists, err := repo.EmailExists(dbc, "parent@example.com", u.ID); err != nil || exists {
		t.Fatalf("EmailExists exclude self: err=%v exists=%v", err, exists)
	}

	stage := "s2"
	if err := repo.UpdateFields(dbc, u.ID, map[string]interface{}{"recommended_stage_id": stage, "name": "Renamed"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	tx := testutil.Tx(t, db)
	locked, err := repo.GetByIDForUpdate(dbctx.Context{Ctx: ctx, Tx: tx}, u.ID)
	if err != nil || locked == nil {
		t.Fatalf("GetByIDForUpdate: err=%v got=%v", err, locked)
	}
	if locked.RecommendedStageID == nil || *locked.RecommendedStageID != stage || locked.Name != "Renamed" {
		t.Fatalf("UpdateFields: got stage=%v name=%q", locked.RecommendedStageID, locked.Name)
	}
}

func TestOnboardingResponseRepoLatest(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	u := testutil.SeedUser(t, ctx, db, "onboarding@example.com")
	repo := NewOnboardingResponseRepo(db, testutil.Logger(t))

	if got, err := repo.GetLatestByUser(dbc, u.ID); err != nil || got != nil {
		t.Fatalf("GetLatestByUser empty: err=%v got=%v", err, got)
	}

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := &types.OnboardingResponse{UserID: u.ID, ChildAgeRange: "0-18m", DiagnosisStatus: "none", PrimaryConcern: "speech", RecommendedStageID: "s1", CreatedAt: base}
	second := &types.OnboardingResponse{UserID: u.ID, ChildAgeRange: "3-5y", DiagnosisStatus: "recent", PrimaryConcern: "social", RecommendedStageID: "s3", CreatedAt: base.Add(time.Minute)}
	for _, r := range []*types.OnboardingResponse{first, second} {
		if err := repo.Create(dbc, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	got, err := repo.GetLatestByUser(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetLatestByUser: err=%v got=%v", err, got)
	}
	if got.ID != second.ID || got.RecommendedStageID != "s3" {
		t.Fatalf("GetLatestByUser: want=%s got=%s", second.ID, got.ID)
	}
}
