package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/pathways-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pathways-backend/internal/domain"
	domcatalog "github.com/yungbote/pathways-backend/internal/domain/catalog"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

func TestStageRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewStageRepo(db, testutil.Logger(t))

	testutil.SeedStage(t, ctx, db, 2, 0)
	testutil.SeedStage(t, ctx, db, 1, 0)

	stages, err := repo.List(dbc)
	if err != nil || len(stages) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(stages))
	}
	if stages[0].Code != "S1" || stages[1].Code != "S2" {
		t.Fatalf("List order: got=%s,%s", stages[0].Code, stages[1].Code)
	}

	if got, err := repo.GetByCode(dbc, "s2"); err != nil || got == nil || got.Order != 2 {
		t.Fatalf("GetByCode: err=%v got=%v", err, got)
	}
	if got, err := repo.GetByID(dbc, domcatalog.StageUUID("S1")); err != nil || got == nil || got.Code != "S1" {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got, err := repo.GetByID(dbc, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID missing: err=%v got=%v", err, got)
	}

	updated := &types.Stage{Code: "S1", Order: 1, Title: "Early Signs", Description: "d", AgeRange: "0-3", Color: "#fff", Icon: "eye"}
	if err := repo.Upsert(dbc, []*types.Stage{updated}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := repo.GetByCode(dbc, "S1")
	if err != nil || got == nil || got.Title != "Early Signs" {
		t.Fatalf("Upsert refresh: err=%v got=%v", err, got)
	}
	if stages, _ := repo.List(dbc); len(stages) != 2 {
		t.Fatalf("Upsert duplicated stage: len=%d", len(stages))
	}
}

func TestMilestoneRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewMilestoneRepo(db, testutil.Logger(t))

	_, s1 := testutil.SeedStage(t, ctx, db, 1, 3)
	testutil.SeedStage(t, ctx, db, 2, 2)

	all, err := repo.List(dbc, "")
	if err != nil || len(all) != 5 {
		t.Fatalf("List all: err=%v len=%d", err, len(all))
	}
	stage1, err := repo.List(dbc, "S1")
	if err != nil || len(stage1) != 3 || stage1[0].ID != s1[0].ID {
		t.Fatalf("List S1: err=%v len=%d", err, len(stage1))
	}

	refs, err := repo.ListRefs(dbc)
	if err != nil || len(refs) != 5 {
		t.Fatalf("ListRefs: err=%v len=%d", err, len(refs))
	}
	perStage := map[string]int{}
	for _, ref := range refs {
		perStage[ref.StageID]++
	}
	if perStage["S1"] != 3 || perStage["S2"] != 2 {
		t.Fatalf("ListRefs grouping: got=%v", perStage)
	}

	if got, err := repo.GetByID(dbc, "S1-m2"); err != nil || got == nil || got.StageID != "S1" {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got, err := repo.GetByID(dbc, "nope"); err != nil || got != nil {
		t.Fatalf("GetByID missing: err=%v got=%v", err, got)
	}
}

func TestResourceRepoFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewResourceRepo(db, testutil.Logger(t))

	testutil.SeedResource(t, ctx, db, "iep-guide", "Understanding Your IEP", domcatalog.CategoryIEP, "school", "rights")
	testutil.SeedResource(t, ctx, db, "aba-intro", "ABA Therapy Basics", domcatalog.CategoryTherapy, "aba")
	testutil.SeedResource(t, ctx, db, "ei-finder", "Find Early Intervention", domcatalog.CategoryEarlyIntervention, "100%_free")

	all, err := repo.List(dbc, ResourceFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("List: err=%v len=%d", err, len(all))
	}
	byCat, err := repo.List(dbc, ResourceFilter{Category: domcatalog.CategoryTherapy})
	if err != nil || len(byCat) != 1 || byCat[0].Title != "ABA Therapy Basics" {
		t.Fatalf("List category: err=%v len=%d", err, len(byCat))
	}
	byTitle, err := repo.List(dbc, ResourceFilter{Search: "iep"})
	if err != nil || len(byTitle) != 1 {
		t.Fatalf("List search title: err=%v len=%d", err, len(byTitle))
	}
	byTag, err := repo.List(dbc, ResourceFilter{Search: "RIGHTS"})
	if err != nil || len(byTag) != 1 || byTag[0].Category != domcatalog.CategoryIEP {
		t.Fatalf("List search tag: err=%v len=%d", err, len(byTag))
	}
	wildcard, err := repo.List(dbc, ResourceFilter{Search: "%"})
	if err != nil || len(wildcard) != 1 {
		t.Fatalf("List search escapes wildcard: err=%v len=%d", err, len(wildcard))
	}
	if got, err := repo.GetByID(dbc, domcatalog.ResourceUUID("aba-intro").String()); err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
}
