package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/pathways-backend/internal/data/repos"
	"github.com/yungbote/pathways-backend/internal/data/repos/testutil"
	"github.com/yungbote/pathways-backend/internal/domain/catalog"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Len(t, c.Stages, 5)
	for i, s := range c.Stages {
		require.Equal(t, i+1, s.Order)
		require.Equal(t, catalog.StageUUID(s.Code), s.ID)
	}
	perStage := map[string]int{}
	for _, m := range c.Milestones {
		perStage[m.StageID]++
	}
	for _, code := range []string{"S1", "S2", "S3", "S4", "S5"} {
		require.Positive(t, perStage[code], "stage %s has no milestones", code)
	}
	require.NotEmpty(t, c.Resources)
}

func TestDefaultCatalogIsDeterministic(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	require.Equal(t, len(a.Milestones), len(b.Milestones))
	for i := range a.Milestones {
		require.Equal(t, a.Milestones[i].ID, b.Milestones[i].ID)
	}
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown field": "stages: []\nbogus: 1\n",
		"duplicate stage": `
stages:
  - {code: S1, order: 1, title: A}
  - {code: s1, order: 2, title: B}
`,
		"unknown stage ref": `
stages:
  - {code: S1, order: 1, title: A}
milestones:
  S9:
    - {slug: x, title: X}
`,
		"bad category": `
stages: []
resources:
  - {slug: r, title: R, category: Nope}
`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(raw))
			require.Error(t, err)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := Repos{
		Stages:     repos.NewStageRepo(db, log),
		Milestones: repos.NewMilestoneRepo(db, log),
		Resources:  repos.NewResourceRepo(db, log),
	}
	c, err := Default()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, Apply(ctx, db, r, c, log))
	require.NoError(t, Apply(ctx, db, r, c, log))

	dbc := dbctx.Context{Ctx: ctx}
	stages, err := r.Stages.List(dbc)
	require.NoError(t, err)
	require.Len(t, stages, len(c.Stages))

	refs, err := r.Milestones.ListRefs(dbc)
	require.NoError(t, err)
	require.Len(t, refs, len(c.Milestones))

	resources, err := r.Resources.List(dbc, repos.ResourceFilter{})
	require.NoError(t, err)
	require.Len(t, resources, len(c.Resources))
}
