package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/domain/catalog"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Name:     "Test Parent",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedStage creates stage S<order> with perStage milestones and returns them
// in position order. Milestone ids are "S<order>-m<n>".
func SeedStage(tb testing.TB, ctx context.Context, tx *gorm.DB, order, perStage int) (*types.Stage, []*types.Milestone) {
	tb.Helper()
	code := fmt.Sprintf("S%d", order)
	st := &types.Stage{
		Code:        code,
		Order:       order,
		Title:       "Stage " + code,
		Description: "stage " + code,
		AgeRange:    "0-8 years",
		Color:       "#000000",
		Icon:        "star",
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed stage: %v", err)
	}
	out := make([]*types.Milestone, 0, perStage)
	for i := 1; i <= perStage; i++ {
		out = append(out, &types.Milestone{
			ID:           fmt.Sprintf("%s-m%d", code, i),
			StageID:      code,
			Title:        fmt.Sprintf("%s milestone %d", code, i),
			Behavior:     "behavior",
			WhyItMatters: "why",
			IfNotYet:     "if not yet",
			Reassurance:  "reassurance",
			Position:     i,
		})
	}
	if len(out) > 0 {
		if err := tx.WithContext(ctx).Create(&out).Error; err != nil {
			tb.Fatalf("seed milestones: %v", err)
		}
	}
	return st, out
}

func SeedResource(tb testing.TB, ctx context.Context, tx *gorm.DB, slug, title string, category catalog.ResourceCategory, tags ...string) *types.Resource {
	tb.Helper()
	r := &types.Resource{
		ID:          catalog.ResourceUUID(slug).String(),
		Title:       title,
		Description: title + " description",
		URL:         "https://example.org/" + slug,
		Category:    category,
		Tags:        tags,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resource: %v", err)
	}
	return r
}
