package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/repos"
	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/domain/catalog"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type StageDoc struct {
	Code           string `yaml:"code"`
	Order          int    `yaml:"order"`
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	AgeRange       string `yaml:"age_range"`
	Color          string `yaml:"color"`
	Icon           string `yaml:"icon"`
	NextStepPrompt string `yaml:"next_step_prompt"`
}

type MilestoneDoc struct {
	Slug         string `yaml:"slug"`
	Title        string `yaml:"title"`
	Behavior     string `yaml:"behavior"`
	WhyItMatters string `yaml:"why_it_matters"`
	IfNotYet     string `yaml:"if_not_yet"`
	Reassurance  string `yaml:"reassurance"`
}

type ResourceDoc struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
}

// Document is the on-disk catalog. Milestones are grouped by stage code.
type Document struct {
	Stages     []StageDoc                `yaml:"stages"`
	Milestones map[string][]MilestoneDoc `yaml:"milestones"`
	Resources  []ResourceDoc             `yaml:"resources"`
}

// Catalog is a validated document converted to rows with deterministic ids.
type Catalog struct {
	Stages     []*types.Stage
	Milestones []*types.Milestone
	Resources  []*types.Resource
}

func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads path, or the embedded catalog when path is empty.
func LoadFile(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return Build(doc)
}

func Build(doc Document) (*Catalog, error) {
	out := &Catalog{}
	codes := map[string]bool{}
	orders := map[int]bool{}
	for _, s := range doc.Stages {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		if code == "" || strings.TrimSpace(s.Title) == "" {
			return nil, fmt.Errorf("stage %q: code and title are required", s.Code)
		}
		if codes[code] {
			return nil, fmt.Errorf("stage %s: duplicate code", code)
		}
		if orders[s.Order] {
			return nil, fmt.Errorf("stage %s: duplicate order %d", code, s.Order)
		}
		codes[code] = true
		orders[s.Order] = true
		out.Stages = append(out.Stages, &types.Stage{
			ID:             catalog.StageUUID(code),
			Code:           code,
			Order:          s.Order,
			Title:          s.Title,
			Description:    s.Description,
			AgeRange:       s.AgeRange,
			Color:          s.Color,
			Icon:           s.Icon,
			NextStepPrompt: s.NextStepPrompt,
		})
	}
	sort.Slice(out.Stages, func(i, j int) bool { return out.Stages[i].Order < out.Stages[j].Order })

	stageKeys := make([]string, 0, len(doc.Milestones))
	for k := range doc.Milestones {
		stageKeys = append(stageKeys, k)
	}
	sort.Strings(stageKeys)
	for _, key := range stageKeys {
		code := strings.ToUpper(strings.TrimSpace(key))
		if !codes[code] {
			return nil, fmt.Errorf("milestones reference unknown stage %q", key)
		}
		slugs := map[string]bool{}
		for i, m := range doc.Milestones[key] {
			slug := strings.TrimSpace(m.Slug)
			if slug == "" || strings.TrimSpace(m.Title) == "" {
				return nil, fmt.Errorf("stage %s milestone %d: slug and title are required", code, i)
			}
			if slugs[slug] {
				return nil, fmt.Errorf("stage %s milestone %s: duplicate slug", code, slug)
			}
			slugs[slug] = true
			out.Milestones = append(out.Milestones, &types.Milestone{
				ID:           catalog.MilestoneUUID(code, slug).String(),
				StageID:      code,
				Title:        m.Title,
				Behavior:     m.Behavior,
				WhyItMatters: m.WhyItMatters,
				IfNotYet:     m.IfNotYet,
				Reassurance:  m.Reassurance,
				Position:     i + 1,
			})
		}
	}

	seen := map[string]bool{}
	for _, r := range doc.Resources {
		slug := strings.TrimSpace(r.Slug)
		if slug == "" || seen[slug] {
			return nil, fmt.Errorf("resource %q: missing or duplicate slug", r.Slug)
		}
		seen[slug] = true
		cat, ok := catalog.ParseResourceCategory(r.Category)
		if !ok {
			return nil, fmt.Errorf("resource %s: unknown category %q", slug, r.Category)
		}
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		out.Resources = append(out.Resources, &types.Resource{
			ID:          catalog.ResourceUUID(slug).String(),
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			Category:    cat,
			Tags:        tags,
		})
	}
	return out, nil
}

type Repos struct {
	Stages     repos.StageRepo
	Milestones repos.MilestoneRepo
	Resources  repos.ResourceRepo
}

// Apply upserts the whole catalog in one transaction. Reapplying the same
// catalog leaves ids unchanged, so user progress keeps pointing at the same rows.
func Apply(ctx context.Context, db *gorm.DB, r Repos, c *Catalog, log *logger.Logger) error {
	if c == nil {
		return fmt.Errorf("nil catalog")
	}
	log = logger.OrNop(log).With("component", "CatalogSeed")
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := r.Stages.Upsert(dbc, c.Stages); err != nil {
			return fmt.Errorf("upsert stages: %w", err)
		}
		if err := r.Milestones.Upsert(dbc, c.Milestones); err != nil {
			return fmt.Errorf("upsert milestones: %w", err)
		}
		if err := r.Resources.Upsert(dbc, c.Resources); err != nil {
			return fmt.Errorf("upsert resources: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("catalog seeded", "stages", len(c.Stages), "milestones", len(c.Milestones), "resources", len(c.Resources))
	return nil
}
