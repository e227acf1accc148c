package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/pathways-backend/internal/app"
	"github.com/yungbote/pathways-backend/internal/data/db"
	"github.com/yungbote/pathways-backend/internal/data/repos"
	"github.com/yungbote/pathways-backend/internal/data/seed"
	"github.com/yungbote/pathways-backend/internal/platform/envutil"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

func main() {
	var file string
	var dryRun bool
	flag.StringVar(&file, "file", envutil.String("SEED_CATALOG_PATH", ""), "catalog YAML (defaults to the embedded catalog)")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the catalog without touching the database")
	flag.Parse()

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	catalog, err := seed.LoadFile(file)
	if err != nil {
		log.Error("load catalog", "file", file, "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded",
		"stages", len(catalog.Stages),
		"milestones", len(catalog.Milestones),
		"resources", len(catalog.Resources),
	)
	if dryRun {
		return
	}

	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	svc, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}
	r := seed.Repos{
		Stages:     repos.NewStageRepo(svc.DB(), log),
		Milestones: repos.NewMilestoneRepo(svc.DB(), log),
		Resources:  repos.NewResourceRepo(svc.DB(), log),
	}
	if err := seed.Apply(context.Background(), svc.DB(), r, catalog, log); err != nil {
		log.Error("seed", "error", err)
		os.Exit(1)
	}
	log.Info("seed complete")
}
