package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/pathways-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureProgressIndexes(db)
}

// EnsureProgressIndexes adds indexes the struct tags cannot express portably.
func EnsureProgressIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			// Newest-first history pages break timestamp ties by id.
			name: "idx_journey_user_ts_id",
			sql:  `CREATE INDEX IF NOT EXISTS idx_journey_user_ts_id ON journey_snapshot (user_id, recorded_at DESC, id DESC);`,
		},
		{
			name: "idx_milestone_stage_position",
			sql:  `CREATE INDEX IF NOT EXISTS idx_milestone_stage_position ON milestone (stage_id, position);`,
		},
		{
			name: "idx_users_email_lower",
			sql:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (lower(email));`,
		},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
