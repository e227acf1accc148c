package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

// CASGuard runs compare-and-set updates for optimistic locking.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context()), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Context()), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// UpdateByVersion applies updates only while versionColumn still equals
// expected, and bumps it to expected+1 in the same statement. It reports
// whether a row matched.
func (g CASGuard) UpdateByVersion(dbc dbctx.Context, table, versionColumn string, id uuid.UUID, expected int, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	versionColumn = strings.TrimSpace(versionColumn)
	if table == "" || versionColumn == "" || id == uuid.Nil {
		return false, ValidationError("table, version column and id are required for UpdateByVersion")
	}
	if expected < 0 {
		return false, ValidationError("expected version must be >= 0")
	}
	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set[versionColumn] = expected + 1

	res := db.Table(table).
		Where("id = ? AND "+versionColumn+" = ?", id, expected).
		Updates(set)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess converts a failed compare-and-set into a conflict.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}

func RequireVersionMatch(current, expected int) error {
	if expected < 0 {
		return ValidationError("expected version must be >= 0")
	}
	if current != expected {
		return ConflictError("version mismatch")
	}
	return nil
}
