package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

// FailingTxRunner runs the body in a real GORM transaction and then, when
// FailCommit is set, returns it instead of committing so the transaction
// rolls back after every write in the body has succeeded.
type FailingTxRunner struct {
	DB         *gorm.DB
	FailCommit error

	mu            sync.Mutex
	BodyCalls     int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*FailingTxRunner)(nil)

func (r *FailingTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r.mu.Lock()
		r.BodyCalls++
		r.mu.Unlock()
		if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
			r.countRollback()
			return err
		}
		if r.FailCommit != nil {
			r.countRollback()
			return r.FailCommit
		}
		return nil
	})
}

func (r *FailingTxRunner) countRollback() {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
}
