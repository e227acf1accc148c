package aggregates

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_NotFoundSentinel(t *testing.T) {
	err := MapError("op", NotFoundError("user not found"))
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PgCodes(t *testing.T) {
	cases := map[string]domainagg.ErrorCode{
		"23505": domainagg.CodeConflict,
		"23503": domainagg.CodePreconditionFailed,
		"40001": domainagg.CodeRetryable,
		"40P01": domainagg.CodeRetryable,
		"57P01": domainagg.CodeUnavailable,
		"08006": domainagg.CodeUnavailable,
		"42P01": domainagg.CodeInternal,
	}
	for code, want := range cases {
		err := MapError("op", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: code, Message: "x"}))
		if got := domainagg.CodeOf(err); got != want {
			t.Fatalf("pg code %s: want=%s got=%s", code, want, got)
		}
	}
}

func TestMapError_Unavailable(t *testing.T) {
	for _, in := range []error{
		driver.ErrBadConn,
		errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
		errors.New("sql: database is closed"),
	} {
		if got := domainagg.CodeOf(MapError("op", in)); got != domainagg.CodeUnavailable {
			t.Fatalf("%v: want=unavailable got=%s", in, got)
		}
	}
}

func TestMapError_ContextAndSQLite(t *testing.T) {
	if got := domainagg.CodeOf(MapError("op", context.Canceled)); got != domainagg.CodeRetryable {
		t.Fatalf("canceled: got=%s", got)
	}
	if got := domainagg.CodeOf(MapError("op", errors.New("UNIQUE constraint failed: users.email"))); got != domainagg.CodeConflict {
		t.Fatalf("sqlite unique: got=%s", got)
	}
	if got := domainagg.CodeOf(MapError("op", errors.New("database is locked"))); got != domainagg.CodeRetryable {
		t.Fatalf("sqlite locked: got=%s", got)
	}
}

func TestMapError_WrappedAggregateErrorPassesThrough(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeConflict, "inner", "stale", nil)
	out := MapError("outer", fmt.Errorf("ctx: %w", in))
	if domainagg.CodeOf(out) != domainagg.CodeConflict {
		t.Fatalf("expected conflict passthrough, got=%v", out)
	}
}
