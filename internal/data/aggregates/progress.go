package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/pathways-backend/internal/data/repos"
	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/modules/progress"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
)

const maxMilestoneIDLen = 255

type ProgressAggregateDeps struct {
	Base BaseDeps

	Users      repos.UserRepo
	Milestones repos.MilestoneRepo
	Recorder   *progress.Recorder
}

type progressAggregate struct {
	deps ProgressAggregateDeps
}

func NewProgressAggregate(deps ProgressAggregateDeps) domainagg.ProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "ProgressAggregate")
	return &progressAggregate{deps: deps}
}

func (a *progressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func progressLockKey(userID uuid.UUID) string {
	return "progress:user:" + userID.String()
}

// Toggle runs under the user's lock and inside one transaction: read the
// user, flip the milestone, aggregate over the live catalog, append the
// snapshot, then compare-and-set the user row. Any failure rolls back both
// writes.
func (a *progressAggregate) Toggle(ctx context.Context, in domainagg.ToggleMilestoneInput) (domainagg.ToggleMilestoneResult, error) {
	const op = "Progress.Toggle"
	var out domainagg.ToggleMilestoneResult

	// Ids are opaque: a blank id is rejected but any other value is stored as sent.
	milestoneID := in.MilestoneID
	switch {
	case in.UserID == uuid.Nil:
		return out, MapError(op, ValidationError("user id is required"))
	case strings.TrimSpace(milestoneID) == "":
		return out, MapError(op, ValidationError("milestone id is required"))
	case len(milestoneID) > maxMilestoneIDLen:
		return out, MapError(op, ValidationError("milestone id is too long"))
	}

	err := withUserLock(ctx, a.deps.Base, op, progressLockKey(in.UserID), func(ctx context.Context) error {
		return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
			user, err := a.deps.Users.GetByIDForUpdate(dbc, in.UserID)
			if err != nil {
				return err
			}
			if user == nil {
				return NotFoundError("user not found")
			}

			// nil milestone is fine: unknown ids are recorded under the "unknown" stage
			milestone, err := a.deps.Milestones.GetByID(dbc, milestoneID)
			if err != nil {
				return err
			}

			next, action := progress.Toggle(user.CompletedMilestones, milestoneID)

			refs, err := a.deps.Milestones.ListRefs(dbc)
			if err != nil {
				return err
			}
			stageProgress := progress.Aggregate(refs, next)

			snap, err := a.deps.Recorder.Record(dbc, progress.RecordInput{
				UserID:              user.ID,
				MilestoneID:         milestoneID,
				Milestone:           milestone,
				Action:              action,
				CompletedMilestones: next,
				StageProgress:       stageProgress,
			})
			if err != nil {
				return err
			}

			ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, "users", "progress_version", user.ID, user.ProgressVersion, map[string]any{
				"completed_milestones": datatypes.JSONSlice[string](next),
				"updated_at":           snap.Timestamp,
			})
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(ok, "completed milestones changed concurrently"); err != nil {
				return err
			}

			out = domainagg.ToggleMilestoneResult{
				MilestoneID:         milestoneID,
				IsComplete:          progress.Contains(next, milestoneID),
				Action:              action,
				CompletedMilestones: next,
				StageProgress:       stageProgress,
				Snapshot:            snap,
				AppliedAt:           snap.Timestamp,
			}
			return nil
		})
	})
	if err != nil {
		return domainagg.ToggleMilestoneResult{}, err
	}
	a.deps.Base.Log.Debug("milestone toggled",
		"user_id", in.UserID,
		"milestone_id", milestoneID,
		"action", out.Action,
		"total_completed", len(out.CompletedMilestones),
	)
	return out, nil
}

// Reset clears the completed set. No snapshot is written and history stays.
func (a *progressAggregate) Reset(ctx context.Context, userID uuid.UUID) error {
	const op = "Progress.Reset"
	if userID == uuid.Nil {
		return MapError(op, ValidationError("user id is required"))
	}
	return withUserLock(ctx, a.deps.Base, op, progressLockKey(userID), func(ctx context.Context) error {
		return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
			user, err := a.deps.Users.GetByIDForUpdate(dbc, userID)
			if err != nil {
				return err
			}
			if user == nil {
				return NotFoundError("user not found")
			}
			ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, "users", "progress_version", user.ID, user.ProgressVersion, map[string]any{
				"completed_milestones": datatypes.JSONSlice[string]{},
				"updated_at":           time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			return RequireCASSuccess(ok, "completed milestones changed concurrently")
		})
	})
}
