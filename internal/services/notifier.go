package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/pathways-backend/internal/domain"
	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/observability"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime"
)

// JourneySink receives committed journey snapshots, e.g. the Kafka publisher.
type JourneySink interface {
	Publish(ctx context.Context, s *types.JourneySnapshot) error
}

// ProgressNotifier fans out post-commit side effects. Failures are logged and
// never reach the caller; the write has already committed. SSE events are
// emitted inline. Journey snapshots are queued and published in commit order
// by one background worker, so a slow sink never delays the response.
type ProgressNotifier interface {
	ProgressUpdated(ctx context.Context, userID uuid.UUID, res domainagg.ToggleMilestoneResult)
	ProgressReset(ctx context.Context, userID uuid.UUID)
	OnboardingCompleted(ctx context.Context, userID uuid.UUID, resp *types.OnboardingResponse)
	// Flush waits until every snapshot queued before the call was handed to the sink.
	Flush(ctx context.Context) error
	// Close flushes the queue and stops the worker. Later snapshots are dropped.
	Close(ctx context.Context) error
}

const journeyQueueSize = 1024

type journeyJob struct {
	ctx    context.Context
	userID uuid.UUID
	snap   *types.JourneySnapshot
	done   chan struct{}
}

type progressNotifier struct {
	log     *logger.Logger
	emit    SSEEmitter
	journey JourneySink
	metrics *observability.Metrics
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	queue   chan journeyJob
	stopped chan struct{}
}

func NewProgressNotifier(log *logger.Logger, emit SSEEmitter, journey JourneySink, metrics *observability.Metrics) ProgressNotifier {
	n := &progressNotifier{
		log:     logger.OrNop(log).With("service", "ProgressNotifier"),
		emit:    emit,
		journey: journey,
		metrics: metrics,
		timeout: 5 * time.Second,
	}
	if journey != nil {
		n.queue = make(chan journeyJob, journeyQueueSize)
		n.stopped = make(chan struct{})
		go n.runJourneyWorker()
	}
	return n
}

func (n *progressNotifier) runJourneyWorker() {
	defer close(n.stopped)
	for job := range n.queue {
		if job.done != nil {
			close(job.done)
			continue
		}
		n.publishJourney(job)
	}
}

func (n *progressNotifier) publishJourney(job journeyJob) {
	ctx, cancel := n.detached(job.ctx)
	defer cancel()
	if err := n.journey.Publish(ctx, job.snap); err != nil {
		n.metrics.IncJourneyPublish("error")
		n.log.Warn("journey publish failed", "user_id", job.userID, "snapshot_id", job.snap.ID, "error", err)
		return
	}
	n.metrics.IncJourneyPublish("ok")
}

// enqueueJourney never blocks; a full queue drops the snapshot. The snapshot
// itself is already durable in journey history.
func (n *progressNotifier) enqueueJourney(ctx context.Context, userID uuid.UUID, snap *types.JourneySnapshot) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.metrics.IncJourneyPublish("dropped")
		n.log.Warn("journey publish skipped after close", "user_id", userID, "snapshot_id", snap.ID)
		return
	}
	select {
	case n.queue <- journeyJob{ctx: context.WithoutCancel(ctx), userID: userID, snap: snap}:
	default:
		n.metrics.IncJourneyPublish("dropped")
		n.log.Warn("journey queue full, snapshot not published", "user_id", userID, "snapshot_id", snap.ID)
	}
}

func (n *progressNotifier) Flush(ctx context.Context) error {
	if n == nil || n.queue == nil {
		return nil
	}
	done := make(chan struct{})
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return nil
	}
	select {
	case n.queue <- journeyJob{done: done}:
		n.mu.RUnlock()
	case <-ctx.Done():
		n.mu.RUnlock()
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *progressNotifier) Close(ctx context.Context) error {
	if n == nil || n.queue == nil {
		return nil
	}
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	select {
	case <-n.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// detached keeps request cancellation from dropping side effects of a
// committed write.
func (n *progressNotifier) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
}

func (n *progressNotifier) ProgressUpdated(ctx context.Context, userID uuid.UUID, res domainagg.ToggleMilestoneResult) {
	if n == nil || userID == uuid.Nil {
		return
	}
	if n.emit != nil {
		ctx, cancel := n.detached(ctx)
		defer cancel()
		n.emit.Emit(ctx, realtime.SSEMessage{
			Channel: userID.String(),
			Event:   realtime.SSEEventProgressUpdated,
			Data: map[string]any{
				"milestone_id":            res.MilestoneID,
				"isComplete":              res.IsComplete,
				"action":                  res.Action,
				"completed_milestone_ids": res.CompletedMilestones,
				"stage_progress":          res.StageProgress,
			},
		})
	}
	if n.queue != nil && res.Snapshot != nil {
		n.enqueueJourney(ctx, userID, res.Snapshot)
	}
}

func (n *progressNotifier) ProgressReset(ctx context.Context, userID uuid.UUID) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	ctx, cancel := n.detached(ctx)
	defer cancel()
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventProgressReset,
		Data:    map[string]any{"completed_milestones": []string{}},
	})
}

func (n *progressNotifier) OnboardingCompleted(ctx context.Context, userID uuid.UUID, resp *types.OnboardingResponse) {
	if n == nil || n.emit == nil || userID == uuid.Nil || resp == nil {
		return
	}
	ctx, cancel := n.detached(ctx)
	defer cancel()
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventOnboardingCompleted,
		Data: map[string]any{
			"id":                 resp.ID,
			"recommendedStageId": resp.RecommendedStageID,
		},
	})
}
