package services

import (
	"context"

	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime"
	"github.com/yungbote/pathways-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

// HubEmitter delivers to clients connected to this process only.
type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Hub == nil {
		return
	}
	e.Hub.Broadcast(msg)
}

// BusEmitter publishes through the shared bus; every replica's forwarder
// broadcasts into its own hub.
type BusEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Bus == nil {
		return
	}
	if err := e.Bus.Publish(ctx, msg); err != nil {
		logger.OrNop(e.Log).Warn("sse bus publish failed", "event", msg.Event, "error", err)
	}
}
