package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

const clientBuffer = 16

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	once     sync.Once
	Logger   *logger.Logger
}

// Done is closed when the hub drops the client.
func (c *SSEClient) Done() <-chan struct{} {
	return c.done
}
