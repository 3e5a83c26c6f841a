package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	// closed is guarded by the hub mutex. A closed client accepts no new
	// channels and no messages.
	closed bool
	Logger *logger.Logger
}
