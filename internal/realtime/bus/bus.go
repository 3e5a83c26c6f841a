package bus

import (
	"context"

	"github.com/yungbote/paylink-backend/internal/realtime"
)

// Bus mirrors hub broadcasts across processes. Publish sends a message to
// every process; StartForwarder feeds received messages into the local hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
