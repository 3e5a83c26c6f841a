package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/paylink-backend/internal/platform/logger"
	"github.com/yungbote/paylink-backend/internal/realtime"
)

// SnapshotSource is the read side the synchronizer derives state from.
// PaymentRequestService satisfies it.
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, requestID uuid.UUID) (*Snapshot, error)
}

// StatusSynchronizer fans committed settlement state out to every observer
// of a request. Observers get the full current state on subscribe, a fresh
// snapshot after every committed transition, and a distinct settled event
// the one time the request becomes fully paid.
type StatusSynchronizer interface {
	TransitionSink
	Subscribe(ctx context.Context, client *realtime.SSEClient, requestID uuid.UUID) error
	Unsubscribe(client *realtime.SSEClient, requestID uuid.UUID)
}

type statusSynchronizer struct {
	log    *logger.Logger
	hub    *realtime.SSEHub
	source SnapshotSource
	notify PaymentNotifier

	// mu serializes snapshot derivation with enqueue so that, per request,
	// delivery order matches derivation order. Without it a subscribe racing
	// a commit could hand an observer a fresh snapshot followed by a staler
	// one.
	mu sync.Mutex
}

func NewStatusSynchronizer(baseLog *logger.Logger, hub *realtime.SSEHub, source SnapshotSource, notify PaymentNotifier) StatusSynchronizer {
	return &statusSynchronizer{
		log:    baseLog.With("service", "StatusSynchronizer"),
		hub:    hub,
		source: source,
		notify: notify,
	}
}

func (s *statusSynchronizer) Subscribe(ctx context.Context, client *realtime.SSEClient, requestID uuid.UUID) error {
	if s == nil || s.hub == nil || s.source == nil || client == nil || requestID == uuid.Nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Register before deriving: anything committed after this point reaches
	// the client as a broadcast, so there is no missed-update window.
	s.hub.AddChannel(client, requestID.String())

	snap, err := s.source.GetSnapshot(ctx, requestID)
	if err != nil {
		s.hub.RemoveChannel(client, requestID.String())
		return err
	}
	s.hub.Send(client, realtime.SSEMessage{
		Channel: requestID.String(),
		Event:   realtime.SSEEventParticipantStatusChange,
		Data: map[string]any{
			"request_id": requestID,
			"snapshot":   snap,
		},
	})
	return nil
}

func (s *statusSynchronizer) Unsubscribe(client *realtime.SSEClient, requestID uuid.UUID) {
	if s == nil || s.hub == nil || client == nil || requestID == uuid.Nil {
		return
	}
	s.hub.RemoveChannel(client, requestID.String())
}

// OnTransition runs after every committed transition. completed is true only
// for the single commit that flipped the final participant.
func (s *statusSynchronizer) OnTransition(ctx context.Context, requestID, participantID uuid.UUID, completed bool) {
	if s == nil || s.source == nil || requestID == uuid.Nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.source.GetSnapshot(ctx, requestID)
	if err != nil {
		s.log.Warn("failed to derive snapshot after transition",
			"request_id", requestID.String(),
			"participant_id", participantID.String(),
			"error", err,
		)
		return
	}
	if s.notify != nil {
		s.notify.StatusChanged(ctx, requestID, participantID, snap)
		if completed {
			s.notify.RequestSettled(ctx, requestID, snap)
		}
	}
}
