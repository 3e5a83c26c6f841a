package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/paylink-backend/internal/platform/ctxutil"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
	"github.com/yungbote/paylink-backend/internal/realtime"
	"github.com/yungbote/paylink-backend/internal/services"
)

type SSEHandler struct {
	log  *logger.Logger
	hub  *realtime.SSEHub
	sync services.StatusSynchronizer

	mu      sync.Mutex
	clients map[uuid.UUID]*realtime.SSEClient
}

func NewSSEHandler(log *logger.Logger, hub *realtime.SSEHub, statusSync services.StatusSynchronizer) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		sync:    statusSync,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// GET /api/sse/stream?request_id=...
//
// Holds the connection open and streams events. An optional request_id query
// subscribes immediately, before the first flush.
func (h *SSEHandler) Stream(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	client := h.hub.NewSSEClient(userID)

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, client.ID)
		h.mu.Unlock()
		h.hub.CloseClient(client)
	}()

	if raw := c.Query("request_id"); raw != "" {
		requestID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request_id", err)
			return
		}
		if err := h.sync.Subscribe(c.Request.Context(), client, requestID); err != nil {
			RespondAppError(c, err)
			return
		}
	}

	c.Writer.Header().Set("X-SSE-Client-ID", client.ID.String())
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

// POST /api/sse/subscribe  {client_id, request_id}
func (h *SSEHandler) Subscribe(c *gin.Context) {
	client, requestID, ok := h.resolve(c)
	if !ok {
		return
	}
	if err := h.sync.Subscribe(c.Request.Context(), client, requestID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"subscribed": true})
}

// POST /api/sse/unsubscribe  {client_id, request_id}
//
// Safe to call repeatedly, including for subscriptions that never existed.
func (h *SSEHandler) Unsubscribe(c *gin.Context) {
	client, requestID, ok := h.resolve(c)
	if !ok {
		return
	}
	h.sync.Unsubscribe(client, requestID)
	RespondOK(c, gin.H{"unsubscribed": true})
}

func (h *SSEHandler) resolve(c *gin.Context) (*realtime.SSEClient, uuid.UUID, bool) {
	var body struct {
		ClientID  string `json:"client_id"`
		RequestID string `json:"request_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return nil, uuid.Nil, false
	}
	clientID, err := uuid.Parse(body.ClientID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return nil, uuid.Nil, false
	}
	requestID, err := uuid.Parse(body.RequestID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_id", err)
		return nil, uuid.Nil, false
	}

	h.mu.Lock()
	client, found := h.clients[clientID]
	h.mu.Unlock()
	if !found {
		RespondError(c, http.StatusNotFound, "unknown_client", errUnknownClient)
		return nil, uuid.Nil, false
	}
	// Clients belong to the connection that created them.
	if client.UserID != ctxutil.UserID(c.Request.Context()) {
		RespondError(c, http.StatusForbidden, "forbidden", errUnknownClient)
		return nil, uuid.Nil, false
	}
	return client, requestID, true
}
