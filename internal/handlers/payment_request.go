package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/paylink-backend/internal/platform/ctxutil"
	"github.com/yungbote/paylink-backend/internal/services"
)

var (
	errNotParticipant = errors.New("caller is not a participant on this request")
	errUnknownClient  = errors.New("unknown sse client")
)

type PaymentRequestHandler struct {
	requests   services.PaymentRequestService
	settlement services.SettlementService
	rail       services.PaymentRail
}

func NewPaymentRequestHandler(
	requests services.PaymentRequestService,
	settlement services.SettlementService,
	rail services.PaymentRail,
) *PaymentRequestHandler {
	return &PaymentRequestHandler{
		requests:   requests,
		settlement: settlement,
		rail:       rail,
	}
}

// POST /api/requests
func (h *PaymentRequestHandler) Create(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())

	var input services.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	req, err := h.requests.CreateRequest(c.Request.Context(), userID, input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// GET /api/requests/:id
func (h *PaymentRequestHandler) GetSnapshot(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_id", err)
		return
	}
	snap, err := h.requests.GetSnapshot(c.Request.Context(), requestID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"snapshot": snap})
}

// GET /api/requests
func (h *PaymentRequestHandler) List(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	rows, err := h.requests.ListByRequester(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"requests": rows})
}

// POST /api/requests/:id/pay
//
// Attempts the external rail for the calling participant. A rail failure is
// recorded as FAILED and surfaced; the participant can retry.
func (h *PaymentRequestHandler) Pay(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_id", err)
		return
	}

	var body struct {
		PayeeRef string `json:"payee_ref"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	snap, err := h.requests.GetSnapshot(c.Request.Context(), requestID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var amountOwed int64
	found := false
	for _, p := range snap.Participants {
		if p.ParticipantID == userID {
			amountOwed = p.AmountOwed
			found = true
			break
		}
	}
	if !found {
		RespondError(c, http.StatusNotFound, "not_found", errNotParticipant)
		return
	}

	launch, err := h.rail.AttemptPayment(c.Request.Context(), amountOwed, snap.Request.Currency, body.PayeeRef, snap.Request.Note)
	if err != nil {
		if reportErr := h.settlement.ReportRailFailure(c.Request.Context(), requestID, userID); reportErr != nil {
			RespondAppError(c, reportErr)
			return
		}
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"launch": launch})
}

// POST /api/requests/:id/confirm
func (h *PaymentRequestHandler) Confirm(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_id", err)
		return
	}
	res, err := h.settlement.ConfirmPayment(c.Request.Context(), requestID, userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"ledger_entry_id": res.LedgerEntryID,
		"already_paid":    res.AlreadyPaid,
		"completed":       res.Completed,
	})
}

// POST /api/requests/:id/decline
func (h *PaymentRequestHandler) Decline(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_id", err)
		return
	}
	if err := h.settlement.ReportUserDecline(c.Request.Context(), requestID, userID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"declined": true})
}
