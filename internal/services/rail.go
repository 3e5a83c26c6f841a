package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/paylink-backend/internal/platform/apperr"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

// RailLaunch is the advisory outcome of handing a payment to the external
// rail. The rail never writes settlement state; its outcome only drives which
// coordinator operation the client invokes next.
type RailLaunch struct {
	Launched  bool   `json:"launched"`
	Reference string `json:"reference,omitempty"`
}

type PaymentRail interface {
	AttemptPayment(ctx context.Context, amount int64, currency, payeeRef, note string) (*RailLaunch, error)
}

// upiRail builds UPI deep links the client hands to the wallet app. Amounts
// are minor units; UPI wants decimal major units.
type upiRail struct {
	log *logger.Logger
}

func NewUPIRail(log *logger.Logger) PaymentRail {
	return &upiRail{log: log.With("service", "UPIRail")}
}

func (r *upiRail) AttemptPayment(ctx context.Context, amount int64, currency, payeeRef, note string) (*RailLaunch, error) {
	payeeRef = strings.TrimSpace(payeeRef)
	if payeeRef == "" {
		return nil, fmt.Errorf("%w: missing payee reference", apperr.ErrRailUnavailable)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount", apperr.ErrRailUnavailable)
	}

	q := url.Values{}
	q.Set("pa", payeeRef)
	q.Set("am", fmt.Sprintf("%d.%02d", amount/100, amount%100))
	q.Set("cu", strings.ToUpper(strings.TrimSpace(currency)))
	if note = strings.TrimSpace(note); note != "" {
		q.Set("tn", note)
	}
	link := "upi://pay?" + q.Encode()

	r.log.Debug("payment rail launch prepared", "payee", payeeRef, "amount", amount)
	return &RailLaunch{Launched: true, Reference: link}, nil
}
