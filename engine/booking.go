package engine

import (
	"fmt"
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type RefundStatus string

const (
	RefundPending   RefundStatus = "PENDING"
	RefundCompleted RefundStatus = "COMPLETED"
	RefundRejected  RefundStatus = "REJECTED"
)

// Booking is the engine's view of a booking row; the caller loads it from storage.
type Booking struct {
	ID          uint
	UserID      uint
	Status      BookingStatus
	StartAt     time.Time // booking date + start time of day
	TotalAmount float64
}

// Payment is the engine's view of the booking's payment, if any.
type Payment struct {
	ID     uint
	Status PaymentStatus
	Amount float64
}

// Refund policy tiers, keyed by floored hours until the booking starts.
const (
	fullRefundHours    = 24
	partialRefundHours = 2

	PolicyFullRefund    = "Full refund (24+ hours)"
	PolicyPartialRefund = "Partial refund (2-24 hours)"
	PolicyNoRefund      = "No refund (< 2 hours)"
)

type RefundEligibility struct {
	Eligible   bool    `json:"eligible"`
	Percentage int     `json:"percentage"`
	Amount     float64 `json:"amount"`
	Policy     string  `json:"policy"`
}

// ComputeRefundEligibility applies the time-tiered refund policy at the given instant.
// The booking must be CONFIRMED and the payment COMPLETED.
func ComputeRefundEligibility(b Booking, p Payment, now time.Time) (RefundEligibility, error) {
	if b.Status != BookingConfirmed {
		return RefundEligibility{}, newError(KindInvalidState, fmt.Sprintf("booking is %s, refund policy applies to CONFIRMED bookings", b.Status))
	}
	if p.Status != PaymentCompleted {
		return RefundEligibility{}, newError(KindInvalidState, "payment is not completed")
	}
	return refundTier(b.StartAt, p.Amount, now), nil
}

func refundTier(startAt time.Time, totalPaid float64, now time.Time) RefundEligibility {
	hoursUntil := int(math.Floor(startAt.Sub(now).Hours()))

	var pct int
	var policy string
	switch {
	case hoursUntil >= fullRefundHours:
		pct, policy = 100, PolicyFullRefund
	case hoursUntil >= partialRefundHours:
		pct, policy = 50, PolicyPartialRefund
	default:
		pct, policy = 0, PolicyNoRefund
	}

	return RefundEligibility{
		Eligible:   pct > 0,
		Percentage: pct,
		Amount:     roundMoney(totalPaid * float64(pct) / 100),
		Policy:     policy,
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

type SideEffectKind string

const (
	EffectRefundCreate       SideEffectKind = "REFUND_CREATE"
	EffectNotificationCreate SideEffectKind = "NOTIFICATION_CREATE"
)

// SideEffect is a fully resolved instruction for the executor; exactly one
// of Refund / Notification is set, matching Kind.
type SideEffect struct {
	Kind         SideEffectKind
	Refund       *RefundInstruction
	Notification *NotificationInstruction
}

type RefundInstruction struct {
	BookingID      uint
	PaymentID      uint
	UserID         uint
	Amount         float64
	OriginalAmount float64
	Percentage     int
	Reason         string
	Notes          RefundNotes
}

// RefundNotes is the audit trail persisted with the refund row.
type RefundNotes struct {
	ActorID         uint      `json:"actorId"`
	ActorName       string    `json:"actorName"`
	At              time.Time `json:"at"`
	OverrideApplied bool      `json:"overrideApplied"`
	Policy          string    `json:"policy,omitempty"`
}

type NotificationInstruction struct {
	UserID  uint
	Type    string
	Title   string
	Message string
	Data    map[string]any
}

// TransitionRequest describes a requested booking status change.
type TransitionRequest struct {
	To             BookingStatus
	Reason         string   // cancellation reason, optional
	RefundOverride *float64 // admin-chosen refund amount, bypasses the time policy
	NotifyUser     bool
	ActorID        uint
	ActorName      string
	Auto           bool // background evaluation path (auto-complete)
}

// Decision is the computed outcome of a transition: the new status, the
// timestamp fields to stamp and the ordered side effects for the executor.
// Changed=false means an accepted no-op.
type Decision struct {
	Status             BookingStatus
	Changed            bool
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	SideEffects        []SideEffect
}

// Transition computes the status change for b and its side effects. It never
// performs I/O; payment may be nil when the booking has no payment row.
func Transition(b Booking, payment *Payment, req TransitionRequest, now time.Time) (Decision, error) {
	if !req.To.Valid() {
		return Decision{}, newError(KindInvalidTransition, fmt.Sprintf("unknown status %q", req.To))
	}

	// Same-status request is an accepted idempotent no-op, terminal or not.
	if req.To == b.Status {
		return Decision{Status: b.Status, Changed: false}, nil
	}

	if b.Status.IsTerminal() {
		return Decision{}, newError(KindInvalidTransition, fmt.Sprintf("booking is %s and cannot change to %s", b.Status, req.To))
	}

	switch req.To {
	case BookingPending:
		// CONFIRMED -> PENDING is the one permitted backward step.
		return Decision{Status: BookingPending, Changed: true}, nil

	case BookingConfirmed:
		d := Decision{Status: BookingConfirmed, Changed: true, ConfirmedAt: &now}
		if req.NotifyUser {
			d.SideEffects = append(d.SideEffects, confirmedNotification(b))
		}
		return d, nil

	case BookingCancelled:
		return cancelDecision(b, payment, req, now), nil

	case BookingCompleted:
		if req.Auto && b.StartAt.After(now) {
			// Auto-complete only fires once the scheduled start has passed.
			return Decision{Status: b.Status, Changed: false}, nil
		}
		return Decision{Status: BookingCompleted, Changed: true}, nil
	}

	return Decision{}, newError(KindInvalidTransition, fmt.Sprintf("unsupported transition %s -> %s", b.Status, req.To))
}

func cancelDecision(b Booking, payment *Payment, req TransitionRequest, now time.Time) Decision {
	reason := req.Reason
	if reason == "" {
		reason = fmt.Sprintf("Cancelled by %s", actorLabel(req))
	}

	d := Decision{
		Status:             BookingCancelled,
		Changed:            true,
		CancelledAt:        &now,
		CancellationReason: &reason,
	}

	// A refund record is scheduled only when a completed payment exists.
	if payment != nil && payment.Status == PaymentCompleted {
		tier := refundTier(b.StartAt, payment.Amount, now)

		amount := tier.Amount
		policy := tier.Policy
		override := false
		if req.RefundOverride != nil {
			amount = roundMoney(*req.RefundOverride)
			policy = ""
			override = true
		}

		// Recorded percentage always reflects the amount actually used.
		pct := 0
		if payment.Amount > 0 {
			pct = int(math.Round(amount / payment.Amount * 100))
		}

		d.SideEffects = append(d.SideEffects, SideEffect{
			Kind: EffectRefundCreate,
			Refund: &RefundInstruction{
				BookingID:      b.ID,
				PaymentID:      payment.ID,
				UserID:         b.UserID,
				Amount:         amount,
				OriginalAmount: payment.Amount,
				Percentage:     pct,
				Reason:         reason,
				Notes: RefundNotes{
					ActorID:         req.ActorID,
					ActorName:       req.ActorName,
					At:              now,
					OverrideApplied: override,
					Policy:          policy,
				},
			},
		})
	}

	if req.NotifyUser {
		d.SideEffects = append(d.SideEffects, cancelledNotification(b, reason, req.ActorID))
	}

	return d
}

func actorLabel(req TransitionRequest) string {
	if req.ActorName != "" {
		return req.ActorName
	}
	return fmt.Sprintf("user #%d", req.ActorID)
}

func confirmedNotification(b Booking) SideEffect {
	return SideEffect{
		Kind: EffectNotificationCreate,
		Notification: &NotificationInstruction{
			UserID:  b.UserID,
			Type:    "BOOKING_CONFIRMED",
			Title:   "Booking confirmed",
			Message: fmt.Sprintf("Your booking for %s has been confirmed.", b.StartAt.Format("02/01/2006 15:04")),
			Data:    map[string]any{"bookingId": b.ID},
		},
	}
}

func cancelledNotification(b Booking, reason string, actorID uint) SideEffect {
	return SideEffect{
		Kind: EffectNotificationCreate,
		Notification: &NotificationInstruction{
			UserID:  b.UserID,
			Type:    "BOOKING_CANCELLED",
			Title:   "Booking cancelled",
			Message: fmt.Sprintf("Your booking for %s was cancelled. Reason: %s", b.StartAt.Format("02/01/2006 15:04"), reason),
			Data:    map[string]any{"bookingId": b.ID, "adminId": actorID},
		},
	}
}
