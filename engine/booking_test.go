package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func confirmedBooking(startIn time.Duration, amount float64) Booking {
	return Booking{
		ID:          42,
		UserID:      7,
		Status:      BookingConfirmed,
		StartAt:     testNow.Add(startIn),
		TotalAmount: amount,
	}
}

func completedPayment(amount float64) *Payment {
	return &Payment{ID: 9, Status: PaymentCompleted, Amount: amount}
}

func TestRefundTiers(t *testing.T) {
	tests := []struct {
		name       string
		startIn    time.Duration
		wantPct    int
		wantAmount float64
		wantPolicy string
	}{
		{"exactly 24h is full refund", 24 * time.Hour, 100, 1000, PolicyFullRefund},
		{"just under 24h drops to partial", 24*time.Hour - time.Minute, 50, 500, PolicyPartialRefund},
		{"48h ahead is full refund", 48 * time.Hour, 100, 1000, PolicyFullRefund},
		{"exactly 2h is partial", 2 * time.Hour, 50, 500, PolicyPartialRefund},
		{"1h59m floors to 1h, no refund", 2*time.Hour - time.Minute, 0, 0, PolicyNoRefund},
		{"30 minutes before start", 30 * time.Minute, 0, 0, PolicyNoRefund},
		{"already started", -time.Hour, 0, 0, PolicyNoRefund},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := confirmedBooking(tt.startIn, 1000)
			eligibility, err := ComputeRefundEligibility(booking, *completedPayment(1000), testNow)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPct, eligibility.Percentage)
			assert.Equal(t, tt.wantAmount, eligibility.Amount)
			assert.Equal(t, tt.wantPolicy, eligibility.Policy)
			assert.Equal(t, tt.wantPct > 0, eligibility.Eligible)
		})
	}
}

func TestRefundAmountRounding(t *testing.T) {
	booking := confirmedBooking(5*time.Hour, 333.33)
	eligibility, err := ComputeRefundEligibility(booking, *completedPayment(333.33), testNow)
	require.NoError(t, err)

	// half of 333.33 rounds to cents
	assert.Equal(t, 166.67, eligibility.Amount)
}

func TestComputeRefundEligibilityRequiresConfirmed(t *testing.T) {
	booking := confirmedBooking(48*time.Hour, 1000)
	booking.Status = BookingPending

	_, err := ComputeRefundEligibility(booking, *completedPayment(1000), testNow)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidState))
}

func TestComputeRefundEligibilityRequiresCompletedPayment(t *testing.T) {
	booking := confirmedBooking(48*time.Hour, 1000)
	payment := Payment{ID: 9, Status: PaymentPending, Amount: 1000}

	_, err := ComputeRefundEligibility(booking, payment, testNow)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidState))
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	for _, status := range []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted} {
		booking := confirmedBooking(48*time.Hour, 1000)
		booking.Status = status

		decision, err := Transition(booking, nil, TransitionRequest{To: status}, testNow)
		require.NoError(t, err, "status %s", status)
		assert.False(t, decision.Changed)
		assert.Equal(t, status, decision.Status)
	}
}

func TestTransitionTerminalStatesAreImmutable(t *testing.T) {
	targets := []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted}
	for _, from := range []BookingStatus{BookingCancelled, BookingCompleted} {
		for _, to := range targets {
			if to == from {
				continue
			}
			booking := confirmedBooking(48*time.Hour, 1000)
			booking.Status = from

			_, err := Transition(booking, nil, TransitionRequest{To: to}, testNow)
			require.Error(t, err, "%s -> %s", from, to)
			assert.True(t, IsKind(err, KindInvalidTransition))
		}
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	booking := confirmedBooking(48*time.Hour, 1000)

	_, err := Transition(booking, nil, TransitionRequest{To: "ARCHIVED"}, testNow)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidTransition))
}

func TestTransitionConfirmStampsTimestamp(t *testing.T) {
	booking := confirmedBooking(48*time.Hour, 1000)
	booking.Status = BookingPending

	decision, err := Transition(booking, nil, TransitionRequest{To: BookingConfirmed, NotifyUser: true}, testNow)
	require.NoError(t, err)

	assert.True(t, decision.Changed)
	require.NotNil(t, decision.ConfirmedAt)
	assert.Equal(t, testNow, *decision.ConfirmedAt)
	require.Len(t, decision.SideEffects, 1)
	assert.Equal(t, EffectNotificationCreate, decision.SideEffects[0].Kind)
	assert.Equal(t, "BOOKING_CONFIRMED", decision.SideEffects[0].Notification.Type)
}

func TestTransitionConfirmedBackToPending(t *testing.T) {
	booking := confirmedBooking(48*time.Hour, 1000)

	decision, err := Transition(booking, nil, TransitionRequest{To: BookingPending}, testNow)
	require.NoError(t, err)
	assert.True(t, decision.Changed)
	assert.Equal(t, BookingPending, decision.Status)
}

func TestCancel23HoursBeforeYieldsHalfRefund(t *testing.T) {
	booking := confirmedBooking(23*time.Hour, 1000)

	decision, err := Transition(booking, completedPayment(1000), TransitionRequest{
		To:         BookingCancelled,
		Reason:     "change of plans",
		NotifyUser: true,
		ActorID:    7,
	}, testNow)
	require.NoError(t, err)

	assert.True(t, decision.Changed)
	assert.Equal(t, BookingCancelled, decision.Status)
	require.NotNil(t, decision.CancelledAt)
	require.NotNil(t, decision.CancellationReason)
	assert.Equal(t, "change of plans", *decision.CancellationReason)

	// refund first, then notification
	require.Len(t, decision.SideEffects, 2)

	refund := decision.SideEffects[0]
	assert.Equal(t, EffectRefundCreate, refund.Kind)
	require.NotNil(t, refund.Refund)
	assert.Equal(t, 500.0, refund.Refund.Amount)
	assert.Equal(t, 1000.0, refund.Refund.OriginalAmount)
	assert.Equal(t, 50, refund.Refund.Percentage)
	assert.Equal(t, PolicyPartialRefund, refund.Refund.Notes.Policy)
	assert.False(t, refund.Refund.Notes.OverrideApplied)

	notification := decision.SideEffects[1]
	assert.Equal(t, EffectNotificationCreate, notification.Kind)
	assert.Equal(t, "BOOKING_CANCELLED", notification.Notification.Type)
}

func TestCancelWithoutCompletedPaymentSkipsRefund(t *testing.T) {
	booking := confirmedBooking(48*time.Hour, 1000)
	booking.Status = BookingPending

	tests := []struct {
		name    string
		payment *Payment
	}{
		{"no payment row", nil},
		{"pending payment", &Payment{ID: 9, Status: PaymentPending, Amount: 1000}},
		{"failed payment", &Payment{ID: 9, Status: PaymentFailed, Amount: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := Transition(booking, tt.payment, TransitionRequest{To: BookingCancelled}, testNow)
			require.NoError(t, err)
			assert.True(t, decision.Changed)
			for _, effect := range decision.SideEffects {
				assert.NotEqual(t, EffectRefundCreate, effect.Kind)
			}
		})
	}
}

func TestCancelInsideNoRefundWindowStillCreatesZeroRefund(t *testing.T) {
	booking := confirmedBooking(time.Hour, 1000)

	decision, err := Transition(booking, completedPayment(1000), TransitionRequest{To: BookingCancelled}, testNow)
	require.NoError(t, err)

	require.Len(t, decision.SideEffects, 1)
	refund := decision.SideEffects[0].Refund
	require.NotNil(t, refund)
	assert.Equal(t, 0.0, refund.Amount)
	assert.Equal(t, 0, refund.Percentage)
	assert.Equal(t, PolicyNoRefund, refund.Notes.Policy)
}

func TestCancelRefundOverride(t *testing.T) {
	booking := confirmedBooking(time.Hour, 1000) // policy would give 0
	override := 750.0

	decision, err := Transition(booking, completedPayment(1000), TransitionRequest{
		To:             BookingCancelled,
		RefundOverride: &override,
		ActorID:        1,
		ActorName:      "Back Office",
	}, testNow)
	require.NoError(t, err)

	require.Len(t, decision.SideEffects, 1)
	refund := decision.SideEffects[0].Refund
	require.NotNil(t, refund)
	assert.Equal(t, 750.0, refund.Amount)
	assert.Equal(t, 75, refund.Percentage)
	assert.True(t, refund.Notes.OverrideApplied)
	assert.Empty(t, refund.Notes.Policy)
	assert.Equal(t, "Back Office", refund.Notes.ActorName)
}

func TestCancelDefaultReasonNamesActor(t *testing.T) {
	booking := confirmedBooking(48*time.Hour, 1000)

	decision, err := Transition(booking, nil, TransitionRequest{
		To:      BookingCancelled,
		ActorID: 7,
	}, testNow)
	require.NoError(t, err)
	require.NotNil(t, decision.CancellationReason)
	assert.Equal(t, "Cancelled by user #7", *decision.CancellationReason)

	named, err := Transition(booking, nil, TransitionRequest{
		To:        BookingCancelled,
		ActorID:   1,
		ActorName: "Alex",
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled by Alex", *named.CancellationReason)
}

func TestAutoCompleteWaitsForStart(t *testing.T) {
	future := confirmedBooking(time.Hour, 1000)
	decision, err := Transition(future, nil, TransitionRequest{To: BookingCompleted, Auto: true}, testNow)
	require.NoError(t, err)
	assert.False(t, decision.Changed)
	assert.Equal(t, BookingConfirmed, decision.Status)

	past := confirmedBooking(-time.Hour, 1000)
	decision, err = Transition(past, nil, TransitionRequest{To: BookingCompleted, Auto: true}, testNow)
	require.NoError(t, err)
	assert.True(t, decision.Changed)
	assert.Equal(t, BookingCompleted, decision.Status)
}

func TestManualCompleteIgnoresStartTime(t *testing.T) {
	future := confirmedBooking(time.Hour, 1000)

	decision, err := Transition(future, nil, TransitionRequest{To: BookingCompleted}, testNow)
	require.NoError(t, err)
	assert.True(t, decision.Changed)
	assert.Equal(t, BookingCompleted, decision.Status)
}
