package helper

import (
	"encoding/json"
	"testing"
	"time"

	"quicksports/constants"
	"quicksports/engine"
	"quicksports/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB builds an in-memory database with only the given tables, so a
// test can simulate a broken store by leaving one of them out.
func openTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func seedConfirmedBooking(t *testing.T, db *gorm.DB) *model.Booking {
	t.Helper()
	start := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	booking := model.Booking{
		PublicCode:  "BKG-TESTCODE",
		UserId:      7,
		CourtId:     3,
		BookingDate: start.Truncate(24 * time.Hour),
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		TotalAmount: 1000,
		Status:      engine.BookingConfirmed,
	}
	require.NoError(t, db.Create(&booking).Error)
	return &booking
}

func cancelDecision(bookingId uint, at time.Time) engine.Decision {
	reason := "Cancelled by user #7"
	return engine.Decision{
		Status:             engine.BookingCancelled,
		Changed:            true,
		CancelledAt:        &at,
		CancellationReason: &reason,
		SideEffects: []engine.SideEffect{
			{
				Kind: engine.EffectRefundCreate,
				Refund: &engine.RefundInstruction{
					BookingID:      bookingId,
					PaymentID:      11,
					UserID:         7,
					Amount:         500,
					OriginalAmount: 1000,
					Percentage:     50,
					Reason:         reason,
					Notes:          engine.RefundNotes{ActorID: 7, ActorName: "Alex", At: at},
				},
			},
			{
				Kind: engine.EffectNotificationCreate,
				Notification: &engine.NotificationInstruction{
					UserID:  7,
					Type:    constants.NOTIFY_BOOKING_CANCELLED,
					Title:   "Booking cancelled",
					Message: "Your booking BKG-TESTCODE was cancelled",
					Data:    map[string]any{"bookingId": bookingId},
				},
			},
		},
	}
}

func TestApplyBookingDecisionPersistsTransitionAndEffects(t *testing.T) {
	db := openTestDB(t, &model.Booking{}, &model.Refund{}, &model.Notification{})
	booking := seedConfirmedBooking(t, db)
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	warnings, err := ApplyBookingDecision(db, booking, cancelDecision(booking.ID, at))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	var stored model.Booking
	require.NoError(t, db.First(&stored, booking.ID).Error)
	assert.Equal(t, engine.BookingCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, "Cancelled by user #7", *stored.CancellationReason)

	var refund model.Refund
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&refund).Error)
	assert.Equal(t, engine.RefundPending, refund.Status)
	assert.Equal(t, 500.0, refund.Amount)
	assert.Equal(t, 50, refund.RefundPercentage)

	var notes engine.RefundNotes
	require.NoError(t, json.Unmarshal([]byte(refund.Notes), &notes))
	assert.Equal(t, uint(7), notes.ActorID)
	assert.Equal(t, "Alex", notes.ActorName)

	var notification model.Notification
	require.NoError(t, db.Where("user_id = ?", 7).First(&notification).Error)
	assert.Equal(t, constants.NOTIFY_BOOKING_CANCELLED, notification.Type)
}

// A failing refund write must not roll back the committed transition, and the
// remaining effects still run. The refunds table is simply absent here.
func TestApplyBookingDecisionIsolatesRefundFailure(t *testing.T) {
	db := openTestDB(t, &model.Booking{}, &model.Notification{})
	booking := seedConfirmedBooking(t, db)
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	warnings, err := ApplyBookingDecision(db, booking, cancelDecision(booking.ID, at))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "refund record creation failed")

	var stored model.Booking
	require.NoError(t, db.First(&stored, booking.ID).Error)
	assert.Equal(t, engine.BookingCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)

	var notifications int64
	db.Model(&model.Notification{}).Where("user_id = ?", 7).Count(&notifications)
	assert.Equal(t, int64(1), notifications)
}

func TestApplyBookingDecisionNotificationFailureOnly(t *testing.T) {
	db := openTestDB(t, &model.Booking{}, &model.Refund{})
	booking := seedConfirmedBooking(t, db)
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	warnings, err := ApplyBookingDecision(db, booking, cancelDecision(booking.ID, at))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "notification delivery failed")

	var refunds int64
	db.Model(&model.Refund{}).Where("booking_id = ?", booking.ID).Count(&refunds)
	assert.Equal(t, int64(1), refunds)
}

// A decision with Changed false must leave the row alone and produce nothing.
func TestApplyBookingDecisionNoOpWritesNothing(t *testing.T) {
	db := openTestDB(t, &model.Booking{}, &model.Refund{}, &model.Notification{})
	booking := seedConfirmedBooking(t, db)

	warnings, err := ApplyBookingDecision(db, booking, engine.Decision{
		Status:  engine.BookingConfirmed,
		Changed: false,
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	var stored model.Booking
	require.NoError(t, db.First(&stored, booking.ID).Error)
	assert.Equal(t, engine.BookingConfirmed, stored.Status)
	assert.Nil(t, stored.CancelledAt)

	var refunds, notifications int64
	db.Model(&model.Refund{}).Count(&refunds)
	db.Model(&model.Notification{}).Count(&notifications)
	assert.Equal(t, int64(0), refunds)
	assert.Equal(t, int64(0), notifications)
}

func TestCreateNotificationGatesUnknownTypes(t *testing.T) {
	db := openTestDB(t, &model.Notification{})

	require.NoError(t, CreateNotification(db, &engine.NotificationInstruction{
		UserID: 4,
		Type:   constants.NOTIFY_PAYMENT_RECEIVED,
		Title:  "Payment received",
	}))
	require.NoError(t, CreateNotification(db, &engine.NotificationInstruction{
		UserID: 4,
		Type:   "SOMETHING_NEW",
		Title:  "Odd one",
	}))

	var rows []model.Notification
	require.NoError(t, db.Where("user_id = ?", 4).Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, constants.NOTIFY_PAYMENT_RECEIVED, rows[0].Type)
	assert.Equal(t, constants.NOTIFY_SYSTEM_ALERT, rows[1].Type)
}
