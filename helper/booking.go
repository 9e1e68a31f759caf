package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/engine"
	"quicksports/model"
	"quicksports/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func GenerateBookingCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "BKG-" + id[:8]
}

func GeneratePaymentCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "PAY-" + id[:8]
}

// EngineBooking maps a stored booking to the engine's view of it.
func EngineBooking(b model.Booking) engine.Booking {
	return engine.Booking{
		ID:          b.ID,
		UserID:      b.UserId,
		Status:      b.Status,
		StartAt:     b.StartTime,
		TotalAmount: b.TotalAmount,
	}
}

func EnginePayment(p *model.Payment) *engine.Payment {
	if p == nil || p.ID == 0 {
		return nil
	}
	return &engine.Payment{ID: p.ID, Status: p.Status, Amount: p.Amount}
}

// ApplyBookingDecision persists an engine decision: the status mutation goes
// through one transaction, then each side effect runs on its own. A failing
// side effect is logged and reported as a warning, never rolled back into the
// committed transition.
func ApplyBookingDecision(db *gorm.DB, booking *model.Booking, decision engine.Decision) ([]string, error) {
	if decision.Changed {
		updates := map[string]interface{}{"status": decision.Status}
		if decision.ConfirmedAt != nil {
			updates["confirmed_at"] = decision.ConfirmedAt
		}
		if decision.CancelledAt != nil {
			updates["cancelled_at"] = decision.CancelledAt
		}
		if decision.CancellationReason != nil {
			updates["cancellation_reason"] = decision.CancellationReason
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Model(booking).Updates(updates).Error
		})
		if err != nil {
			return nil, err
		}

		booking.Status = decision.Status
		if decision.ConfirmedAt != nil {
			booking.ConfirmedAt = decision.ConfirmedAt
		}
		if decision.CancelledAt != nil {
			booking.CancelledAt = decision.CancelledAt
		}
		if decision.CancellationReason != nil {
			booking.CancellationReason = decision.CancellationReason
		}
	}

	return ExecuteSideEffects(db, decision.SideEffects), nil
}

// ExecuteSideEffects runs each instruction independently and collects
// warnings for the ones that failed, with enough context to reconcile by hand.
func ExecuteSideEffects(db *gorm.DB, effects []engine.SideEffect) []string {
	var warnings []string

	for _, effect := range effects {
		switch effect.Kind {
		case engine.EffectRefundCreate:
			if err := createRefund(db, effect.Refund); err != nil {
				log.Printf("Refund creation failed (booking=%d payment=%d amount=%.2f): %v",
					effect.Refund.BookingID, effect.Refund.PaymentID, effect.Refund.Amount, err)
				warnings = append(warnings, fmt.Sprintf("refund record creation failed for booking %d", effect.Refund.BookingID))
			}
		case engine.EffectNotificationCreate:
			if err := CreateNotification(db, effect.Notification); err != nil {
				log.Printf("Notification creation failed (user=%d type=%s): %v",
					effect.Notification.UserID, effect.Notification.Type, err)
				warnings = append(warnings, fmt.Sprintf("notification delivery failed for user %d", effect.Notification.UserID))
			}
		}
	}

	return warnings
}

func createRefund(db *gorm.DB, ins *engine.RefundInstruction) error {
	notes, err := json.Marshal(ins.Notes)
	if err != nil {
		return err
	}
	refund := model.Refund{
		BookingId:        ins.BookingID,
		PaymentId:        ins.PaymentID,
		UserId:           ins.UserID,
		Amount:           ins.Amount,
		OriginalAmount:   ins.OriginalAmount,
		RefundPercentage: ins.Percentage,
		Reason:           ins.Reason,
		Status:           engine.RefundPending,
		Notes:            string(notes),
	}
	return db.Create(&refund).Error
}

func CreateNotification(db *gorm.DB, ins *engine.NotificationInstruction) error {
	data, err := json.Marshal(ins.Data)
	if err != nil {
		return err
	}
	// instructions carry free-form type strings; anything the app does not
	// recognise is filed as a system alert instead of polluting the type set
	typ := ins.Type
	if !utils.IsValidValueOfConstant(typ, constants.NotificationTypes) {
		typ = constants.NOTIFY_SYSTEM_ALERT
	}
	notification := model.Notification{
		UserId:  ins.UserID,
		Type:    typ,
		Title:   ins.Title,
		Message: ins.Message,
		Data:    string(data),
	}
	return db.Create(&notification).Error
}

// CourtAvailability is one court's booked slots for a given date.
type CourtAvailability struct {
	CourtId      uint    `json:"courtId"`
	CourtName    string  `json:"courtName"`
	SportType    string  `json:"sportType"`
	PricePerHour float64 `json:"pricePerHour"`
	BookedSlots  []Slot  `json:"bookedSlots"`
}

type Slot struct {
	Start string `json:"start"` // 15:04
	End   string `json:"end"`
}

// FetchVenueAvailability lists active courts of a venue with the hour ranges
// already taken (PENDING or CONFIRMED) on the given date.
func FetchVenueAvailability(venueId uint, date time.Time) ([]CourtAvailability, error) {
	db := database.DB

	var courts []model.Court
	if err := db.Where("venue_id = ? AND is_active = ?", venueId, true).Order("id").Find(&courts).Error; err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	result := make([]CourtAvailability, 0, len(courts))
	for _, court := range courts {
		var bookings []model.Booking
		if err := db.Where("court_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			court.ID, []engine.BookingStatus{engine.BookingPending, engine.BookingConfirmed}, dayStart, dayEnd).
			Order("start_time").Find(&bookings).Error; err != nil {
			return nil, err
		}

		slots := make([]Slot, 0, len(bookings))
		for _, b := range bookings {
			slots = append(slots, Slot{Start: b.StartTime.Format("15:04"), End: b.EndTime.Format("15:04")})
		}

		result = append(result, CourtAvailability{
			CourtId:      court.ID,
			CourtName:    court.Name,
			SportType:    court.SportType,
			PricePerHour: court.PricePerHour,
			BookedSlots:  slots,
		})
	}

	return result, nil
}

// PublishVenueAvailability pushes the current availability of a venue to the
// redis channel backing the live websocket.
func PublishVenueAvailability(venueId uint, date time.Time) {
	availability, err := FetchVenueAvailability(venueId, date)
	if err != nil {
		log.Printf("Availability fetch failed for venue %d: %v", venueId, err)
		return
	}

	payload, err := json.Marshal(fiberMapAvailability(venueId, date, availability))
	if err != nil {
		return
	}

	if database.Redis == nil {
		return
	}
	if err := database.Redis.Publish(context.Background(), fmt.Sprintf("venue:%d", venueId), payload).Err(); err != nil {
		log.Printf("Availability publish failed for venue %d: %v", venueId, err)
	}
}

func fiberMapAvailability(venueId uint, date time.Time, availability []CourtAvailability) map[string]interface{} {
	return map[string]interface{}{
		"venueId": venueId,
		"date":    date.Format("2006-01-02"),
		"courts":  availability,
	}
}

// HasBookingConflict checks overlap against PENDING/CONFIRMED bookings of a court.
func HasBookingConflict(db *gorm.DB, courtId uint, start, end time.Time) (bool, error) {
	var count int64
	err := db.Model(&model.Booking{}).
		Where("court_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			courtId, []engine.BookingStatus{engine.BookingPending, engine.BookingConfirmed}, end, start).
		Count(&count).Error
	return count > 0, err
}
