package helper

import (
	"log"
	"time"

	"quicksports/database"
	"quicksports/engine"
	"quicksports/model"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

var bookingScheduler *cron.Cron
var ratingScheduler gocron.Scheduler

// StartBookingScheduler runs the past-due sweep every 5 minutes.
func StartBookingScheduler() {
	bookingScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := bookingScheduler.AddFunc("*/5 * * * *", AutoCompletePastBookings)
	if err != nil {
		log.Printf("Booking scheduler init error: %v", err)
		return
	}

	bookingScheduler.Start()
	log.Println("Booking scheduler started (every 5 minutes)")
}

func StopBookingScheduler() {
	if bookingScheduler != nil {
		bookingScheduler.Stop()
		log.Println("Booking scheduler stopped")
	}
}

// AutoCompletePastBookings moves CONFIRMED bookings whose slot has ended to
// COMPLETED through the engine's automatic path; future bookings are skipped,
// not failed.
func AutoCompletePastBookings() {
	db := database.DB
	now := time.Now()

	var bookings []model.Booking
	err := db.Where("status = ? AND end_time < ?", engine.BookingConfirmed, now).Find(&bookings).Error
	if err != nil {
		log.Printf("Past-due booking scan failed: %v", err)
		return
	}

	completed := 0
	for _, booking := range bookings {
		decision, err := engine.Transition(EngineBooking(booking), nil, engine.TransitionRequest{
			To:   engine.BookingCompleted,
			Auto: true,
		}, now)
		if err != nil {
			log.Printf("Auto-complete rejected for booking %s: %v", booking.PublicCode, err)
			continue
		}
		if !decision.Changed {
			continue
		}
		if _, err := ApplyBookingDecision(db, &booking, decision); err != nil {
			log.Printf("Auto-complete persist failed for booking %s: %v", booking.PublicCode, err)
			continue
		}
		completed++
	}

	if completed > 0 {
		log.Printf("Auto-completed %d past bookings", completed)
	}
}

// StartRatingScheduler refreshes the per-venue rating cache daily at 00:10.
func StartRatingScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Rating scheduler init error: %v", err)
		return
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 10, 0),
			),
		),
		gocron.NewTask(RefreshAllVenueRatings),
	)
	if err != nil {
		log.Printf("Rating job init error: %v", err)
		return
	}

	s.Start()
	ratingScheduler = s
	log.Println("Rating scheduler started (daily 00:10)")
}

func StopRatingScheduler() {
	if ratingScheduler != nil {
		if err := ratingScheduler.Shutdown(); err != nil {
			log.Printf("Rating scheduler shutdown error: %v", err)
		}
	}
}
