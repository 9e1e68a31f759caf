package handler

import (
	"errors"
	"time"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/helper"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
)

// GetAdminStats is the admin dashboard: fleet counts, today's numbers and
// growth versus yesterday.
func GetAdminStats(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}

	db := database.DB

	type Stats struct {
		Venues   int64 `json:"venues"`
		Courts   int64 `json:"courts"`
		Users    int64 `json:"users"`
		Bookings int64 `json:"bookings"`

		TodayRevenue   float64 `json:"todayRevenue"`
		TodayBookings  int64   `json:"todayBookings"`
		PendingReviews int64   `json:"pendingReviews"`
		RevenueGrowth  float64 `json:"revenueGrowth"`  // %
		BookingsGrowth float64 `json:"bookingsGrowth"` // %
	}

	var stats Stats
	today := time.Now().In(time.Local)
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	todayEnd := time.Date(today.Year(), today.Month(), today.Day(), 23, 59, 59, 0, today.Location())

	db.Model(&model.Venue{}).Where("is_approved = ?", true).Count(&stats.Venues)
	db.Model(&model.Court{}).Where("is_active = ?", true).Count(&stats.Courts)
	db.Model(&model.User{}).Where("role = ?", constants.ROLE_USER).Count(&stats.Users)
	db.Model(&model.Booking{}).Count(&stats.Bookings)
	db.Model(&model.Review{}).Where("is_approved = ?", false).Count(&stats.PendingReviews)

	db.Raw(`
        SELECT COALESCE(SUM(amount), 0)
        FROM payments
        WHERE status = 'COMPLETED'
          AND paid_at BETWEEN ? AND ?
    `, todayStart, todayEnd).Scan(&stats.TodayRevenue)

	db.Model(&model.Booking{}).
		Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).
		Count(&stats.TodayBookings)

	yesterdayStart := todayStart.AddDate(0, 0, -1)
	yesterdayEnd := todayEnd.AddDate(0, 0, -1)

	var yesterdayRevenue float64
	var yesterdayBookings int64

	db.Raw(`
        SELECT COALESCE(SUM(amount), 0)
        FROM payments
        WHERE status = 'COMPLETED'
          AND paid_at BETWEEN ? AND ?
    `, yesterdayStart, yesterdayEnd).Scan(&yesterdayRevenue)

	db.Model(&model.Booking{}).
		Where("created_at BETWEEN ? AND ?", yesterdayStart, yesterdayEnd).
		Count(&yesterdayBookings)

	stats.RevenueGrowth = utils.CalculateGrowth(stats.TodayRevenue, yesterdayRevenue)
	stats.BookingsGrowth = utils.CalculateGrowth(float64(stats.TodayBookings), float64(yesterdayBookings))

	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}

// GetTopVenues ranks venues by booking volume over the last 30 days
func GetTopVenues(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}

	db := database.DB

	type TopVenue struct {
		VenueId  uint    `json:"venueId"`
		Name     string  `json:"name"`
		Rating   float64 `json:"rating"`
		Bookings int64   `json:"bookings"`
		Revenue  float64 `json:"revenue"`
	}

	since := time.Now().AddDate(0, 0, -30)

	var top []TopVenue
	db.Raw(`
        SELECT v.id AS venue_id, v.name, v.rating,
               COUNT(b.id) AS bookings,
               COALESCE(SUM(CASE WHEN b.status IN ('CONFIRMED', 'COMPLETED') THEN b.total_amount ELSE 0 END), 0) AS revenue
        FROM venues v
        JOIN courts c ON c.venue_id = v.id
        JOIN bookings b ON b.court_id = c.id
        WHERE b.created_at >= ?
        GROUP BY v.id, v.name, v.rating
        ORDER BY bookings DESC
        LIMIT 10
    `, since).Scan(&top)

	return utils.SuccessResponse(c, fiber.StatusOK, top)
}

// GetOwnerStats is the venue-owner dashboard scoped to the caller's venues
func GetOwnerStats(c *fiber.Ctx) error {
	claim, isAdmin, isOwner := helper.GetInfoUserFromToken(c)
	if !isAdmin && !isOwner {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not permission"))
	}

	db := database.DB

	type OwnerStats struct {
		Venues        int64   `json:"venues"`
		Courts        int64   `json:"courts"`
		MonthBookings int64   `json:"monthBookings"`
		MonthRevenue  float64 `json:"monthRevenue"`
	}

	var stats OwnerStats
	monthStart := time.Now().AddDate(0, 0, -30)

	db.Model(&model.Venue{}).Where("owner_id = ?", claim.UserId).Count(&stats.Venues)
	db.Raw(`
        SELECT COUNT(*)
        FROM courts c
        JOIN venues v ON v.id = c.venue_id
        WHERE v.owner_id = ?
    `, claim.UserId).Scan(&stats.Courts)

	db.Raw(`
        SELECT COUNT(*)
        FROM bookings b
        JOIN courts c ON c.id = b.court_id
        JOIN venues v ON v.id = c.venue_id
        WHERE v.owner_id = ? AND b.created_at >= ?
    `, claim.UserId, monthStart).Scan(&stats.MonthBookings)

	db.Raw(`
        SELECT COALESCE(SUM(b.total_amount), 0)
        FROM bookings b
        JOIN courts c ON c.id = b.court_id
        JOIN venues v ON v.id = c.venue_id
        WHERE v.owner_id = ? AND b.status IN ('CONFIRMED', 'COMPLETED') AND b.created_at >= ?
    `, claim.UserId, monthStart).Scan(&stats.MonthRevenue)

	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}
