package router

import (
	"quicksports/handler"
	"quicksports/middleware"
	"quicksports/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/register", validate.Register(), handler.Register)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Post("/forgot-password", validate.ForgotPassword(), handler.ForgotPassword)
	auth.Post("/reset-password", validate.ResetPassword(), handler.ResetPassword)

	user := v1.Group("/user", logger.New())
	user.Get("/me", middleware.Protected(), handler.Me)
	user.Post("/change-password", middleware.Protected(), validate.ChangePassword(), handler.ChangePassword)
	user.Get("/", middleware.Protected(), middleware.RequireAdmin(), handler.GetUsers)

	// Public browse
	browse := v1.Group("/browse")
	browse.Get("/venues", middleware.OptionalJWT(), handler.BrowseVenues)
	browse.Get("/venues/:slug", middleware.OptionalJWT(), handler.GetVenueDetail)
	browse.Get("/venues/:venueId/reviews", middleware.OptionalJWT(), validate.GetById("venueId"), handler.GetVenueReviews)
	browse.Get("/venues/:venueId/courts", middleware.OptionalJWT(), validate.GetById("venueId"), handler.GetCourtsByVenueId)
	browse.Get("/venues/:venueId/availability", middleware.OptionalJWT(), validate.GetById("venueId"), handler.GetCourtAvailability)
	browse.Get("/venues/:id/live", websocket.New(handler.VenueAvailabilitySocket))

	venue := v1.Group("/venue", logger.New())
	venue.Get("/", middleware.Protected(), middleware.RequireOwnerOrAdmin(), handler.GetVenues)
	venue.Post("/", middleware.Protected(), middleware.RequireOwnerOrAdmin(), validate.CreateVenue(), handler.CreateVenue)
	venue.Put("/:venueId", middleware.Protected(), validate.EditVenue("venueId"), handler.EditVenue)
	venue.Patch("/:venueId/approve", middleware.Protected(), middleware.RequireAdmin(), validate.GetById("venueId"), handler.ApproveVenue)
	venue.Delete("/", middleware.Protected(), validate.Delete(), handler.DeleteVenue)
	venue.Post("/:venueId/photos", middleware.Protected(), validate.GetById("venueId"), handler.UploadVenuePhotos)
	venue.Delete("/photos/:photoId", middleware.Protected(), validate.GetById("photoId"), handler.DeleteVenuePhoto)
	venue.Post("/:venueId/courts", middleware.Protected(), validate.CreateCourt("venueId"), handler.CreateCourt)

	court := v1.Group("/court", logger.New())
	court.Put("/:courtId", middleware.Protected(), validate.EditCourt("courtId"), handler.EditCourt)
	court.Delete("/", middleware.Protected(), validate.Delete(), handler.DeleteCourt)

	booking := v1.Group("/booking", logger.New())
	booking.Post("/", middleware.Protected(), validate.CreateBooking(), handler.CreateBooking)
	booking.Get("/my", middleware.Protected(), handler.GetMyBookings)
	booking.Get("/:bookingCode", middleware.Protected(), handler.GetBookingDetail)
	booking.Get("/:bookingCode/refund-preview", middleware.Protected(), handler.GetRefundPreview)
	booking.Post("/:bookingCode/cancel", middleware.Protected(), validate.CancelBooking(), handler.CancelMyBooking)

	payment := v1.Group("/payment", logger.New())
	payment.Post("/", middleware.Protected(), validate.CreatePayment(), handler.CreatePayment)
	payment.Post("/:paymentId/confirm", middleware.Protected(), middleware.RequireOwnerOrAdmin(), validate.GetById("paymentId"), handler.ConfirmPayment)

	review := v1.Group("/review", logger.New())
	review.Post("/", middleware.Protected(), validate.CreateReview(), handler.CreateReview)
	review.Post("/:reviewId/vote", middleware.Protected(), validate.GetById("reviewId"), handler.VoteHelpful)
	review.Delete("/:reviewId/vote", middleware.Protected(), validate.GetById("reviewId"), handler.UnvoteHelpful)
	review.Post("/:reviewId/flag", middleware.Protected(), validate.FlagReview("reviewId"), handler.FlagReview)
	review.Post("/:reviewId/response", middleware.Protected(), validate.OwnerResponse("reviewId"), handler.AddOwnerResponse)
	review.Put("/:reviewId/response", middleware.Protected(), validate.OwnerResponse("reviewId"), handler.UpdateOwnerResponse)
	review.Delete("/:reviewId/response", middleware.Protected(), validate.GetById("reviewId"), handler.DeleteOwnerResponse)

	notification := v1.Group("/notification", logger.New())
	notification.Get("/", middleware.Protected(), handler.GetMyNotifications)
	notification.Patch("/read-all", middleware.Protected(), handler.MarkAllNotificationsRead)
	notification.Patch("/:notificationId/read", middleware.Protected(), validate.GetById("notificationId"), handler.MarkNotificationRead)

	// Admin and owner back office
	admin := v1.Group("/admin", logger.New())
	admin.Get("/bookings", middleware.Protected(), middleware.RequireOwnerOrAdmin(), handler.GetBookings)
	admin.Patch("/bookings/:bookingId/status", middleware.Protected(), middleware.RequireAdmin(), validate.AdminTransition("bookingId"), handler.TransitionBooking)
	admin.Delete("/bookings/:bookingId", middleware.Protected(), middleware.RequireAdmin(), validate.GetById("bookingId"), handler.ForceDeleteBooking)
	admin.Get("/refunds", middleware.Protected(), middleware.RequireAdmin(), handler.GetRefunds)
	admin.Get("/reviews/queue", middleware.Protected(), middleware.RequireAdmin(), handler.GetModerationQueue)
	admin.Patch("/reviews/:reviewId/moderate", middleware.Protected(), middleware.RequireAdmin(), validate.ModerateReview("reviewId"), handler.ModerateReview)

	statistic := v1.Group("/statistic", logger.New())
	statistic.Get("/", middleware.Protected(), middleware.RequireAdmin(), handler.GetAdminStats)
	statistic.Get("/top-venues", middleware.Protected(), middleware.RequireAdmin(), handler.GetTopVenues)
	statistic.Get("/owner", middleware.Protected(), middleware.RequireOwnerOrAdmin(), handler.GetOwnerStats)

	v1.Post("/cloudinary-signature", middleware.Protected(), handler.GenerateUploadSignature)
}
