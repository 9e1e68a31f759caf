package constants

// Roles
const (
	ROLE_ADMIN = "ADMIN"
	ROLE_OWNER = "OWNER"
	ROLE_USER  = "USER"
)

var Roles = []string{ROLE_ADMIN, ROLE_OWNER, ROLE_USER}

// Notification types
const (
	NOTIFY_BOOKING_CONFIRMED = "BOOKING_CONFIRMED"
	NOTIFY_BOOKING_CANCELLED = "BOOKING_CANCELLED"
	NOTIFY_REVIEW_APPROVED   = "REVIEW_APPROVED"
	NOTIFY_REVIEW_REJECTED   = "REVIEW_REJECTED"
	NOTIFY_REVIEW_RESPONSE   = "REVIEW_RESPONSE"
	NOTIFY_PAYMENT_RECEIVED  = "PAYMENT_RECEIVED"
	NOTIFY_PAYMENT_REFUNDED  = "PAYMENT_REFUNDED"
	NOTIFY_SYSTEM_ALERT      = "SYSTEM_ALERT"
)

var NotificationTypes = []string{
	NOTIFY_BOOKING_CONFIRMED,
	NOTIFY_BOOKING_CANCELLED,
	NOTIFY_REVIEW_APPROVED,
	NOTIFY_REVIEW_REJECTED,
	NOTIFY_REVIEW_RESPONSE,
	NOTIFY_PAYMENT_RECEIVED,
	NOTIFY_PAYMENT_REFUNDED,
	NOTIFY_SYSTEM_ALERT,
}

// Sports offered on courts
var SportTypes = []string{"BADMINTON", "FUTSAL", "TENNIS", "BASKETBALL", "PICKLEBALL", "TABLE_TENNIS"}

// Response messages
const (
	ERROR_INPUT               = "Invalid input"
	ERROR_INTERNAL_ERROR      = "Internal server error"
	DATA_INPUT_IS_NOT_NUMBER  = "Parameter must be a number"
	NOT_ADMIN                 = "Admin permission required"
	NOT_OWNER                 = "Owner permission required"
	LOGIN_REQUIRED            = "Please login first"
	VENUE_NOT_FOUND           = "Venue not found"
	COURT_NOT_FOUND           = "Court not found"
	BOOKING_NOT_FOUND         = "Booking not found"
	REVIEW_NOT_FOUND          = "Review not found"
	USER_NOT_FOUND            = "User not found"
	PAYMENT_NOT_FOUND         = "Payment not found"
	NOTIFICATION_NOT_FOUND    = "Notification not found"
	VENUE_NAME_EXISTS         = "Venue name already exists"
	EMAIL_EXISTS              = "Email already registered"
	SLOT_NOT_AVAILABLE        = "Time slot is not available"
	ALREADY_REVIEWED          = "You already reviewed this venue"
	CAN_NOT_GET_VENUE         = "No permission to list venues"
	CANCEL_BOOKING_FAILED     = "Cancel booking failed"
	TRANSITION_FAILED         = "Booking status update failed"
	CREATE_NOTIFICATION_ERROR = "Create notification failed"
)
