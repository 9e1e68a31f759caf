package utils

import (
	"bytes"
	"html/template"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// BookingEmailData feeds the booking confirmation/cancellation templates
type BookingEmailData struct {
	BookingCode  string
	VenueName    string
	CourtName    string
	PlayDate     string
	TimeRange    string
	TotalAmount  float64
	RefundAmount float64
	CancelledAt  string
}

// SendBookingConfirmationEmail sends the confirmation mail (async)
func SendBookingConfirmationEmail(to string, data BookingEmailData) {
	go func() { // async so the response is not delayed
		sendTemplated(to, "templates/booking_confirmation.html", "Booking confirmed #"+data.BookingCode, data)
	}()
}

// SendBookingCancelledEmail sends the cancellation mail with refund detail (async)
func SendBookingCancelledEmail(to string, data BookingEmailData) {
	go func() {
		sendTemplated(to, "templates/booking_cancelled.html", "Booking cancelled #"+data.BookingCode, data)
	}()
}

func sendTemplated(to, tmplPath, subject string, data BookingEmailData) {
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("Email template load error: %v", err)
		return
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		log.Printf("Email template render error: %v", err)
		return
	}

	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	port, _ := strconv.Atoi(portStr)

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(host, port, username, password)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Email send error: %v", err)
	}
}
