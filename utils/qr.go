package utils

import "github.com/skip2/go-qrcode"

// GenerateQRCode renders a booking check-in payload as a PNG of the given
// pixel size, shown in the booking detail and scanned at the front desk.
func GenerateQRCode(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}
