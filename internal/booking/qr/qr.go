package qr

import (
	"encoding/json"
	"time"

	"github.com/skip2/go-qrcode"
)

// Generator renders confirmation QR codes for accepted bookings.
type Generator struct {
	size int
}

func NewGenerator() *Generator {
	return &Generator{size: 256}
}

// ConfirmationPNG encodes the booking reference as a PNG QR code for the
// confirmation screen.
func (g *Generator) ConfirmationPNG(bookingID string, createdAt time.Time) ([]byte, error) {
	payload, err := json.Marshal(struct {
		BookingID string `json:"booking_id"`
		CreatedAt string `json:"created_at"`
	}{
		BookingID: bookingID,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(string(payload), qrcode.Medium, g.size)
}
