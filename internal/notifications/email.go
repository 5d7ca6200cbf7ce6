package notifications

import (
	"bytes"
	"fmt"
	"html/template"

	"stayhub/pkg/model"
)

// confirmationTemplate renders the booking confirmation mail body.
var confirmationTemplate = template.Must(template.New("booking_confirmed").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
      <h2 style="color: #2c3e50;">Booking Confirmed</h2>
      <p>Hi {{.Username}},</p>
      <p>Your booking at <strong>{{.HotelName}}</strong> is confirmed. Here are the details:</p>
      <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
        <tr><td style="padding: 8px; border-bottom: 1px solid #eee;"><strong>Hotel</strong></td><td style="padding: 8px; border-bottom: 1px solid #eee;">{{.HotelName}}, {{.HotelAddress}}, {{.HotelCity}}</td></tr>
        <tr><td style="padding: 8px; border-bottom: 1px solid #eee;"><strong>Room type</strong></td><td style="padding: 8px; border-bottom: 1px solid #eee;">{{.RoomType}}</td></tr>
        <tr><td style="padding: 8px; border-bottom: 1px solid #eee;"><strong>Guests</strong></td><td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Guests}}</td></tr>
        <tr><td style="padding: 8px; border-bottom: 1px solid #eee;"><strong>Check-in</strong></td><td style="padding: 8px; border-bottom: 1px solid #eee;">{{.CheckIn}}</td></tr>
        <tr><td style="padding: 8px; border-bottom: 1px solid #eee;"><strong>Check-out</strong></td><td style="padding: 8px; border-bottom: 1px solid #eee;">{{.CheckOut}}</td></tr>
        <tr><td style="padding: 8px; border-bottom: 1px solid #eee;"><strong>Total price</strong></td><td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Currency}}{{.TotalPrice}}</td></tr>
        <tr><td style="padding: 8px;"><strong>Payment</strong></td><td style="padding: 8px;">{{.PaymentStatus}}</td></tr>
      </table>
      <p>Booking reference: <strong>{{.BookingID}}</strong></p>
      <p style="color: #7f8c8d; font-size: 12px; margin-top: 30px;">This is an automated message, please do not reply.</p>
    </div>
  </body>
</html>`))

type confirmationData struct {
	Username      string
	HotelName     string
	HotelAddress  string
	HotelCity     string
	RoomType      string
	Guests        int
	CheckIn       string
	CheckOut      string
	TotalPrice    string
	Currency      string
	PaymentStatus string
	BookingID     string
}

// RenderConfirmation produces the subject and HTML body for a booking
// confirmation event.
func RenderConfirmation(event *model.BookingConfirmed, currency string) (subject, body string, err error) {
	data := confirmationData{
		Username:      event.Username,
		HotelName:     event.HotelName,
		HotelAddress:  event.HotelAddress,
		HotelCity:     event.HotelCity,
		RoomType:      event.RoomType,
		Guests:        event.Guests,
		CheckIn:       event.CheckInDate.Format("Mon, 02 Jan 2006"),
		CheckOut:      event.CheckOutDate.Format("Mon, 02 Jan 2006"),
		TotalPrice:    fmt.Sprintf("%.2f", event.TotalPrice),
		Currency:      currency,
		PaymentStatus: paymentStatus(event.IsPaid),
		BookingID:     event.BookingID,
	}
	if data.Username == "" {
		data.Username = "Guest"
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render confirmation email: %w", err)
	}

	subject = fmt.Sprintf("Booking confirmed at %s", event.HotelName)
	return subject, buf.String(), nil
}

func paymentStatus(paid bool) string {
	if paid {
		return "Paid"
	}
	return "Pay at property"
}
