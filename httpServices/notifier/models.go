package notifier

import "time"

// CheckinReminder is sent the day before sailing.
type CheckinReminder struct {
	Phone       string    `json:"phone"`
	Name        string    `json:"name"`
	BookingCode string    `json:"booking_code"`
	RouteName   string    `json:"route_name"`
	SailingDate time.Time `json:"sailing_date"`
}

// BoardingReminder is sent shortly before departure on sailing day.
type BoardingReminder struct {
	Phone         string `json:"phone"`
	Name          string `json:"name"`
	BookingCode   string `json:"booking_code"`
	RouteName     string `json:"route_name"`
	DepartureTime string `json:"departure_time"`
	HoursLeft     int    `json:"hours_left"`
}

// PaymentReminder is sent before a pending payment expires.
type PaymentReminder struct {
	Phone       string    `json:"phone"`
	Name        string    `json:"name"`
	BookingCode string    `json:"booking_code"`
	Amount      int64     `json:"amount"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SendResponse is the channel provider's acknowledgement.
type SendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}
