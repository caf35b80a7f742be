package booking

import "time"

// Ticket is one passenger seat or vehicle slot inside a booking. Ticket
// status moves in lockstep with the parent booking's status.
type Ticket struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"-"`

	// Class is "passenger" or one of the four vehicle classes.
	Class         string  `gorm:"type:varchar(20);not null" json:"class"`
	PassengerName *string `gorm:"type:varchar(255)" json:"passenger_name,omitempty"`
	SeatNumber    *string `gorm:"type:varchar(10)" json:"seat_number,omitempty"`

	Status         TicketStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CheckedIn      bool         `gorm:"default:false" json:"checked_in"`
	CheckedInAt    *time.Time   `json:"checked_in_at,omitempty"`
	BoardingStatus string       `gorm:"type:varchar(20);not null;default:'NOT_BOARDED'" json:"boarding_status"`
	BoardedAt      *time.Time   `json:"boarded_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
