package booking

import "time"

// BookingLog is an immutable audit entry for one status transition.
// Rows are append-only: never updated, never deleted.
type BookingLog struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"-"`

	PreviousStatus BookingStatus `gorm:"type:varchar(20);not null" json:"previous_status"`
	NewStatus      BookingStatus `gorm:"type:varchar(20);not null" json:"new_status"`

	ActorType ActorType `gorm:"type:varchar(20);not null" json:"actor_type"`
	ActorID   uint      `gorm:"not null;default:0" json:"actor_id"`

	Note      *string `gorm:"type:text" json:"note,omitempty"`
	IPAddress string  `gorm:"type:varchar(45)" json:"ip_address"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingLog model.
func (BookingLog) TableName() string {
	return "booking_logs"
}
