package booking

import "time"

// Vehicle is one vehicle carried under a booking.
type Vehicle struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"-"`

	Class       string  `gorm:"type:varchar(20);not null" json:"class"`
	PlateNumber string  `gorm:"type:varchar(20);not null" json:"plate_number"`
	OwnerName   *string `gorm:"type:varchar(255)" json:"owner_name,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
