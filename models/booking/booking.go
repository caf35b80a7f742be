package booking

import (
	"time"

	scheduleModel "ferry-booking/models/schedule"
	"ferry-booking/models/user"
)

// Booking represents a customer's reservation against one schedule date.
// It is created on checkout, mutated only through the state machine, and
// never hard-deleted.
type Booking struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"type:varchar(32);not null;unique" json:"code"`

	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	ScheduleID uint                   `gorm:"not null;index" json:"schedule_id"`
	Schedule   scheduleModel.Schedule `gorm:"foreignKey:ScheduleID" json:"schedule"`

	DepartureDate time.Time `gorm:"type:date;not null;index" json:"departure_date"`

	PassengerCount  int `gorm:"not null;default:0" json:"passenger_count"`
	MotorcycleCount int `gorm:"not null;default:0" json:"motorcycle_count"`
	CarCount        int `gorm:"not null;default:0" json:"car_count"`
	BusCount        int `gorm:"not null;default:0" json:"bus_count"`
	TruckCount      int `gorm:"not null;default:0" json:"truck_count"`

	TotalAmount int64 `gorm:"not null;default:0" json:"total_amount"`

	Status             BookingStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CancellationReason *string       `gorm:"type:varchar(255)" json:"cancellation_reason,omitempty"`

	Tickets  []Ticket  `gorm:"foreignKey:BookingID" json:"tickets,omitempty"`
	Vehicles []Vehicle `gorm:"foreignKey:BookingID" json:"vehicles,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
