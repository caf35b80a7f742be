package route

import "time"

// Route represents a sailing route between two ports with per-class fares.
type Route struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	OriginPort      string `gorm:"type:varchar(255);not null" json:"origin_port"`
	DestinationPort string `gorm:"type:varchar(255);not null" json:"destination_port"`

	// Fares in the smallest currency unit.
	PassengerFare  int64 `gorm:"not null;default:0" json:"passenger_fare"`
	MotorcycleFare int64 `gorm:"not null;default:0" json:"motorcycle_fare"`
	CarFare        int64 `gorm:"not null;default:0" json:"car_fare"`
	BusFare        int64 `gorm:"not null;default:0" json:"bus_fare"`
	TruckFare      int64 `gorm:"not null;default:0" json:"truck_fare"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
