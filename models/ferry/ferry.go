package ferry

import "time"

// Ferry represents a vessel with per-class capacities. The five capacity
// classes bound the counters on every schedule date sailed by this ferry.
type Ferry struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null;unique" json:"name"`

	PassengerCapacity  int `gorm:"not null" json:"passenger_capacity"`
	MotorcycleCapacity int `gorm:"not null;default:0" json:"motorcycle_capacity"`
	CarCapacity        int `gorm:"not null;default:0" json:"car_capacity"`
	BusCapacity        int `gorm:"not null;default:0" json:"bus_capacity"`
	TruckCapacity      int `gorm:"not null;default:0" json:"truck_capacity"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// CapacityFor returns the capacity for one class name as used by the
// capacity ledger. Unknown classes report zero capacity.
func (f *Ferry) CapacityFor(class string) int {
	switch class {
	case ClassPassenger:
		return f.PassengerCapacity
	case ClassMotorcycle:
		return f.MotorcycleCapacity
	case ClassCar:
		return f.CarCapacity
	case ClassBus:
		return f.BusCapacity
	case ClassTruck:
		return f.TruckCapacity
	default:
		return 0
	}
}

// Capacity class names shared by ferries, schedule date counters and
// booking vehicle records.
const (
	ClassPassenger  = "passenger"
	ClassMotorcycle = "motorcycle"
	ClassCar        = "car"
	ClassBus        = "bus"
	ClassTruck      = "truck"
)

// VehicleClasses lists the four vehicle classes (everything except passenger).
func VehicleClasses() []string {
	return []string{ClassMotorcycle, ClassCar, ClassBus, ClassTruck}
}
