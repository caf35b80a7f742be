package schedule

import (
	"time"

	"ferry-booking/models/ferry"
	"ferry-booking/models/route"
)

// Schedule represents a recurring sailing: a route served by a ferry at a
// fixed time of day on an operating set of weekdays.
type Schedule struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	RouteID uint        `gorm:"not null;index" json:"route_id"`
	Route   route.Route `gorm:"foreignKey:RouteID" json:"route"`

	FerryID uint        `gorm:"not null;index" json:"ferry_id"`
	Ferry   ferry.Ferry `gorm:"foreignKey:FerryID" json:"ferry"`

	// Times of day in "15:04" format.
	DepartureTime string `gorm:"type:varchar(5);not null" json:"departure_time"`
	ArrivalTime   string `gorm:"type:varchar(5);not null" json:"arrival_time"`

	// DaysOfWeek is a bitmask of operating weekdays, Monday = bit 0.
	DaysOfWeek uint8 `gorm:"not null" json:"days_of_week"`

	Status           Status     `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	StatusReason     *string    `gorm:"type:varchar(255)" json:"status_reason,omitempty"`
	StatusExpiryDate *time.Time `gorm:"index" json:"status_expiry_date,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// OperatesOn reports whether the schedule sails on the given weekday.
func (s *Schedule) OperatesOn(day time.Weekday) bool {
	return s.DaysOfWeek&WeekdayBit(day) != 0
}

// WeekdayBit maps a time.Weekday onto the Monday-first bitmask.
func WeekdayBit(day time.Weekday) uint8 {
	// time.Weekday has Sunday = 0; shift so Monday = bit 0.
	return 1 << uint8((int(day)+6)%7)
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseWeekdays builds the operating-day bitmask from lowercase English
// weekday names.
func ParseWeekdays(names []string) (uint8, bool) {
	var mask uint8
	for _, name := range names {
		day, ok := weekdayNames[name]
		if !ok {
			return 0, false
		}
		mask |= WeekdayBit(day)
	}
	return mask, true
}

// ScheduleDate is one concrete sailing instance of a schedule, carrying its
// own capacity counters and status.
type ScheduleDate struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ScheduleID uint     `gorm:"not null;index;uniqueIndex:uniq_schedule_date" json:"schedule_id"`
	Schedule   Schedule `gorm:"foreignKey:ScheduleID" json:"schedule"`

	Date time.Time `gorm:"type:date;not null;uniqueIndex:uniq_schedule_date" json:"date"`

	PassengerCount  int `gorm:"not null;default:0" json:"passenger_count"`
	MotorcycleCount int `gorm:"not null;default:0" json:"motorcycle_count"`
	CarCount        int `gorm:"not null;default:0" json:"car_count"`
	BusCount        int `gorm:"not null;default:0" json:"bus_count"`
	TruckCount      int `gorm:"not null;default:0" json:"truck_count"`

	Status           DateStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	StatusReason     *string    `gorm:"type:varchar(255)" json:"status_reason,omitempty"`
	StatusExpiryDate *time.Time `gorm:"index" json:"status_expiry_date,omitempty"`

	// StatusOrigin records whether Status was set independently by an
	// operator/admin or cascaded from the parent schedule. The expiry
	// sweep only reverts DERIVED statuses together with their schedule.
	StatusOrigin StatusOrigin `gorm:"type:varchar(20);not null;default:'INDEPENDENT'" json:"status_origin"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the historical table name used by the consoles.
func (ScheduleDate) TableName() string {
	return "schedule_dates"
}

// CountFor returns the counter for one capacity class.
func (sd *ScheduleDate) CountFor(class string) int {
	switch class {
	case ferry.ClassPassenger:
		return sd.PassengerCount
	case ferry.ClassMotorcycle:
		return sd.MotorcycleCount
	case ferry.ClassCar:
		return sd.CarCount
	case ferry.ClassBus:
		return sd.BusCount
	case ferry.ClassTruck:
		return sd.TruckCount
	default:
		return 0
	}
}

// SetCount sets the counter for one capacity class.
func (sd *ScheduleDate) SetCount(class string, value int) {
	switch class {
	case ferry.ClassPassenger:
		sd.PassengerCount = value
	case ferry.ClassMotorcycle:
		sd.MotorcycleCount = value
	case ferry.ClassCar:
		sd.CarCount = value
	case ferry.ClassBus:
		sd.BusCount = value
	case ferry.ClassTruck:
		sd.TruckCount = value
	}
}
