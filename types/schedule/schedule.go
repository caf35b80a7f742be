package schedule

// CreateFerryRequest registers a vessel with its per-class capacities.
type CreateFerryRequest struct {
	Name               string `json:"name"`
	PassengerCapacity  int    `json:"passenger_capacity"`
	MotorcycleCapacity int    `json:"motorcycle_capacity"`
	CarCapacity        int    `json:"car_capacity"`
	BusCapacity        int    `json:"bus_capacity"`
	TruckCapacity      int    `json:"truck_capacity"`
}

// CreateRouteRequest registers a route with its per-class fares.
type CreateRouteRequest struct {
	Name            string `json:"name"`
	OriginPort      string `json:"origin_port"`
	DestinationPort string `json:"destination_port"`
	PassengerFare   int64  `json:"passenger_fare"`
	MotorcycleFare  int64  `json:"motorcycle_fare"`
	CarFare         int64  `json:"car_fare"`
	BusFare         int64  `json:"bus_fare"`
	TruckFare       int64  `json:"truck_fare"`
}

// CreateScheduleRequest binds a ferry to a route on a weekly pattern.
type CreateScheduleRequest struct {
	RouteID       uint   `json:"route_id"`
	FerryID       uint   `json:"ferry_id"`
	DepartureTime string `json:"departure_time"` // "15:04"
	ArrivalTime   string `json:"arrival_time"`   // "15:04"
	// DaysOfWeek lists operating weekdays in lowercase English
	// ("monday" .. "sunday").
	DaysOfWeek []string `json:"days_of_week"`
}

// AddDateRequest adds a single sailing date to a schedule.
type AddDateRequest struct {
	ScheduleID uint   `json:"schedule_id"`
	Date       string `json:"date"` // "2006-01-02"
}

// GenerateDatesRequest generates sailing dates over an inclusive range,
// skipping non-operating weekdays.
type GenerateDatesRequest struct {
	ScheduleID uint   `json:"schedule_id"`
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
}

// DeleteDateRequest removes a sailing date that holds no bookings.
type DeleteDateRequest struct {
	ScheduleDateID uint `json:"schedule_date_id"`
}

// SetDateStatusRequest sets an independent status override on one date.
type SetDateStatusRequest struct {
	ScheduleDateID uint   `json:"schedule_date_id"`
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
	ExpiresAt      string `json:"expires_at,omitempty"` // RFC3339, optional auto-revert
}

// SetScheduleStatusRequest (de)activates a schedule, cascading to future
// dates that have not been independently overridden.
type SetScheduleStatusRequest struct {
	ScheduleID uint   `json:"schedule_id"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}
