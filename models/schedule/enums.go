package schedule

// Status is the lifecycle status of a recurring schedule.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// DateStatus is the status of one concrete sailing date.
type DateStatus string

const (
	DateStatusAvailable    DateStatus = "AVAILABLE"
	DateStatusUnavailable  DateStatus = "UNAVAILABLE"
	DateStatusFull         DateStatus = "FULL"
	DateStatusCancelled    DateStatus = "CANCELLED"
	DateStatusDeparted     DateStatus = "DEPARTED"
	DateStatusWeatherIssue DateStatus = "WEATHER_ISSUE"
)

func (ds DateStatus) String() string {
	return string(ds)
}

// IsOverride reports whether the status was set as an explicit override
// and must never be recomputed from the capacity counters.
func (ds DateStatus) IsOverride() bool {
	switch ds {
	case DateStatusWeatherIssue, DateStatusCancelled, DateStatusUnavailable, DateStatusDeparted:
		return true
	default:
		return false
	}
}

// Bookable reports whether new reservations are accepted for this status.
func (ds DateStatus) Bookable() bool {
	return ds == DateStatusAvailable
}

// StatusOrigin distinguishes an independently set date status from one
// cascaded from the parent schedule.
type StatusOrigin string

const (
	OriginIndependent StatusOrigin = "INDEPENDENT"
	OriginDerived     StatusOrigin = "DERIVED"
)
