package notification

import (
	"time"

	bookingModel "ferry-booking/models/booking"
)

// Kind is the closed set of reminder kinds the dispatcher sends.
type Kind string

const (
	KindCheckin  Kind = "CHECKIN"
	KindBoarding Kind = "BOARDING"
	KindPayment  Kind = "PAYMENT"
)

// IsValid returns true for a recognized reminder kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindCheckin, KindBoarding, KindPayment:
		return true
	default:
		return false
	}
}

// LogStatus is the outcome of one send attempt.
type LogStatus string

const (
	LogStatusSent   LogStatus = "SENT"
	LogStatusFailed LogStatus = "FAILED"
	// LogStatusInvalid marks an attempt skipped because required related
	// data (schedule, route, user) was missing.
	LogStatusInvalid LogStatus = "INVALID"
	// LogStatusUnknownType is a defensive fallback for an unrecognized
	// kind reaching the dispatcher at runtime.
	LogStatusUnknownType LogStatus = "UNKNOWN_TYPE"
)

// NotificationLog records one reminder attempt. It doubles as the dedupe
// key (existing SENT row within a window) and the retry key (count of
// FAILED rows per booking+type). Rows are append-only.
type NotificationLog struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint                 `gorm:"not null;index:idx_notification_booking_type" json:"booking_id"`
	Booking   bookingModel.Booking `gorm:"foreignKey:BookingID" json:"-"`

	Type Kind `gorm:"type:varchar(20);not null;index:idx_notification_booking_type" json:"type"`

	ScheduledAt time.Time  `gorm:"not null" json:"scheduled_at"`
	SentAt      *time.Time `json:"sent_at,omitempty"`

	IsSent bool `gorm:"default:false" json:"is_sent"`
	IsRead bool `gorm:"default:false;index" json:"is_read"`

	Status       LogStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ErrorMessage *string   `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName sets the table name for the NotificationLog model.
func (NotificationLog) TableName() string {
	return "notification_logs"
}
