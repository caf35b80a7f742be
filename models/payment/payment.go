package payment

import (
	"time"

	bookingModel "ferry-booking/models/booking"
)

// Payment represents one payment attempt against a booking. At most one
// PENDING payment per booking is meaningful for reconciliation.
type Payment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint                 `gorm:"not null;index" json:"booking_id"`
	Booking   bookingModel.Booking `gorm:"foreignKey:BookingID" json:"-"`

	Amount int64  `gorm:"not null" json:"amount"`
	Method string `gorm:"type:varchar(50);not null" json:"method"`

	// TransactionRef is the gateway-side reference of this payment.
	TransactionRef string `gorm:"type:varchar(100);index" json:"transaction_ref"`

	Status PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired checks whether a pending payment has passed its expiry.
func (p *Payment) IsExpired(now time.Time) bool {
	return p.Status == PaymentStatusPending && p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}
