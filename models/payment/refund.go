package payment

import "time"

// Refund is a money-return request against one successful payment.
// One-to-one with the payment being refunded.
type Refund struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PaymentID uint    `gorm:"not null;uniqueIndex" json:"payment_id"`
	Payment   Payment `gorm:"foreignKey:PaymentID" json:"-"`

	BookingID uint `gorm:"not null;index" json:"booking_id"`

	Amount int64        `gorm:"not null" json:"amount"`
	Reason string       `gorm:"type:varchar(255);not null" json:"reason"`
	Status RefundStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	// RefundRef is the gateway-side reference; empty until the gateway
	// accepts the request.
	RefundRef string `gorm:"type:varchar(100);index" json:"refund_ref"`

	// RequiresManual marks payouts the gateway cannot process
	// automatically (e.g. bank transfer payouts).
	RequiresManual bool `gorm:"default:false" json:"requires_manual"`

	BankName          *string `gorm:"type:varchar(255)" json:"bank_name,omitempty"`
	BankAccountNumber *string `gorm:"type:varchar(50)" json:"bank_account_number,omitempty"`
	BankAccountHolder *string `gorm:"type:varchar(255)" json:"bank_account_holder,omitempty"`

	// SlipRequestID links a parsed payout slip for manual refunds.
	SlipRequestID *uint `gorm:"index" json:"slip_request_id,omitempty"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
