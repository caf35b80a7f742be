package payment

// PaymentStatus represents the state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusExpired  PaymentStatus = "EXPIRED"
)

func (ps PaymentStatus) String() string {
	return string(ps)
}

// RefundStatus represents the state of a refund request.
type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "PENDING"
	RefundStatusProcessing RefundStatus = "PROCESSING"
	RefundStatusSuccess    RefundStatus = "SUCCESS"
	RefundStatusFailed     RefundStatus = "FAILED"
	RefundStatusCancelled  RefundStatus = "CANCELLED"
)

func (rs RefundStatus) String() string {
	return string(rs)
}

// IsFinal reports whether the refund will no longer change.
func (rs RefundStatus) IsFinal() bool {
	switch rs {
	case RefundStatusSuccess, RefundStatusFailed, RefundStatusCancelled:
		return true
	default:
		return false
	}
}
