package payment

// RefundRequest asks for a refund of a booking's successful payment.
type RefundRequest struct {
	BookingID uint   `json:"booking_id"`
	Reason    string `json:"reason"`

	BankName          string `json:"bank_name,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty"`
	BankAccountHolder string `json:"bank_account_holder,omitempty"`
}

// RefundStatusRequest polls the gateway for a refund's current status.
type RefundStatusRequest struct {
	RefundID uint `json:"refund_id"`
}

// CancelRefundRequest cancels a still-pending refund.
type CancelRefundRequest struct {
	RefundID uint `json:"refund_id"`
}

// CompleteManualRefundRequest settles a bank-payout refund after the
// transfer has been made, optionally attaching the parsed payout slip.
type CompleteManualRefundRequest struct {
	RefundID      uint  `json:"refund_id"`
	SlipRequestID *uint `json:"slip_request_id,omitempty"`
}
