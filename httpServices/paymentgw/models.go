package paymentgw

// RefundRequest is the payload sent to the gateway's refund endpoint.
type RefundRequest struct {
	TransactionRef string `json:"transaction_ref"`
	Amount         int64  `json:"amount"`
	Reason         string `json:"reason"`
}

// RefundResponse is the gateway's answer to a refund request.
type RefundResponse struct {
	RefundRef string `json:"refund_ref"`
	// RequiresManualProcess is true for payouts the gateway cannot settle
	// automatically (e.g. bank transfer payouts).
	RequiresManualProcess bool   `json:"requires_manual_process"`
	Message               string `json:"message"`
}

// RefundStatusResponse carries the numeric status code of a refund.
type RefundStatusResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
