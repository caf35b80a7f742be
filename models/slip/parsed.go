package slip

import (
	"fmt"

	"gorm.io/gorm"
)

// ParsedSlip is the structured payout data extracted from a bank transfer
// slip image.
type ParsedSlip struct {
	RequestID         string `json:"request_id,omitempty"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankAccountHolder string `json:"bank_account_holder"`
	BranchName        string `json:"branch_name"`
	Amount            int64  `json:"amount"`
	ReferenceNumber   string `json:"reference_number"`
	ProcessingTimeMs  int64  `json:"processing_time_ms,omitempty"`
}

// MarkAsSuccess stores the parsed payout fields and flips the request to
// success.
func (r *SlipRequest) MarkAsSuccess(db *gorm.DB, result *ParsedSlip) error {
	updates := map[string]interface{}{
		"status":              "success",
		"processing_time_ms":  result.ProcessingTimeMs,
		"bank_name":           result.BankName,
		"bank_account_number": result.BankAccountNumber,
		"bank_account_holder": result.BankAccountHolder,
		"branch_name":         result.BranchName,
		"amount":              result.Amount,
		"reference_number":    result.ReferenceNumber,
	}
	if err := db.Model(r).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark slip request as success: %w", err)
	}
	return nil
}

// MarkAsFailed records the parse failure.
func (r *SlipRequest) MarkAsFailed(db *gorm.DB, errorMsg string, processingTimeMs int64) error {
	updates := map[string]interface{}{
		"status":             "failed",
		"processing_time_ms": processingTimeMs,
		"error_message":      errorMsg,
	}
	if err := db.Model(r).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark slip request as failed: %w", err)
	}
	return nil
}
