package slip

import (
	"time"

	"gorm.io/gorm"
)

// SlipRequest represents one payout slip parsing request. Operators attach
// a bank transfer slip image to a manual refund; the parser extracts the
// payout details into this row.
type SlipRequest struct {
	ID               uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID        string `json:"request_id" gorm:"type:varchar(24);uniqueIndex;not null"`
	OriginalFileName string `json:"original_file_name" gorm:"type:varchar(255);not null"`
	SavedFileName    string `json:"saved_file_name" gorm:"type:varchar(255)"`
	FileHash         string `json:"file_hash" gorm:"type:varchar(128);index"` // SHA256 hash
	FilePath         string `json:"file_path" gorm:"type:varchar(500)"`
	FileSize         int64  `json:"file_size" gorm:"not null"`
	MimeType         string `json:"mime_type" gorm:"type:varchar(100);not null"`
	Status           string `json:"status" gorm:"type:varchar(50);not null;default:'processing';index"` // processing, success, failed
	ProcessingTimeMs int64  `json:"processing_time_ms" gorm:"default:0"`

	// Parsed payout fields
	BankName          string `json:"bank_name" gorm:"type:varchar(255);default:''"`
	BankAccountNumber string `json:"bank_account_number" gorm:"type:varchar(50);index;default:''"`
	BankAccountHolder string `json:"bank_account_holder" gorm:"type:varchar(255);default:''"`
	BranchName        string `json:"branch_name" gorm:"type:varchar(255);default:''"`
	Amount            int64  `json:"amount" gorm:"default:0"`
	ReferenceNumber   string `json:"reference_number" gorm:"type:varchar(100);index;default:''"`

	ErrorMessage string `json:"error_message" gorm:"type:text;default:''"`

	IPAddress string  `json:"ip_address" gorm:"type:varchar(45);index;default:''"`
	UserAgent *string `json:"user_agent,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TableName returns the table name for SlipRequest
func (SlipRequest) TableName() string {
	return "slip_requests"
}
