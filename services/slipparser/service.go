package slipparser

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ferry-booking/logger"
	slipModel "ferry-booking/models/slip"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Service handles payout slip parsing requests: request bookkeeping, file
// persistence and result storage. The vision call itself lives in the
// payment controller.
type Service struct {
	DB        *gorm.DB
	UploadDir string
}

// NewService creates a new slip parser service.
func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:        db,
		UploadDir: "uploaded_slips",
	}
}

// GenerateRequestID generates a 24 character unique request ID
func (s *Service) GenerateRequestID() string {
	bytes := make([]byte, 12)
	rand.Read(bytes)

	requestID := hex.EncodeToString(bytes)
	timestamp := time.Now().Unix()

	// Last 6 hex characters of the timestamp plus 18 random hex characters.
	return fmt.Sprintf("%06x%s", timestamp&0xffffff, requestID[:18])
}

// CreateInitialRequest creates an initial request record in the database
func (s *Service) CreateInitialRequest(c *fiber.Ctx, requestID, originalFileName string, fileSize int64, mimeType string) (*slipModel.SlipRequest, error) {
	ipAddress := c.IP()
	if ipAddress == "" {
		ipAddress = "unknown"
	}

	userAgent := c.Get("User-Agent")

	request := &slipModel.SlipRequest{
		RequestID:        requestID,
		OriginalFileName: originalFileName,
		FileSize:         fileSize,
		MimeType:         mimeType,
		Status:           "processing",
		IPAddress:        ipAddress,
		UserAgent:        &userAgent,
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create initial request: %w", err)
	}

	return request, nil
}

// SaveFileAsync saves the uploaded file asynchronously
func (s *Service) SaveFileAsync(requestID string, fileBytes []byte, originalFileName string) {
	go func() {
		if err := s.saveFile(requestID, fileBytes, originalFileName); err != nil {
			logger.Error(fmt.Sprintf("Failed to save file for request %s", requestID), err)
			s.updateRequestWithFileError(requestID, err.Error())
		}
	}()
}

// saveFile saves the file to disk and updates the database record
func (s *Service) saveFile(requestID string, fileBytes []byte, originalFileName string) error {
	if err := s.ensureUploadDir(); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	hash := sha256.Sum256(fileBytes)
	fileHash := hex.EncodeToString(hash[:])

	ext := filepath.Ext(originalFileName)
	savedFileName := fmt.Sprintf("%s_%d%s", requestID, time.Now().Unix(), ext)
	filePath := filepath.Join(s.UploadDir, savedFileName)

	if err := os.WriteFile(filePath, fileBytes, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	updates := map[string]interface{}{
		"saved_file_name": savedFileName,
		"file_hash":       fileHash,
		"file_path":       filePath,
	}

	if err := s.DB.Model(&slipModel.SlipRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		// If database update fails, try to clean up the file
		os.Remove(filePath)
		return fmt.Errorf("failed to update request with file info: %w", err)
	}

	logger.Success(fmt.Sprintf("File saved successfully for request %s: %s", requestID, savedFileName))
	return nil
}

// SaveSuccessResultAsync saves the parsing result asynchronously
func (s *Service) SaveSuccessResultAsync(requestID string, result *slipModel.ParsedSlip) {
	go func() {
		if err := s.saveSuccessResult(requestID, result); err != nil {
			logger.Error(fmt.Sprintf("Failed to save success result for request %s", requestID), err)
		}
	}()
}

func (s *Service) saveSuccessResult(requestID string, result *slipModel.ParsedSlip) error {
	var request slipModel.SlipRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return fmt.Errorf("failed to find request: %w", err)
	}

	if err := request.MarkAsSuccess(s.DB, result); err != nil {
		return err
	}

	logger.Success(fmt.Sprintf("Parsing result saved successfully for request %s", requestID))
	return nil
}

// SaveFailureResultAsync saves the failure result asynchronously
func (s *Service) SaveFailureResultAsync(requestID string, errorMsg string, processingTime int64) {
	go func() {
		if err := s.saveFailureResult(requestID, errorMsg, processingTime); err != nil {
			logger.Error(fmt.Sprintf("Failed to save failure result for request %s", requestID), err)
		}
	}()
}

func (s *Service) saveFailureResult(requestID string, errorMsg string, processingTime int64) error {
	var request slipModel.SlipRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return fmt.Errorf("failed to find request: %w", err)
	}

	if err := request.MarkAsFailed(s.DB, errorMsg, processingTime); err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Failure result saved for request %s: %s", requestID, errorMsg))
	return nil
}

func (s *Service) updateRequestWithFileError(requestID string, errorMsg string) {
	updates := map[string]interface{}{
		"status":        "failed",
		"error_message": fmt.Sprintf("File saving error: %s", errorMsg),
	}

	if err := s.DB.Model(&slipModel.SlipRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		logger.Error(fmt.Sprintf("Failed to update request %s with file error", requestID), err)
	}
}

func (s *Service) ensureUploadDir() error {
	if _, err := os.Stat(s.UploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(s.UploadDir, 0755); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Created upload directory: %s", s.UploadDir))
	}
	return nil
}

// GetRequestByID retrieves a request by ID
func (s *Service) GetRequestByID(requestID string) (*slipModel.SlipRequest, error) {
	var request slipModel.SlipRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// CleanupOldFiles removes slip images older than the given number of days.
// The parsed payout data stays; only the file on disk is dropped.
func (s *Service) CleanupOldFiles(daysOld int) error {
	cutoffDate := time.Now().AddDate(0, 0, -daysOld)

	var oldRequests []slipModel.SlipRequest
	if err := s.DB.Where("created_at < ? AND file_path != ''", cutoffDate).Find(&oldRequests).Error; err != nil {
		return err
	}

	for _, request := range oldRequests {
		if request.FilePath != "" {
			if err := os.Remove(request.FilePath); err != nil && !os.IsNotExist(err) {
				logger.Error(fmt.Sprintf("Failed to remove old file: %s", request.FilePath), err)
			} else {
				logger.Info(fmt.Sprintf("Removed old file: %s", request.FilePath))
			}
		}

		if err := s.DB.Model(&request).Update("file_path", "").Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to clear file path for request %s", request.RequestID), err)
		}
	}

	return nil
}
