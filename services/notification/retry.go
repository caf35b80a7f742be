package notification

import (
	"errors"
	"fmt"
	"time"

	"ferry-booking/apperrors"
	"ferry-booking/logger"
	bookingModel "ferry-booking/models/booking"
	notificationModel "ferry-booking/models/notification"
	paymentModel "ferry-booking/models/payment"
	"ferry-booking/utils"

	"gorm.io/gorm"
)

// RetryFailed re-attempts reminders whose last outcome was FAILED at most
// maxAge ago. A booking+kind pair with maxRetries or more failed attempts
// is abandoned. Every retry writes a fresh log row; old rows are never
// touched.
func (s *Service) RetryFailed(maxAge time.Duration, maxRetries int) error {
	cutoff := s.Now().Add(-maxAge)

	var failed []notificationModel.NotificationLog
	err := s.DB.Where("status = ? AND created_at > ?", notificationModel.LogStatusFailed, cutoff).
		Order("created_at ASC").
		Find(&failed).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to load failed notifications", Err: err}
	}

	type key struct {
		bookingID uint
		kind      notificationModel.Kind
	}
	seen := make(map[key]bool)

	for _, row := range failed {
		k := key{row.BookingID, row.Type}
		if seen[k] {
			continue
		}
		seen[k] = true

		sent, err := s.alreadySent(row.BookingID, row.Type, nil)
		if err != nil {
			logger.Warning(fmt.Sprintf("Retry dedupe lookup failed for booking %d: %v", row.BookingID, err))
			continue
		}
		if sent {
			continue
		}

		var attempts int64
		err = s.DB.Model(&notificationModel.NotificationLog{}).
			Where("booking_id = ? AND type = ? AND status = ?", row.BookingID, row.Type, notificationModel.LogStatusFailed).
			Count(&attempts).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Retry attempt count failed for booking %d: %v", row.BookingID, err))
			continue
		}
		if attempts >= int64(maxRetries) {
			continue
		}

		s.retryOne(row.BookingID, row.Type)
	}
	return nil
}

// retryOne reloads the booking and redoes one send.
func (s *Service) retryOne(bookingID uint, kind notificationModel.Kind) {
	var b bookingModel.Booking
	err := s.DB.Preload("User").Preload("Schedule").Preload("Schedule.Route").
		First(&b, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.writeLog(bookingID, kind, notificationModel.LogStatusInvalid, nil, "booking no longer exists")
			return
		}
		logger.Warning(fmt.Sprintf("Retry load failed for booking %d: %v", bookingID, err))
		return
	}

	switch kind {
	case notificationModel.KindCheckin:
		if b.Status != bookingModel.BookingStatusConfirmed {
			return
		}
		s.sendCheckin(&b)

	case notificationModel.KindBoarding:
		if b.Status != bookingModel.BookingStatusConfirmed {
			return
		}
		departure, err := utils.CombineDateTime(b.DepartureDate, b.Schedule.DepartureTime)
		if err != nil || !s.Now().Before(departure) {
			// Sailed already; a late boarding reminder is noise.
			return
		}
		s.sendBoarding(&b, utils.FloorHoursUntil(s.Now(), departure))

	case notificationModel.KindPayment:
		var p paymentModel.Payment
		err := s.DB.Where("booking_id = ? AND status = ?", bookingID, paymentModel.PaymentStatusPending).
			First(&p).Error
		if err != nil {
			// Payment settled or expired since the failure; drop it.
			return
		}
		if p.ExpiresAt == nil || !s.Now().Before(*p.ExpiresAt) {
			return
		}
		s.sendPayment(&b, &p)

	default:
		logger.Error(fmt.Sprintf("Unknown notification kind %q in retry", kind), nil)
		s.writeLog(bookingID, kind, notificationModel.LogStatusUnknownType, nil,
			fmt.Sprintf("unknown notification kind %q", kind))
	}
}

// Cleanup bulk-deletes old notification logs: read rows older than
// daysRead days and unread rows older than daysUnread days. Zero or
// negative arguments fall back to the defaults.
func (s *Service) Cleanup(daysRead, daysUnread int) error {
	if daysRead <= 0 {
		daysRead = DefaultCleanupReadDays
	}
	if daysUnread <= 0 {
		daysUnread = DefaultCleanupUnreadDays
	}

	readCutoff := s.Now().AddDate(0, 0, -daysRead)
	res := s.DB.Where("is_read = ? AND created_at < ?", true, readCutoff).
		Delete(&notificationModel.NotificationLog{})
	if res.Error != nil {
		return apperrors.InternalError{Msg: "failed to delete read notification logs", Err: res.Error}
	}
	deletedRead := res.RowsAffected

	unreadCutoff := s.Now().AddDate(0, 0, -daysUnread)
	res = s.DB.Where("is_read = ? AND created_at < ?", false, unreadCutoff).
		Delete(&notificationModel.NotificationLog{})
	if res.Error != nil {
		return apperrors.InternalError{Msg: "failed to delete unread notification logs", Err: res.Error}
	}

	logger.Info(fmt.Sprintf("Notification cleanup removed %d read and %d unread rows", deletedRead, res.RowsAffected))
	return nil
}
