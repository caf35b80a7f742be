package notification

import (
	"fmt"
	"time"

	"ferry-booking/apperrors"
	"ferry-booking/httpServices/notifier"
	"ferry-booking/logger"
	bookingModel "ferry-booking/models/booking"
	notificationModel "ferry-booking/models/notification"
	paymentModel "ferry-booking/models/payment"
	"ferry-booking/utils"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

const (
	// DefaultBoardingThresholdHours is how close to departure a boarding
	// reminder fires.
	DefaultBoardingThresholdHours = 1
	// DefaultPaymentThresholdHours is how close to payment expiry a
	// payment reminder fires.
	DefaultPaymentThresholdHours = 3

	// boardingDedupeWindow suppresses a second boarding reminder for the
	// same booking within this window.
	boardingDedupeWindow = 2 * time.Hour

	// Cleanup defaults, in days.
	DefaultCleanupReadDays   = 30
	DefaultCleanupUnreadDays = 90
)

// Service sends booking reminders over the delivery channel and records
// every attempt in notification_logs. One bad candidate never stops a
// batch; only the outer candidate query aborts a run.
type Service struct {
	DB      *gorm.DB
	Channel notifier.Channel
	Now     func() time.Time

	BoardingThresholdHours int
	PaymentThresholdHours  int
}

// NewService creates a new notification dispatch service.
func NewService(db *gorm.DB, channel notifier.Channel) *Service {
	return &Service{
		DB:                     db,
		Channel:                channel,
		Now:                    time.Now,
		BoardingThresholdHours: DefaultBoardingThresholdHours,
		PaymentThresholdHours:  DefaultPaymentThresholdHours,
	}
}

// Run dispatches one reminder kind. An unrecognized kind is recorded and
// swallowed so a misconfigured scheduler entry cannot crash a run.
func (s *Service) Run(kind notificationModel.Kind) error {
	switch kind {
	case notificationModel.KindCheckin:
		return s.RunCheckinReminders()
	case notificationModel.KindBoarding:
		return s.RunBoardingReminders()
	case notificationModel.KindPayment:
		return s.RunPaymentReminders()
	default:
		logger.Error(fmt.Sprintf("Unknown notification kind %q", kind), nil)
		s.writeLog(0, kind, notificationModel.LogStatusUnknownType, nil, fmt.Sprintf("unknown notification kind %q", kind))
		return nil
	}
}

// RunCheckinReminders notifies CONFIRMED bookings sailing tomorrow, once
// per booking.
func (s *Service) RunCheckinReminders() error {
	tomorrow := now.With(s.Now()).BeginningOfDay().AddDate(0, 0, 1)

	var bookings []bookingModel.Booking
	err := s.DB.Preload("User").Preload("Schedule").Preload("Schedule.Route").
		Where("status = ? AND departure_date = ?", bookingModel.BookingStatusConfirmed, tomorrow).
		Find(&bookings).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to load check-in candidates", Err: err}
	}

	for i := range bookings {
		b := &bookings[i]
		sent, err := s.alreadySent(b.ID, notificationModel.KindCheckin, nil)
		if err != nil {
			logger.Warning(fmt.Sprintf("Check-in dedupe lookup failed for booking %d: %v", b.ID, err))
			continue
		}
		if sent {
			continue
		}
		s.sendCheckin(b)
	}
	return nil
}

// RunBoardingReminders notifies CONFIRMED bookings sailing today whose
// departure is within the threshold, deduped over a two hour window.
func (s *Service) RunBoardingReminders() error {
	today := now.With(s.Now()).BeginningOfDay()

	var bookings []bookingModel.Booking
	err := s.DB.Preload("User").Preload("Schedule").Preload("Schedule.Route").
		Where("status = ? AND departure_date = ?", bookingModel.BookingStatusConfirmed, today).
		Find(&bookings).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to load boarding candidates", Err: err}
	}

	dedupeAfter := s.Now().Add(-boardingDedupeWindow)
	for i := range bookings {
		b := &bookings[i]

		departure, err := utils.CombineDateTime(b.DepartureDate, b.Schedule.DepartureTime)
		if err != nil {
			s.writeLog(b.ID, notificationModel.KindBoarding, notificationModel.LogStatusInvalid, nil,
				fmt.Sprintf("bad schedule departure time: %v", err))
			continue
		}
		hoursLeft := utils.FloorHoursUntil(s.Now(), departure)
		if hoursLeft <= 0 || hoursLeft > s.BoardingThresholdHours {
			continue
		}

		sent, err := s.alreadySent(b.ID, notificationModel.KindBoarding, &dedupeAfter)
		if err != nil {
			logger.Warning(fmt.Sprintf("Boarding dedupe lookup failed for booking %d: %v", b.ID, err))
			continue
		}
		if sent {
			continue
		}
		s.sendBoarding(b, hoursLeft)
	}
	return nil
}

// RunPaymentReminders notifies bookings whose pending payment expires
// within the threshold.
func (s *Service) RunPaymentReminders() error {
	horizon := s.Now().Add(time.Duration(s.PaymentThresholdHours+1) * time.Hour)

	var payments []paymentModel.Payment
	err := s.DB.Preload("Booking").Preload("Booking.User").
		Where("status = ? AND expires_at IS NOT NULL AND expires_at > ? AND expires_at <= ?",
			paymentModel.PaymentStatusPending, s.Now(), horizon).
		Find(&payments).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to load payment reminder candidates", Err: err}
	}

	for i := range payments {
		p := &payments[i]

		hoursLeft := utils.FloorHoursUntil(s.Now(), *p.ExpiresAt)
		if hoursLeft <= 0 || hoursLeft > s.PaymentThresholdHours {
			continue
		}

		sent, err := s.alreadySent(p.BookingID, notificationModel.KindPayment, nil)
		if err != nil {
			logger.Warning(fmt.Sprintf("Payment dedupe lookup failed for booking %d: %v", p.BookingID, err))
			continue
		}
		if sent {
			continue
		}
		s.sendPayment(&p.Booking, p)
	}
	return nil
}

func (s *Service) sendCheckin(b *bookingModel.Booking) {
	if b.User.Phone == "" || b.Schedule.Route.Name == "" {
		s.writeLog(b.ID, notificationModel.KindCheckin, notificationModel.LogStatusInvalid, nil,
			"missing user phone or route")
		return
	}

	_, err := s.Channel.SendCheckinReminder(notifier.CheckinReminder{
		Phone:       b.User.Phone,
		Name:        b.User.LegalName,
		BookingCode: b.Code,
		RouteName:   b.Schedule.Route.Name,
		SailingDate: b.DepartureDate,
	})
	s.recordOutcome(b.ID, notificationModel.KindCheckin, err)
}

func (s *Service) sendBoarding(b *bookingModel.Booking, hoursLeft int) {
	if b.User.Phone == "" || b.Schedule.Route.Name == "" {
		s.writeLog(b.ID, notificationModel.KindBoarding, notificationModel.LogStatusInvalid, nil,
			"missing user phone or route")
		return
	}

	_, err := s.Channel.SendBoardingReminder(notifier.BoardingReminder{
		Phone:         b.User.Phone,
		Name:          b.User.LegalName,
		BookingCode:   b.Code,
		RouteName:     b.Schedule.Route.Name,
		DepartureTime: b.Schedule.DepartureTime,
		HoursLeft:     hoursLeft,
	})
	s.recordOutcome(b.ID, notificationModel.KindBoarding, err)
}

func (s *Service) sendPayment(b *bookingModel.Booking, p *paymentModel.Payment) {
	if b.User.Phone == "" {
		s.writeLog(b.ID, notificationModel.KindPayment, notificationModel.LogStatusInvalid, nil,
			"missing user phone")
		return
	}

	_, err := s.Channel.SendPaymentReminder(notifier.PaymentReminder{
		Phone:       b.User.Phone,
		Name:        b.User.LegalName,
		BookingCode: b.Code,
		Amount:      p.Amount,
		ExpiresAt:   *p.ExpiresAt,
	})
	s.recordOutcome(b.ID, notificationModel.KindPayment, err)
}

// alreadySent reports whether a SENT row exists for the booking and kind,
// optionally restricted to rows created after `after`.
func (s *Service) alreadySent(bookingID uint, kind notificationModel.Kind, after *time.Time) (bool, error) {
	q := s.DB.Model(&notificationModel.NotificationLog{}).
		Where("booking_id = ? AND type = ? AND status = ?", bookingID, kind, notificationModel.LogStatusSent)
	if after != nil {
		q = q.Where("created_at > ?", *after)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// recordOutcome writes the log row for one send attempt.
func (s *Service) recordOutcome(bookingID uint, kind notificationModel.Kind, sendErr error) {
	if sendErr != nil {
		logger.Warning(fmt.Sprintf("%s reminder failed for booking %d: %v", kind, bookingID, sendErr))
		s.writeLog(bookingID, kind, notificationModel.LogStatusFailed, nil, sendErr.Error())
		return
	}
	nowTime := s.Now()
	s.writeLog(bookingID, kind, notificationModel.LogStatusSent, &nowTime, "")
}

func (s *Service) writeLog(bookingID uint, kind notificationModel.Kind, status notificationModel.LogStatus, sentAt *time.Time, errMsg string) {
	entry := notificationModel.NotificationLog{
		BookingID:   bookingID,
		Type:        kind,
		ScheduledAt: s.Now(),
		SentAt:      sentAt,
		IsSent:      status == notificationModel.LogStatusSent,
		Status:      status,
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		logger.Error(fmt.Sprintf("Failed to write notification log for booking %d", bookingID), err)
	}
}
