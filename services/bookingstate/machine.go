package bookingstate

import (
	"errors"
	"fmt"
	"time"

	"ferry-booking/apperrors"
	"ferry-booking/logger"
	bookingModel "ferry-booking/models/booking"
	paymentModel "ferry-booking/models/payment"
	scheduleModel "ferry-booking/models/schedule"
	"ferry-booking/services/capacity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Actor identifies who requested a transition, for the audit log.
type Actor struct {
	Type bookingModel.ActorType
	ID   uint
	IP   string
}

// SystemActor is used by background jobs.
var SystemActor = Actor{Type: bookingModel.ActorSystem}

// Service is the booking state machine. Every status change runs through
// Transition as one atomic unit: status, tickets, capacity, payment and
// the audit log either all change or none do.
type Service struct {
	DB       *gorm.DB
	Capacity *capacity.Service
	Now      func() time.Time

	// PaymentTTL is how long a checkout's pending payment lives.
	// Zero means DefaultPaymentTTL.
	PaymentTTL time.Duration
}

// NewService creates a new booking state machine service.
func NewService(db *gorm.DB, capacitySvc *capacity.Service) *Service {
	return &Service{
		DB:       db,
		Capacity: capacitySvc,
		Now:      time.Now,
	}
}

// Transition applies one status change with all its side effects inside a
// single transaction.
func (s *Service) Transition(bookingID uint, target bookingModel.BookingStatus, actor Actor, reason string) (*bookingModel.Booking, error) {
	var result *bookingModel.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.TransitionTx(tx, bookingID, target, actor, reason)
		if err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransitionTx is Transition inside a caller-owned transaction. The payment
// reconciler uses it to move bookings and refunds in one unit.
func (s *Service) TransitionTx(tx *gorm.DB, bookingID uint, target bookingModel.BookingStatus, actor Actor, reason string) (*bookingModel.Booking, error) {
	if !target.IsValid() {
		return nil, apperrors.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown booking status %q", target)}
	}

	// The row lock serializes concurrent transitions on one booking: the
	// second caller sees the first caller's committed status and fails
	// the table check instead of double-applying side effects.
	var b bookingModel.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError{Resource: "booking", Err: err}
		}
		return nil, apperrors.InternalError{Msg: "failed to load booking", Err: err}
	}

	if !b.Status.CanTransitionTo(target) {
		return nil, apperrors.IllegalTransitionError{From: b.Status.String(), To: target.String()}
	}

	previous := b.Status

	switch target {
	case bookingModel.BookingStatusConfirmed:
		if previous == bookingModel.BookingStatusPending {
			if err := s.markPendingPayment(tx, b.ID, paymentModel.PaymentStatusSuccess); err != nil {
				return nil, err
			}
		}
		// REFUND_PENDING -> CONFIRMED is a refund cancellation; the
		// refund row itself is handled by the reconciler.

	case bookingModel.BookingStatusCancelled:
		if err := s.setTicketStatus(tx, b.ID, bookingModel.TicketStatusCancelled); err != nil {
			return nil, err
		}
		if err := s.releaseCapacity(tx, &b); err != nil {
			return nil, err
		}
		if err := s.markPendingPayment(tx, b.ID, paymentModel.PaymentStatusFailed); err != nil {
			return nil, err
		}

	case bookingModel.BookingStatusCompleted:
		if err := s.setTicketStatus(tx, b.ID, bookingModel.TicketStatusUsed); err != nil {
			return nil, err
		}
		// Fast path: a booking completed while its payment was still
		// pending settles the payment now.
		if err := s.markPendingPayment(tx, b.ID, paymentModel.PaymentStatusSuccess); err != nil {
			return nil, err
		}

	case bookingModel.BookingStatusRefunded:
		if err := s.markSuccessfulPaymentRefunded(tx, b.ID); err != nil {
			return nil, err
		}

	case bookingModel.BookingStatusRefundPending:
		// The refund record is created by the reconciler in the same
		// transaction; nothing else changes here.
	}

	updates := map[string]interface{}{
		"status":     target,
		"updated_by": actorLabel(actor),
	}
	if target == bookingModel.BookingStatusCancelled && reason != "" {
		updates["cancellation_reason"] = reason
	}
	if err := tx.Model(&bookingModel.Booking{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.InternalError{Msg: "failed to update booking status", Err: err}
	}

	if err := appendLog(tx, &b, previous, target, actor, reason); err != nil {
		return nil, err
	}

	b.Status = target
	if target == bookingModel.BookingStatusCancelled && reason != "" {
		b.CancellationReason = &reason
	}

	logger.Success(fmt.Sprintf("Booking %s transitioned %s -> %s", b.Code, previous, target))
	return &b, nil
}

// CompleteIfCheckedIn completes a booking through the check-in flow: every
// ticket must be checked in first. Operator-initiated completion via
// Transition has no such requirement.
func (s *Service) CompleteIfCheckedIn(bookingID uint, actor Actor) (*bookingModel.Booking, error) {
	var result *bookingModel.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var tickets []bookingModel.Ticket
		if err := tx.Where("booking_id = ? AND status = ?", bookingID, bookingModel.TicketStatusActive).
			Find(&tickets).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to load tickets", Err: err}
		}
		if len(tickets) == 0 {
			return apperrors.ValidationError{Field: "booking_id", Msg: "booking has no active tickets"}
		}
		for _, t := range tickets {
			if !t.CheckedIn {
				return apperrors.ValidationError{
					Field: "tickets",
					Msg:   fmt.Sprintf("ticket %d is not checked in", t.ID),
				}
			}
		}

		b, err := s.TransitionTx(tx, bookingID, bookingModel.BookingStatusCompleted, actor, "all tickets checked in")
		if err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckIn marks one ticket as checked in. Only tickets of CONFIRMED
// bookings can check in.
func (s *Service) CheckIn(ticketID uint, actor Actor) (*bookingModel.Ticket, error) {
	var result *bookingModel.Ticket
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var t bookingModel.Ticket
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundError{Resource: "ticket", Err: err}
			}
			return apperrors.InternalError{Msg: "failed to load ticket", Err: err}
		}
		if t.Status != bookingModel.TicketStatusActive {
			return apperrors.ValidationError{Field: "ticket_id", Msg: fmt.Sprintf("ticket is %s", t.Status)}
		}

		var b bookingModel.Booking
		if err := tx.First(&b, t.BookingID).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to load booking", Err: err}
		}
		if b.Status != bookingModel.BookingStatusConfirmed {
			return apperrors.ValidationError{Field: "booking", Msg: fmt.Sprintf("booking is %s, check-in requires CONFIRMED", b.Status)}
		}

		nowTime := s.Now()
		if err := tx.Model(&bookingModel.Ticket{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
			"checked_in":    true,
			"checked_in_at": nowTime,
		}).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to check in ticket", Err: err}
		}

		t.CheckedIn = true
		t.CheckedInAt = &nowTime
		result = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) setTicketStatus(tx *gorm.DB, bookingID uint, status bookingModel.TicketStatus) error {
	err := tx.Model(&bookingModel.Ticket{}).
		Where("booking_id = ? AND status = ?", bookingID, bookingModel.TicketStatusActive).
		Update("status", status).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to update tickets", Err: err}
	}
	return nil
}

func (s *Service) releaseCapacity(tx *gorm.DB, b *bookingModel.Booking) error {
	var sd scheduleModel.ScheduleDate
	err := tx.Where("schedule_id = ? AND date = ?", b.ScheduleID, b.DepartureDate).First(&sd).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundError{Resource: "schedule date", Err: err}
		}
		return apperrors.InternalError{Msg: "failed to find schedule date", Err: err}
	}
	return s.Capacity.Release(tx, sd.ID, capacity.AmountsFromBooking(b))
}

// markPendingPayment resolves the booking's PENDING payment, if any.
func (s *Service) markPendingPayment(tx *gorm.DB, bookingID uint, to paymentModel.PaymentStatus) error {
	updates := map[string]interface{}{"status": to}
	if to == paymentModel.PaymentStatusSuccess {
		updates["paid_at"] = s.Now()
	}
	err := tx.Model(&paymentModel.Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, paymentModel.PaymentStatusPending).
		Updates(updates).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to update payment", Err: err}
	}
	return nil
}

func (s *Service) markSuccessfulPaymentRefunded(tx *gorm.DB, bookingID uint) error {
	err := tx.Model(&paymentModel.Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, paymentModel.PaymentStatusSuccess).
		Update("status", paymentModel.PaymentStatusRefunded).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to mark payment refunded", Err: err}
	}
	return nil
}

// appendLog writes the immutable audit row for one transition.
func appendLog(tx *gorm.DB, b *bookingModel.Booking, previous, next bookingModel.BookingStatus, actor Actor, reason string) error {
	entry := bookingModel.BookingLog{
		BookingID:      b.ID,
		PreviousStatus: previous,
		NewStatus:      next,
		ActorType:      actor.Type,
		ActorID:        actor.ID,
		IPAddress:      actor.IP,
	}
	if reason != "" {
		entry.Note = &reason
	}
	if err := tx.Create(&entry).Error; err != nil {
		return apperrors.InternalError{Msg: "failed to append booking log", Err: err}
	}
	return nil
}

func actorLabel(actor Actor) string {
	if actor.ID == 0 {
		return string(actor.Type)
	}
	return fmt.Sprintf("%s:%d", actor.Type, actor.ID)
}
