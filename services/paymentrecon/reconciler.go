package paymentrecon

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"ferry-booking/apperrors"
	"ferry-booking/httpServices/paymentgw"
	"ferry-booking/logger"
	bookingModel "ferry-booking/models/booking"
	paymentModel "ferry-booking/models/payment"
	"ferry-booking/services/bookingstate"
	paymentType "ferry-booking/types/payment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service reconciles payments and refunds between the local ledger and the
// payment gateway. Local state commits first; gateway outcomes are folded
// in afterwards, so a crashed gateway call leaves a resumable record
// instead of a half-applied one.
type Service struct {
	DB       *gorm.DB
	Gateway  paymentgw.Gateway
	Bookings *bookingstate.Service
	Now      func() time.Time
}

// NewService creates a new payment reconciliation service.
func NewService(db *gorm.DB, gateway paymentgw.Gateway, bookings *bookingstate.Service) *Service {
	return &Service{
		DB:       db,
		Gateway:  gateway,
		Bookings: bookings,
		Now:      time.Now,
	}
}

// RequestRefund moves a CONFIRMED booking to REFUND_PENDING and records the
// refund, then submits it to the gateway. Bank details mark the refund as a
// manual payout, which never goes through the gateway.
func (s *Service) RequestRefund(req paymentType.RefundRequest, actor bookingstate.Actor) (*paymentModel.Refund, error) {
	if req.Reason == "" {
		return nil, apperrors.ValidationError{Field: "reason", Msg: "refund reason is required"}
	}
	manual := req.BankAccountNumber != ""
	if manual && (req.BankName == "" || req.BankAccountHolder == "") {
		return nil, apperrors.ValidationError{Field: "bank_name", Msg: "manual refunds need bank name and account holder"}
	}

	var refund *paymentModel.Refund
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p paymentModel.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("booking_id = ? AND status = ?", req.BookingID, paymentModel.PaymentStatusSuccess).
			First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ValidationError{Field: "booking_id", Msg: "booking has no successful payment to refund"}
			}
			return apperrors.InternalError{Msg: "failed to load payment", Err: err}
		}

		var existing paymentModel.Refund
		err = tx.Where("payment_id = ?", p.ID).First(&existing).Error
		if err == nil {
			return apperrors.ValidationError{Field: "booking_id", Msg: fmt.Sprintf("payment already has refund %d (%s)", existing.ID, existing.Status)}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.InternalError{Msg: "failed to check existing refund", Err: err}
		}

		// Validates the booking is CONFIRMED and writes the audit row.
		if _, err := s.Bookings.TransitionTx(tx, req.BookingID, bookingModel.BookingStatusRefundPending, actor, req.Reason); err != nil {
			return err
		}

		r := paymentModel.Refund{
			PaymentID:      p.ID,
			BookingID:      req.BookingID,
			Amount:         p.Amount,
			Reason:         req.Reason,
			Status:         paymentModel.RefundStatusPending,
			RequiresManual: manual,
			CreatedBy:      actorLabel(actor),
		}
		if manual {
			r.BankName = &req.BankName
			r.BankAccountNumber = &req.BankAccountNumber
			r.BankAccountHolder = &req.BankAccountHolder
		}
		if err := tx.Create(&r).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to create refund", Err: err}
		}
		refund = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !refund.RequiresManual {
		if err := s.submitToGateway(refund); err != nil {
			// The refund is committed; the pending sweep resubmits it.
			logger.Warning(fmt.Sprintf("Refund %d gateway submission failed, will retry: %v", refund.ID, err))
		}
	}
	return refund, nil
}

// submitToGateway sends one not-yet-submitted refund and records the
// gateway reference. Refunds with a reference are never resubmitted.
func (s *Service) submitToGateway(r *paymentModel.Refund) error {
	if r.RefundRef != "" {
		return nil
	}

	var p paymentModel.Payment
	if err := s.DB.First(&p, r.PaymentID).Error; err != nil {
		return apperrors.InternalError{Msg: "failed to load payment for refund", Err: err}
	}

	resp, err := s.Gateway.RequestRefund(paymentgw.RefundRequest{
		TransactionRef: p.TransactionRef,
		Amount:         r.Amount,
		Reason:         r.Reason,
	})
	if err != nil {
		return apperrors.GatewayError{Operation: "request refund", Err: err}
	}

	updates := map[string]interface{}{
		"refund_ref":      resp.RefundRef,
		"requires_manual": resp.RequiresManualProcess,
	}
	if !resp.RequiresManualProcess {
		updates["status"] = paymentModel.RefundStatusProcessing
	}
	if err := s.DB.Model(&paymentModel.Refund{}).Where("id = ?", r.ID).Updates(updates).Error; err != nil {
		return apperrors.InternalError{Msg: "failed to record gateway reference", Err: err}
	}

	r.RefundRef = resp.RefundRef
	r.RequiresManual = resp.RequiresManualProcess
	if !resp.RequiresManualProcess {
		r.Status = paymentModel.RefundStatusProcessing
	}
	logger.Success(fmt.Sprintf("Refund %d submitted to gateway as %s", r.ID, resp.RefundRef))
	return nil
}

// SubmitPendingRefunds retries gateway submission for refunds that were
// committed locally but never accepted by the gateway.
func (s *Service) SubmitPendingRefunds() error {
	var refunds []paymentModel.Refund
	err := s.DB.Where("status = ? AND refund_ref = '' AND requires_manual = ?",
		paymentModel.RefundStatusPending, false).
		Find(&refunds).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to load pending refunds", Err: err}
	}

	for i := range refunds {
		if err := s.submitToGateway(&refunds[i]); err != nil {
			logger.Warning(fmt.Sprintf("Refund %d resubmission failed: %v", refunds[i].ID, err))
		}
	}
	return nil
}

// mapGatewayStatus translates the gateway's numeric refund status into a
// local refund status.
func mapGatewayStatus(code int) paymentModel.RefundStatus {
	switch code {
	case http.StatusOK:
		return paymentModel.RefundStatusSuccess
	case http.StatusPreconditionFailed, http.StatusInternalServerError:
		return paymentModel.RefundStatusFailed
	default:
		// 202 and anything unrecognized: still in flight.
		return paymentModel.RefundStatusProcessing
	}
}

// CheckRefundStatus polls the gateway for one refund and folds the outcome
// into the booking and payment.
func (s *Service) CheckRefundStatus(refundID uint) (*paymentModel.Refund, error) {
	var r paymentModel.Refund
	if err := s.DB.First(&r, refundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError{Resource: "refund", Err: err}
		}
		return nil, apperrors.InternalError{Msg: "failed to load refund", Err: err}
	}
	if r.Status.IsFinal() {
		return &r, nil
	}
	if r.RefundRef == "" {
		return nil, apperrors.ValidationError{Field: "refund_id", Msg: "refund has not been accepted by the gateway yet"}
	}

	code, err := s.Gateway.CheckRefundStatus(r.RefundRef)
	if err != nil {
		return nil, apperrors.GatewayError{Operation: "check refund status", Err: err}
	}

	next := mapGatewayStatus(code)
	if next == r.Status {
		return &r, nil
	}

	if err := s.applyRefundOutcome(&r, next); err != nil {
		return nil, err
	}
	return &r, nil
}

// applyRefundOutcome commits a refund status change together with its
// booking transition in one transaction.
func (s *Service) applyRefundOutcome(r *paymentModel.Refund, next paymentModel.RefundStatus) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": next}

		switch next {
		case paymentModel.RefundStatusSuccess:
			nowTime := s.Now()
			updates["processed_at"] = nowTime
			r.ProcessedAt = &nowTime
			if _, err := s.Bookings.TransitionTx(tx, r.BookingID, bookingModel.BookingStatusRefunded, bookingstate.SystemActor, "refund settled"); err != nil {
				return err
			}
		case paymentModel.RefundStatusFailed:
			if _, err := s.Bookings.TransitionTx(tx, r.BookingID, bookingModel.BookingStatusConfirmed, bookingstate.SystemActor, "refund failed"); err != nil {
				return err
			}
		}

		if err := tx.Model(&paymentModel.Refund{}).Where("id = ?", r.ID).Updates(updates).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to update refund status", Err: err}
		}
		r.Status = next
		logger.Info(fmt.Sprintf("Refund %d moved to %s", r.ID, next))
		return nil
	})
}

// CancelRefund withdraws a refund that the gateway has not started
// processing and returns the booking to CONFIRMED.
func (s *Service) CancelRefund(refundID uint, actor bookingstate.Actor) (*paymentModel.Refund, error) {
	var r paymentModel.Refund
	if err := s.DB.First(&r, refundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError{Resource: "refund", Err: err}
		}
		return nil, apperrors.InternalError{Msg: "failed to load refund", Err: err}
	}
	if r.Status != paymentModel.RefundStatusPending {
		return nil, apperrors.ValidationError{Field: "refund_id", Msg: fmt.Sprintf("refund is %s, only PENDING refunds can be cancelled", r.Status)}
	}

	// Tell the gateway first: if the cancel call fails, local state is
	// untouched and the caller can retry.
	if r.RefundRef != "" {
		if err := s.Gateway.CancelRefund(r.RefundRef); err != nil {
			return nil, apperrors.GatewayError{Operation: "cancel refund", Err: err}
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Bookings.TransitionTx(tx, r.BookingID, bookingModel.BookingStatusConfirmed, actor, "refund cancelled"); err != nil {
			return err
		}
		if err := tx.Model(&paymentModel.Refund{}).Where("id = ?", r.ID).
			Update("status", paymentModel.RefundStatusCancelled).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to cancel refund", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.Status = paymentModel.RefundStatusCancelled
	return &r, nil
}

// CompleteManualRefund settles a manual bank payout, optionally linking the
// parsed payout slip that evidences the transfer.
func (s *Service) CompleteManualRefund(refundID uint, slipRequestID *uint, actor bookingstate.Actor) (*paymentModel.Refund, error) {
	var r paymentModel.Refund
	if err := s.DB.First(&r, refundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError{Resource: "refund", Err: err}
		}
		return nil, apperrors.InternalError{Msg: "failed to load refund", Err: err}
	}
	if !r.RequiresManual {
		return nil, apperrors.ValidationError{Field: "refund_id", Msg: "refund is not a manual payout"}
	}
	if r.Status.IsFinal() {
		return nil, apperrors.ValidationError{Field: "refund_id", Msg: fmt.Sprintf("refund is already %s", r.Status)}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		nowTime := s.Now()
		updates := map[string]interface{}{
			"status":       paymentModel.RefundStatusSuccess,
			"processed_at": nowTime,
		}
		if slipRequestID != nil {
			updates["slip_request_id"] = *slipRequestID
		}
		if _, err := s.Bookings.TransitionTx(tx, r.BookingID, bookingModel.BookingStatusRefunded, actor, "manual payout settled"); err != nil {
			return err
		}
		if err := tx.Model(&paymentModel.Refund{}).Where("id = ?", r.ID).Updates(updates).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to settle manual refund", Err: err}
		}
		r.Status = paymentModel.RefundStatusSuccess
		r.ProcessedAt = &nowTime
		r.SlipRequestID = slipRequestID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// PollProcessingRefunds checks every in-flight refund against the gateway.
// One refund's failure does not stop the batch.
func (s *Service) PollProcessingRefunds() error {
	var refunds []paymentModel.Refund
	err := s.DB.Where("status = ? AND refund_ref <> ''", paymentModel.RefundStatusProcessing).
		Find(&refunds).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to load processing refunds", Err: err}
	}

	for i := range refunds {
		if _, err := s.CheckRefundStatus(refunds[i].ID); err != nil {
			logger.Warning(fmt.Sprintf("Refund %d status poll failed: %v", refunds[i].ID, err))
		}
	}
	return nil
}

// ExpirePendingPayments cancels bookings whose pending payment passed its
// expiry. Each booking is handled in its own transaction so one failure
// does not block the rest.
func (s *Service) ExpirePendingPayments() error {
	var payments []paymentModel.Payment
	err := s.DB.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
		paymentModel.PaymentStatusPending, s.Now()).
		Find(&payments).Error
	if err != nil {
		return apperrors.InternalError{Msg: "failed to load expired payments", Err: err}
	}

	for _, p := range payments {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			// Expire first so the cancellation's payment sweep sees no
			// pending payment and leaves the EXPIRED status alone.
			res := tx.Model(&paymentModel.Payment{}).
				Where("id = ? AND status = ?", p.ID, paymentModel.PaymentStatusPending).
				Update("status", paymentModel.PaymentStatusExpired)
			if res.Error != nil {
				return apperrors.InternalError{Msg: "failed to expire payment", Err: res.Error}
			}
			if res.RowsAffected == 0 {
				// Settled by a concurrent confirmation.
				return nil
			}
			_, err := s.Bookings.TransitionTx(tx, p.BookingID, bookingModel.BookingStatusCancelled, bookingstate.SystemActor, "payment expired")
			return err
		})
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to expire payment %d: %v", p.ID, err))
			continue
		}
		logger.Info(fmt.Sprintf("Payment %d expired, booking %d cancelled", p.ID, p.BookingID))
	}
	return nil
}

func actorLabel(actor bookingstate.Actor) string {
	if actor.ID == 0 {
		return string(actor.Type)
	}
	return fmt.Sprintf("%s:%d", actor.Type, actor.ID)
}
