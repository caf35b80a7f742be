package scheduler

import (
	"fmt"
	"sync"
	"time"

	"ferry-booking/logger"
	notificationModel "ferry-booking/models/notification"
	"ferry-booking/services/capacity"
	"ferry-booking/services/notification"
	"ferry-booking/services/paymentrecon"
	"ferry-booking/services/slipparser"
)

const (
	checkinInterval      = 1 * time.Hour
	boardingInterval     = 15 * time.Minute
	paymentInterval      = 30 * time.Minute
	retryInterval        = 1 * time.Hour
	cleanupInterval      = 24 * time.Hour
	sweepInterval        = 1 * time.Hour
	expiryInterval       = 10 * time.Minute
	refundPollInterval   = 15 * time.Minute
	refundSubmitInterval = 30 * time.Minute
	slipCleanupInterval  = 24 * time.Hour
	slipRetentionDays    = 90
	retryMaxAge          = 24 * time.Hour
	retryMaxAttempts     = 3
)

// Scheduler drives the periodic jobs: reminder dispatch, failed reminder
// retries, log cleanup, capacity status sweeps, payment expiry and refund
// polling. Each job runs on its own ticker; a panicking run is logged and
// the ticker keeps going.
type Scheduler struct {
	Capacity      *capacity.Service
	Notifications *notification.Service
	Payments      *paymentrecon.Service
	Slips         *slipparser.Service

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a scheduler over the given services.
func New(capacitySvc *capacity.Service, notificationSvc *notification.Service, paymentSvc *paymentrecon.Service, slipSvc *slipparser.Service) *Scheduler {
	return &Scheduler{
		Capacity:      capacitySvc,
		Notifications: notificationSvc,
		Payments:      paymentSvc,
		Slips:         slipSvc,
		stop:          make(chan struct{}),
	}
}

// Start launches all job tickers.
func (s *Scheduler) Start() {
	s.every("checkin-reminders", checkinInterval, func() error {
		return s.Notifications.Run(notificationModel.KindCheckin)
	})
	s.every("boarding-reminders", boardingInterval, func() error {
		return s.Notifications.Run(notificationModel.KindBoarding)
	})
	s.every("payment-reminders", paymentInterval, func() error {
		return s.Notifications.Run(notificationModel.KindPayment)
	})
	s.every("notification-retry", retryInterval, func() error {
		return s.Notifications.RetryFailed(retryMaxAge, retryMaxAttempts)
	})
	s.every("notification-cleanup", cleanupInterval, func() error {
		return s.Notifications.Cleanup(0, 0)
	})
	s.every("capacity-sweep", sweepInterval, func() error {
		_, err := s.Capacity.SweepExpired()
		return err
	})
	s.every("payment-expiry", expiryInterval, s.Payments.ExpirePendingPayments)
	s.every("refund-poll", refundPollInterval, s.Payments.PollProcessingRefunds)
	s.every("refund-submit", refundSubmitInterval, s.Payments.SubmitPendingRefunds)
	s.every("slip-cleanup", slipCleanupInterval, func() error {
		return s.Slips.CleanupOldFiles(slipRetentionDays)
	})

	logger.Info("Scheduler started")
}

// Stop signals all tickers to exit and waits for in-flight runs.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
	logger.Info("Scheduler stopped")
}

func (s *Scheduler) every(name string, interval time.Duration, job func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runJob(name, job)
			case <-s.stop:
				return
			}
		}
	}()
}

// runJob isolates one run: a panic or error is logged and never takes
// down the process or the ticker.
func (s *Scheduler) runJob(name string, job func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Job %s panicked: %v", name, r), nil)
		}
	}()

	if err := job(); err != nil {
		logger.Error(fmt.Sprintf("Job %s failed", name), err)
	}
}
