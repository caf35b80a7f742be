package capacity

import (
	"errors"
	"fmt"
	"time"

	"ferry-booking/apperrors"
	"ferry-booking/logger"
	bookingModel "ferry-booking/models/booking"
	"ferry-booking/models/ferry"
	scheduleModel "ferry-booking/models/schedule"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Amounts carries one reservation's demand per capacity class.
type Amounts struct {
	Passengers  int
	Motorcycles int
	Cars        int
	Buses       int
	Trucks      int
}

// For returns the amount for one class name.
func (a Amounts) For(class string) int {
	switch class {
	case ferry.ClassPassenger:
		return a.Passengers
	case ferry.ClassMotorcycle:
		return a.Motorcycles
	case ferry.ClassCar:
		return a.Cars
	case ferry.ClassBus:
		return a.Buses
	case ferry.ClassTruck:
		return a.Trucks
	default:
		return 0
	}
}

// IsZero reports whether nothing is requested.
func (a Amounts) IsZero() bool {
	return a.Passengers == 0 && a.Motorcycles == 0 && a.Cars == 0 && a.Buses == 0 && a.Trucks == 0
}

// AmountsFromBooking reads a booking's committed counts.
func AmountsFromBooking(b *bookingModel.Booking) Amounts {
	return Amounts{
		Passengers:  b.PassengerCount,
		Motorcycles: b.MotorcycleCount,
		Cars:        b.CarCount,
		Buses:       b.BusCount,
		Trucks:      b.TruckCount,
	}
}

// Service is the capacity ledger: per schedule-date counters bounded by the
// ferry's per-class capacities.
type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

// NewService creates a new capacity service.
func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:  db,
		Now: time.Now,
	}
}

// allClasses in ledger order.
var allClasses = []string{
	ferry.ClassPassenger,
	ferry.ClassMotorcycle,
	ferry.ClassCar,
	ferry.ClassBus,
	ferry.ClassTruck,
}

// counterColumn maps a class to its counter column on schedule_dates.
func counterColumn(class string) string {
	return class + "_count"
}

// lockDate loads a schedule date under a row lock so concurrent
// reservations and releases for the same sailing serialize.
func (s *Service) lockDate(tx *gorm.DB, scheduleDateID uint) (*scheduleModel.ScheduleDate, error) {
	var sd scheduleModel.ScheduleDate
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sd, scheduleDateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError{Resource: "schedule date", Err: err}
		}
		return nil, apperrors.InternalError{Msg: "failed to lock schedule date", Err: err}
	}
	return &sd, nil
}

func (s *Service) ferryForDate(tx *gorm.DB, sd *scheduleModel.ScheduleDate) (*ferry.Ferry, error) {
	var sched scheduleModel.Schedule
	if err := tx.First(&sched, sd.ScheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError{Resource: "schedule", Err: err}
		}
		return nil, apperrors.InternalError{Msg: "failed to load schedule", Err: err}
	}
	var f ferry.Ferry
	if err := tx.First(&f, sched.FerryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError{Resource: "ferry", Err: err}
		}
		return nil, apperrors.InternalError{Msg: "failed to load ferry", Err: err}
	}
	return &f, nil
}

// Reserve increments the date's counters by the requested amounts. The
// check and the increment happen under one row lock: if any class would
// exceed the ferry's capacity, nothing is mutated.
func (s *Service) Reserve(tx *gorm.DB, scheduleDateID uint, amounts Amounts) error {
	sd, err := s.lockDate(tx, scheduleDateID)
	if err != nil {
		return err
	}

	// A saturated sailing is a capacity rejection, not a bad request;
	// override statuses stay validation failures.
	if sd.Status == scheduleModel.DateStatusFull {
		class := allClasses[0]
		for _, c := range allClasses {
			if amounts.For(c) > 0 {
				class = c
				break
			}
		}
		return apperrors.CapacityExceededError{Class: class, Requested: amounts.For(class)}
	}
	if !sd.Status.Bookable() {
		return apperrors.ValidationError{Field: "schedule_date", Msg: fmt.Sprintf("sailing is %s", sd.Status)}
	}

	f, err := s.ferryForDate(tx, sd)
	if err != nil {
		return err
	}

	// Check every class before touching anything.
	for _, class := range allClasses {
		requested := amounts.For(class)
		if requested == 0 {
			continue
		}
		capForClass := f.CapacityFor(class)
		available := capForClass - sd.CountFor(class)
		if requested > available {
			return apperrors.CapacityExceededError{
				Class:     class,
				Requested: requested,
				Available: available,
			}
		}
	}

	updates := map[string]interface{}{}
	for _, class := range allClasses {
		if amounts.For(class) == 0 {
			continue
		}
		sd.SetCount(class, sd.CountFor(class)+amounts.For(class))
		updates[counterColumn(class)] = sd.CountFor(class)
	}

	// FULL is the only auto-computed status; overrides stay untouched.
	if derived := s.DeriveStatus(sd, f); derived != sd.Status && !sd.Status.IsOverride() {
		updates["status"] = derived
	}

	if err := tx.Model(&scheduleModel.ScheduleDate{}).Where("id = ?", sd.ID).Updates(updates).Error; err != nil {
		return apperrors.InternalError{Msg: "failed to update capacity counters", Err: err}
	}

	return nil
}

// Release decrements the date's counters. A decrement that would go below
// zero is clamped and the discrepancy logged; the release itself succeeds
// so a cancellation is never blocked by an earlier accounting bug.
func (s *Service) Release(tx *gorm.DB, scheduleDateID uint, amounts Amounts) error {
	sd, err := s.lockDate(tx, scheduleDateID)
	if err != nil {
		return err
	}

	f, err := s.ferryForDate(tx, sd)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	for _, class := range allClasses {
		released := amounts.For(class)
		if released == 0 {
			continue
		}
		next := sd.CountFor(class) - released
		if next < 0 {
			discrepancy := apperrors.DataIntegrityError{
				Resource: "schedule_date",
				Msg: fmt.Sprintf("release of %d %s on date %d would drive counter below zero (current %d), clamping",
					released, class, sd.ID, sd.CountFor(class)),
			}
			logger.Warning(discrepancy.Error())
			next = 0
		}
		sd.SetCount(class, next)
		updates[counterColumn(class)] = next
	}

	if derived := s.DeriveStatus(sd, f); derived != sd.Status && !sd.Status.IsOverride() {
		updates["status"] = derived
	}

	if len(updates) == 0 {
		return nil
	}

	if err := tx.Model(&scheduleModel.ScheduleDate{}).Where("id = ?", sd.ID).Updates(updates).Error; err != nil {
		return apperrors.InternalError{Msg: "failed to update capacity counters", Err: err}
	}

	return nil
}

// DeriveStatus computes AVAILABLE vs FULL from the counters. Override
// statuses (WEATHER_ISSUE, CANCELLED, UNAVAILABLE, DEPARTED) are never
// derived here; callers must not overwrite them with the result.
func (s *Service) DeriveStatus(sd *scheduleModel.ScheduleDate, f *ferry.Ferry) scheduleModel.DateStatus {
	if sd.Status.IsOverride() {
		return sd.Status
	}
	for _, class := range allClasses {
		if sd.CountFor(class) < f.CapacityFor(class) {
			return scheduleModel.DateStatusAvailable
		}
	}
	return scheduleModel.DateStatusFull
}
