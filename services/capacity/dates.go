package capacity

import (
	"errors"
	"fmt"
	"time"

	"ferry-booking/apperrors"
	"ferry-booking/logger"
	scheduleModel "ferry-booking/models/schedule"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// AddDate creates one sailing date for a schedule. The date's weekday must
// be in the schedule's operating set.
func (s *Service) AddDate(scheduleID uint, date time.Time) (*scheduleModel.ScheduleDate, error) {
	var sched scheduleModel.Schedule
	if err := s.DB.First(&sched, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError{Resource: "schedule", Err: err}
		}
		return nil, apperrors.InternalError{Msg: "failed to load schedule", Err: err}
	}

	day := now.New(date).BeginningOfDay()
	if !sched.OperatesOn(day.Weekday()) {
		return nil, apperrors.ValidationError{
			Field: "date",
			Msg:   fmt.Sprintf("schedule does not operate on %s", day.Weekday()),
		}
	}

	var existing scheduleModel.ScheduleDate
	err := s.DB.Where("schedule_id = ? AND date = ?", scheduleID, day).First(&existing).Error
	if err == nil {
		return nil, apperrors.ValidationError{Field: "date", Msg: "sailing date already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError{Msg: "failed to check existing date", Err: err}
	}

	sd := scheduleModel.ScheduleDate{
		ScheduleID:   scheduleID,
		Date:         day,
		Status:       scheduleModel.DateStatusAvailable,
		StatusOrigin: scheduleModel.OriginIndependent,
	}
	if sched.Status == scheduleModel.StatusInactive {
		sd.Status = scheduleModel.DateStatusUnavailable
		sd.StatusOrigin = scheduleModel.OriginDerived
	}

	if err := s.DB.Create(&sd).Error; err != nil {
		return nil, apperrors.InternalError{Msg: "failed to create schedule date", Err: err}
	}

	return &sd, nil
}

// GenerateDates creates sailing dates over an inclusive range, silently
// skipping non-operating weekdays and dates that already exist. Zero
// created records is reported as an error.
func (s *Service) GenerateDates(scheduleID uint, from, to time.Time) (int, error) {
	var sched scheduleModel.Schedule
	if err := s.DB.First(&sched, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFoundError{Resource: "schedule", Err: err}
		}
		return 0, apperrors.InternalError{Msg: "failed to load schedule", Err: err}
	}

	start := now.New(from).BeginningOfDay()
	end := now.New(to).BeginningOfDay()
	if end.Before(start) {
		return 0, apperrors.ValidationError{Field: "to_date", Msg: "range end before range start"}
	}

	created := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !sched.OperatesOn(day.Weekday()) {
			continue
		}

		var existing scheduleModel.ScheduleDate
		err := s.DB.Where("schedule_id = ? AND date = ?", scheduleID, day).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, apperrors.InternalError{Msg: "failed to check existing date", Err: err}
		}

		sd := scheduleModel.ScheduleDate{
			ScheduleID:   scheduleID,
			Date:         day,
			Status:       scheduleModel.DateStatusAvailable,
			StatusOrigin: scheduleModel.OriginIndependent,
		}
		if sched.Status == scheduleModel.StatusInactive {
			sd.Status = scheduleModel.DateStatusUnavailable
			sd.StatusOrigin = scheduleModel.OriginDerived
		}
		if err := s.DB.Create(&sd).Error; err != nil {
			return created, apperrors.InternalError{Msg: "failed to create schedule date", Err: err}
		}
		created++
	}

	if created == 0 {
		return 0, apperrors.ValidationError{
			Field: "date_range",
			Msg:   "no dates in range fall on the schedule's operating days",
		}
	}

	return created, nil
}

// DeleteDate removes a sailing date. Only allowed while all counters are
// zero; committed capacity means live bookings.
func (s *Service) DeleteDate(scheduleDateID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		sd, err := s.lockDate(tx, scheduleDateID)
		if err != nil {
			return err
		}

		for _, class := range allClasses {
			if sd.CountFor(class) > 0 {
				return apperrors.ValidationError{
					Field: "schedule_date",
					Msg:   fmt.Sprintf("cannot delete: %d %s slots still committed", sd.CountFor(class), class),
				}
			}
		}

		if err := tx.Delete(&scheduleModel.ScheduleDate{}, sd.ID).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to delete schedule date", Err: err}
		}
		return nil
	})
}

// SetDateStatus sets an independent status override on one sailing date,
// optionally with an auto-revert expiry (WEATHER_ISSUE reverts to
// AVAILABLE once the expiry passes).
func (s *Service) SetDateStatus(scheduleDateID uint, status scheduleModel.DateStatus, reason string, expiresAt *time.Time) error {
	updates := map[string]interface{}{
		"status":        status,
		"status_origin": scheduleModel.OriginIndependent,
	}
	if reason != "" {
		updates["status_reason"] = reason
	} else {
		updates["status_reason"] = nil
	}
	updates["status_expiry_date"] = expiresAt

	result := s.DB.Model(&scheduleModel.ScheduleDate{}).Where("id = ?", scheduleDateID).Updates(updates)
	if result.Error != nil {
		return apperrors.InternalError{Msg: "failed to set date status", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundError{Resource: "schedule date"}
	}
	return nil
}

// SetScheduleStatus (de)activates a schedule. Deactivation cascades an
// UNAVAILABLE status to future dates that have not been independently
// overridden, marking them DERIVED so reactivation (manual or via the
// expiry sweep) can revert exactly those.
func (s *Service) SetScheduleStatus(scheduleID uint, status scheduleModel.Status, reason string, expiresAt *time.Time) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sched scheduleModel.Schedule
		if err := tx.First(&sched, scheduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundError{Resource: "schedule", Err: err}
			}
			return apperrors.InternalError{Msg: "failed to load schedule", Err: err}
		}

		updates := map[string]interface{}{
			"status":             status,
			"status_expiry_date": expiresAt,
		}
		if reason != "" {
			updates["status_reason"] = reason
		} else {
			updates["status_reason"] = nil
		}
		if err := tx.Model(&scheduleModel.Schedule{}).Where("id = ?", scheduleID).Updates(updates).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to set schedule status", Err: err}
		}

		today := now.New(s.Now()).BeginningOfDay()

		if status == scheduleModel.StatusInactive {
			// Cascade to future dates still carrying a derivable status.
			err := tx.Model(&scheduleModel.ScheduleDate{}).
				Where("schedule_id = ? AND date >= ? AND status IN ?", scheduleID, today,
					[]scheduleModel.DateStatus{scheduleModel.DateStatusAvailable, scheduleModel.DateStatusFull}).
				Updates(map[string]interface{}{
					"status":        scheduleModel.DateStatusUnavailable,
					"status_origin": scheduleModel.OriginDerived,
					"status_reason": reason,
				}).Error
			if err != nil {
				return apperrors.InternalError{Msg: "failed to cascade schedule deactivation", Err: err}
			}
		} else {
			// Reactivation reverts only the dates the cascade touched,
			// recomputing each one from its counters so a saturated
			// sailing comes back FULL rather than AVAILABLE.
			var derived []scheduleModel.ScheduleDate
			err := tx.Where("schedule_id = ? AND date >= ? AND status_origin = ?",
				scheduleID, today, scheduleModel.OriginDerived).
				Find(&derived).Error
			if err != nil {
				return apperrors.InternalError{Msg: "failed to load derived dates", Err: err}
			}
			if len(derived) > 0 {
				f, err := s.ferryForDate(tx, &derived[0])
				if err != nil {
					return err
				}
				for i := range derived {
					sd := &derived[i]
					sd.Status = scheduleModel.DateStatusAvailable
					err := tx.Model(&scheduleModel.ScheduleDate{}).
						Where("id = ?", sd.ID).
						Updates(map[string]interface{}{
							"status":        s.DeriveStatus(sd, f),
							"status_origin": scheduleModel.OriginIndependent,
							"status_reason": nil,
						}).Error
					if err != nil {
						return apperrors.InternalError{Msg: "failed to cascade schedule reactivation", Err: err}
					}
				}
			}
		}

		return nil
	})
}

// SweepExpired auto-reverts expired status overrides: WEATHER_ISSUE dates
// back to their counter-derived status, and INACTIVE schedules back to
// ACTIVE together with their DERIVED dates. Returns the number of
// reverted records.
func (s *Service) SweepExpired() (int, error) {
	nowTime := s.Now()
	reverted := 0

	var expiredDates []scheduleModel.ScheduleDate
	err := s.DB.Where("status = ? AND status_expiry_date IS NOT NULL AND status_expiry_date < ?",
		scheduleModel.DateStatusWeatherIssue, nowTime).
		Find(&expiredDates).Error
	if err != nil {
		return 0, apperrors.InternalError{Msg: "failed to find expired date statuses", Err: err}
	}

	for i := range expiredDates {
		sd := &expiredDates[i]
		f, err := s.ferryForDate(s.DB, sd)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to load ferry for schedule date %d", sd.ID), err)
			continue
		}
		// Counters decide whether the sailing comes back AVAILABLE or FULL.
		sd.Status = scheduleModel.DateStatusAvailable
		err = s.DB.Model(&scheduleModel.ScheduleDate{}).
			Where("id = ?", sd.ID).
			Updates(map[string]interface{}{
				"status":             s.DeriveStatus(sd, f),
				"status_reason":      nil,
				"status_expiry_date": nil,
				"status_origin":      scheduleModel.OriginIndependent,
			}).Error
		if err != nil {
			return reverted, apperrors.InternalError{Msg: "failed to sweep expired date statuses", Err: err}
		}
		reverted++
	}

	var expiredSchedules []scheduleModel.Schedule
	err = s.DB.Where("status = ? AND status_expiry_date IS NOT NULL AND status_expiry_date < ?",
		scheduleModel.StatusInactive, nowTime).
		Find(&expiredSchedules).Error
	if err != nil {
		return reverted, apperrors.InternalError{Msg: "failed to find expired schedules", Err: err}
	}

	for _, sched := range expiredSchedules {
		if err := s.SetScheduleStatus(sched.ID, scheduleModel.StatusActive, "", nil); err != nil {
			// One broken schedule must not stall the sweep.
			logger.Error(fmt.Sprintf("Failed to reactivate expired schedule %d", sched.ID), err)
			continue
		}
		reverted++
	}

	return reverted, nil
}
