package capacity

import (
	"testing"

	scheduleModel "ferry-booking/models/schedule"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReactivationRestoresFullWhenSaturated(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id", "status"}).
			AddRow(2, 3, 4, string(scheduleModel.StatusInactive)))
	mock.ExpectExec(`UPDATE "schedules"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "schedule_dates"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id", "passenger_count", "motorcycle_count", "car_count", "bus_count", "truck_count", "status", "status_origin"}).
			AddRow(9, 2, 10, 0, 0, 0, 0, string(scheduleModel.DateStatusUnavailable), string(scheduleModel.OriginDerived)))
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id"}).AddRow(2, 3, 4))
	mock.ExpectQuery(`SELECT .* FROM "ferries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_capacity"}).AddRow(3, 10))
	// A sold-out sailing must come back FULL, not AVAILABLE.
	mock.ExpectExec(`UPDATE "schedule_dates"`).
		WithArgs(string(scheduleModel.DateStatusFull), string(scheduleModel.OriginIndependent), nil, sqlmock.AnyArg(), 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.SetScheduleStatus(2, scheduleModel.StatusActive, "", nil); err != nil {
		t.Fatalf("expected reactivation to succeed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReactivationRestoresAvailableWithHeadroom(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id", "status"}).
			AddRow(2, 3, 4, string(scheduleModel.StatusInactive)))
	mock.ExpectExec(`UPDATE "schedules"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "schedule_dates"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id", "passenger_count", "motorcycle_count", "car_count", "bus_count", "truck_count", "status", "status_origin"}).
			AddRow(9, 2, 4, 0, 0, 0, 0, string(scheduleModel.DateStatusUnavailable), string(scheduleModel.OriginDerived)))
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id"}).AddRow(2, 3, 4))
	mock.ExpectQuery(`SELECT .* FROM "ferries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_capacity"}).AddRow(3, 10))
	mock.ExpectExec(`UPDATE "schedule_dates"`).
		WithArgs(string(scheduleModel.DateStatusAvailable), string(scheduleModel.OriginIndependent), nil, sqlmock.AnyArg(), 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.SetScheduleStatus(2, scheduleModel.StatusActive, "", nil); err != nil {
		t.Fatalf("expected reactivation to succeed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSweepExpiredRestoresFullWhenSaturated(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT .* FROM "schedule_dates"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id", "passenger_count", "motorcycle_count", "car_count", "bus_count", "truck_count", "status", "status_origin"}).
			AddRow(9, 2, 10, 0, 0, 0, 0, string(scheduleModel.DateStatusWeatherIssue), string(scheduleModel.OriginIndependent)))
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id"}).AddRow(2, 3, 4))
	mock.ExpectQuery(`SELECT .* FROM "ferries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_capacity"}).AddRow(3, 10))
	mock.ExpectExec(`UPDATE "schedule_dates"`).
		WithArgs(string(scheduleModel.DateStatusFull), nil, string(scheduleModel.OriginIndependent), nil, sqlmock.AnyArg(), 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id"}))

	reverted, err := svc.SweepExpired()
	if err != nil {
		t.Fatalf("expected sweep to succeed, got %v", err)
	}
	if reverted != 1 {
		t.Errorf("expected 1 reverted record, got %d", reverted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
