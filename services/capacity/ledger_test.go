package capacity

import (
	"testing"

	"ferry-booking/apperrors"
	bookingModel "ferry-booking/models/booking"
	"ferry-booking/models/ferry"
	scheduleModel "ferry-booking/models/schedule"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return gdb, mock
}

func TestAmountsFor(t *testing.T) {
	a := Amounts{Passengers: 3, Motorcycles: 1, Cars: 2, Buses: 4, Trucks: 5}

	cases := map[string]int{
		ferry.ClassPassenger:  3,
		ferry.ClassMotorcycle: 1,
		ferry.ClassCar:        2,
		ferry.ClassBus:        4,
		ferry.ClassTruck:      5,
		"bicycle":             0,
	}
	for class, want := range cases {
		if got := a.For(class); got != want {
			t.Errorf("For(%s) = %d, want %d", class, got, want)
		}
	}
}

func TestAmountsIsZero(t *testing.T) {
	if !(Amounts{}).IsZero() {
		t.Error("empty amounts should be zero")
	}
	if (Amounts{Trucks: 1}).IsZero() {
		t.Error("non-empty amounts should not be zero")
	}
}

func TestAmountsFromBooking(t *testing.T) {
	b := bookingModel.Booking{
		PassengerCount:  2,
		MotorcycleCount: 1,
		CarCount:        1,
		BusCount:        0,
		TruckCount:      3,
	}
	got := AmountsFromBooking(&b)
	want := Amounts{Passengers: 2, Motorcycles: 1, Cars: 1, Buses: 0, Trucks: 3}
	if got != want {
		t.Errorf("AmountsFromBooking = %+v, want %+v", got, want)
	}
}

func TestDeriveStatus(t *testing.T) {
	svc := NewService(nil)
	f := &ferry.Ferry{
		PassengerCapacity:  10,
		MotorcycleCapacity: 2,
		CarCapacity:        2,
		BusCapacity:        1,
		TruckCapacity:      1,
	}

	sd := &scheduleModel.ScheduleDate{Status: scheduleModel.DateStatusAvailable}
	if got := svc.DeriveStatus(sd, f); got != scheduleModel.DateStatusAvailable {
		t.Errorf("empty date should derive AVAILABLE, got %s", got)
	}

	sd = &scheduleModel.ScheduleDate{
		Status:          scheduleModel.DateStatusAvailable,
		PassengerCount:  10,
		MotorcycleCount: 2,
		CarCount:        2,
		BusCount:        1,
		TruckCount:      1,
	}
	if got := svc.DeriveStatus(sd, f); got != scheduleModel.DateStatusFull {
		t.Errorf("saturated date should derive FULL, got %s", got)
	}

	// One free slot in any class keeps the date available.
	sd.CarCount = 1
	if got := svc.DeriveStatus(sd, f); got != scheduleModel.DateStatusAvailable {
		t.Errorf("date with free car slot should derive AVAILABLE, got %s", got)
	}

	// Overrides pass through untouched.
	sd.Status = scheduleModel.DateStatusWeatherIssue
	if got := svc.DeriveStatus(sd, f); got != scheduleModel.DateStatusWeatherIssue {
		t.Errorf("override status should be preserved, got %s", got)
	}
}

func scheduleDateRows(passengerCount int, status scheduleModel.DateStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "schedule_id", "passenger_count", "motorcycle_count", "car_count", "bus_count", "truck_count", "status", "status_origin"}).
		AddRow(1, 7, passengerCount, 0, 0, 0, 0, string(status), "INDEPENDENT")
}

func TestReserveRejectsOverCapacity(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT .* FROM "schedule_dates"`).
		WillReturnRows(scheduleDateRows(9, scheduleModel.DateStatusAvailable))
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id"}).AddRow(7, 3, 4))
	mock.ExpectQuery(`SELECT .* FROM "ferries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_capacity"}).AddRow(3, 10))

	err := svc.Reserve(gdb, 1, Amounts{Passengers: 2})
	if !apperrors.IsCapacityExceeded(err) {
		t.Fatalf("expected capacity exceeded error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveRejectsFullDate(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT .* FROM "schedule_dates"`).
		WillReturnRows(scheduleDateRows(10, scheduleModel.DateStatusFull))

	err := svc.Reserve(gdb, 1, Amounts{Passengers: 1})
	if !apperrors.IsCapacityExceeded(err) {
		t.Fatalf("expected capacity exceeded error for full sailing, got %v", err)
	}
}

func TestReserveRejectsUnbookableDate(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT .* FROM "schedule_dates"`).
		WillReturnRows(scheduleDateRows(0, scheduleModel.DateStatusWeatherIssue))

	err := svc.Reserve(gdb, 1, Amounts{Passengers: 1})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReserveIncrementsCounters(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT .* FROM "schedule_dates"`).
		WillReturnRows(scheduleDateRows(4, scheduleModel.DateStatusAvailable))
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id"}).AddRow(7, 3, 4))
	mock.ExpectQuery(`SELECT .* FROM "ferries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_capacity"}).AddRow(3, 10))
	mock.ExpectExec(`UPDATE "schedule_dates"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Reserve(gdb, 1, Amounts{Passengers: 2}); err != nil {
		t.Fatalf("expected reservation to succeed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReleaseClampsAtZero(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT .* FROM "schedule_dates"`).
		WillReturnRows(scheduleDateRows(1, scheduleModel.DateStatusAvailable))
	mock.ExpectQuery(`SELECT .* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id"}).AddRow(7, 3, 4))
	mock.ExpectQuery(`SELECT .* FROM "ferries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_capacity"}).AddRow(3, 10))
	mock.ExpectExec(`UPDATE "schedule_dates"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Releasing more than is held succeeds and clamps instead of going negative.
	if err := svc.Release(gdb, 1, Amounts{Passengers: 5}); err != nil {
		t.Fatalf("expected release to succeed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
