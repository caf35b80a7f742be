package bookingstate

import (
	"testing"
	"time"

	"ferry-booking/apperrors"
	bookingModel "ferry-booking/models/booking"
	"ferry-booking/services/capacity"

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

func TestTransitionCancelReleasesCapacityAndSettlesPayment(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb, capacity.NewService(gdb))
	svc.Now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

	departure := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()

	// Booking row locked for the whole unit.
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "code", "user_id", "schedule_id", "departure_date", "status",
			"passenger_count", "motorcycle_count", "car_count", "bus_count", "truck_count",
		}).AddRow(1, "FB-TEST000001", 1, 2, departure, "PENDING", 2, 0, 1, 0, 0))

	// Active tickets flip to CANCELLED.
	mock.ExpectExec(`UPDATE "tickets"`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	// Capacity release: resolve the sailing, lock it, load ferry limits,
	// write the decremented counters.
	mock.ExpectQuery(`SELECT \* FROM "schedule_dates" WHERE schedule_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id"}).AddRow(10, 2))
	mock.ExpectQuery(`SELECT \* FROM "schedule_dates" WHERE "schedule_dates"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "schedule_id", "passenger_count", "motorcycle_count", "car_count", "bus_count", "truck_count", "status", "status_origin",
		}).AddRow(10, 2, 2, 0, 1, 0, 0, "AVAILABLE", "DERIVED"))
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ferry_id", "route_id"}).AddRow(2, 3, 4))
	mock.ExpectQuery(`SELECT \* FROM "ferries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_capacity", "car_capacity"}).AddRow(3, 100, 10))
	mock.ExpectExec(`UPDATE "schedule_dates"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The pending payment fails rather than lingering.
	mock.ExpectExec(`UPDATE "payments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "booking_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	mock.ExpectCommit()

	actor := Actor{Type: bookingModel.ActorOperator, ID: 9, IP: "10.0.0.1"}
	b, err := svc.Transition(1, bookingModel.BookingStatusCancelled, actor, "weather hold")
	if err != nil {
		t.Fatalf("cancel transition failed: %v", err)
	}
	if b.Status != bookingModel.BookingStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", b.Status)
	}
	if b.CancellationReason == nil || *b.CancellationReason != "weather hold" {
		t.Errorf("cancellation reason not carried: %v", b.CancellationReason)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransitionIllegalRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb, capacity.NewService(gdb))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "status"}).
			AddRow(1, "FB-TEST000001", "COMPLETED"))
	mock.ExpectRollback()

	_, err := svc.Transition(1, bookingModel.BookingStatusConfirmed, SystemActor, "")
	if !apperrors.IsIllegalTransition(err) {
		t.Fatalf("err = %v, want illegal transition", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
