package notification

import (
	"errors"
	"testing"
	"time"

	"ferry-booking/httpServices/notifier"
	notificationModel "ferry-booking/models/notification"

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

func TestKindIsValid(t *testing.T) {
	for _, kind := range []notificationModel.Kind{notificationModel.KindCheckin, notificationModel.KindBoarding, notificationModel.KindPayment} {
		if !kind.IsValid() {
			t.Errorf("%s should be valid", kind)
		}
	}
	for _, raw := range []string{"", "checkin", "SMS", "BOARDING_CALL"} {
		if notificationModel.Kind(raw).IsValid() {
			t.Errorf("%q should not be valid", raw)
		}
	}
}

func TestRunUnknownKindIsRecordedAndSwallowed(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb, nil)
	svc.Now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	mock.ExpectQuery(`INSERT INTO "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	if err := svc.Run(notificationModel.Kind("TELEGRAM")); err != nil {
		t.Fatalf("unknown kind should be swallowed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCleanupUsesDefaultsAndDeletesBothBuckets(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb, nil)
	svc.Now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	mock.ExpectExec(`DELETE FROM "notification_logs"`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM "notification_logs"`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := svc.Cleanup(0, 0); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(nil, nil)
	if svc.BoardingThresholdHours != DefaultBoardingThresholdHours {
		t.Errorf("boarding threshold = %d, want %d", svc.BoardingThresholdHours, DefaultBoardingThresholdHours)
	}
	if svc.PaymentThresholdHours != DefaultPaymentThresholdHours {
		t.Errorf("payment threshold = %d, want %d", svc.PaymentThresholdHours, DefaultPaymentThresholdHours)
	}
}

type stubChannel struct {
	checkin  int
	boarding int
	payment  int
	fail     bool
}

func (c *stubChannel) SendCheckinReminder(notifier.CheckinReminder) (*notifier.SendResponse, error) {
	c.checkin++
	if c.fail {
		return nil, errors.New("provider unavailable")
	}
	return &notifier.SendResponse{MessageID: "m-1", Status: "queued"}, nil
}

func (c *stubChannel) SendBoardingReminder(notifier.BoardingReminder) (*notifier.SendResponse, error) {
	c.boarding++
	if c.fail {
		return nil, errors.New("provider unavailable")
	}
	return &notifier.SendResponse{MessageID: "m-2", Status: "queued"}, nil
}

func (c *stubChannel) SendPaymentReminder(notifier.PaymentReminder) (*notifier.SendResponse, error) {
	c.payment++
	if c.fail {
		return nil, errors.New("provider unavailable")
	}
	return &notifier.SendResponse{MessageID: "m-3", Status: "queued"}, nil
}

func TestBoardingReminderDedupesWithinWindow(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	channel := &stubChannel{}
	svc := NewService(gdb, channel)
	svc.Now = func() time.Time { return time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC) }

	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "user_id", "schedule_id", "departure_date", "status"}).
			AddRow(1, "FB-AAAA11111", 1, 1, today, "CONFIRMED"))
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "ferry_id", "departure_time"}).
			AddRow(1, 1, 1, "10:45"))
	mock.ExpectQuery(`SELECT \* FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Dhaka - Barisal"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "legal_name"}).
			AddRow(1, "01712345678", "Test Passenger"))

	// A SENT boarding row inside the two hour window suppresses the send.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	if err := svc.RunBoardingReminders(); err != nil {
		t.Fatalf("boarding run failed: %v", err)
	}
	if channel.boarding != 0 {
		t.Errorf("boarding sends = %d, want 0 after dedupe hit", channel.boarding)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRetryFailedAppendsFreshRow(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	channel := &stubChannel{}
	svc := NewService(gdb, channel)
	fixed := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	sailing := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "notification_logs" WHERE status`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "type", "status", "created_at"}).
			AddRow(7, 1, "CHECKIN", "FAILED", fixed.Add(-time.Hour)))

	// No SENT row yet, one prior FAILED attempt out of three allowed.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "user_id", "schedule_id", "departure_date", "status"}).
			AddRow(1, "FB-AAAA11111", 1, 1, sailing, "CONFIRMED"))
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "ferry_id", "departure_time"}).
			AddRow(1, 1, 1, "10:45"))
	mock.ExpectQuery(`SELECT \* FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Dhaka - Barisal"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "legal_name"}).
			AddRow(1, "01712345678", "Test Passenger"))

	// The retry outcome lands in a brand new log row.
	mock.ExpectQuery(`INSERT INTO "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))

	if err := svc.RetryFailed(24*time.Hour, 3); err != nil {
		t.Fatalf("retry run failed: %v", err)
	}
	if channel.checkin != 1 {
		t.Errorf("checkin sends = %d, want 1", channel.checkin)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRetryFailedStopsAtMaxRetries(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	channel := &stubChannel{}
	svc := NewService(gdb, channel)
	fixed := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	mock.ExpectQuery(`SELECT \* FROM "notification_logs" WHERE status`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "type", "status", "created_at"}).
			AddRow(7, 1, "BOARDING", "FAILED", fixed.Add(-time.Hour)))

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	if err := svc.RetryFailed(24*time.Hour, 3); err != nil {
		t.Fatalf("retry run failed: %v", err)
	}
	if channel.boarding != 0 {
		t.Errorf("boarding sends = %d, want 0 past the retry cap", channel.boarding)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRetryFailedRecordsUnknownKind(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	channel := &stubChannel{}
	svc := NewService(gdb, channel)
	fixed := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	mock.ExpectQuery(`SELECT \* FROM "notification_logs" WHERE status`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "type", "status", "created_at"}).
			AddRow(7, 1, "TELEGRAM", "FAILED", fixed.Add(-time.Hour)))

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "user_id", "schedule_id", "status"}).
			AddRow(1, "FB-AAAA11111", 1, 1, "CONFIRMED"))
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "ferry_id", "departure_time"}).
			AddRow(1, 1, 1, "10:45"))
	mock.ExpectQuery(`SELECT \* FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Dhaka - Barisal"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "legal_name"}).
			AddRow(1, "01712345678", "Test Passenger"))

	// The unrecognized kind still leaves an UNKNOWN_TYPE row behind.
	mock.ExpectQuery(`INSERT INTO "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))

	if err := svc.RetryFailed(24*time.Hour, 3); err != nil {
		t.Fatalf("retry run failed: %v", err)
	}
	if channel.checkin+channel.boarding+channel.payment != 0 {
		t.Errorf("unknown kind must not reach the channel, got %d sends",
			channel.checkin+channel.boarding+channel.payment)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
