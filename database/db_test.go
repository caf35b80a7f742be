package database

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"ferry-booking/models/booking"
	logModel "ferry-booking/models/log"
	"ferry-booking/models/notification"
	"ferry-booking/models/payment"
	"ferry-booking/models/schedule"
	"ferry-booking/models/user"

	gormSchema "gorm.io/gorm/schema"
)

// Startup runs every index statement verbatim; one statement naming a
// column the migration never created aborts the boot. Parse the models
// the same way the migration does and check each statement against the
// columns that will actually exist.
func TestIndexStatementsReferenceMigratedColumns(t *testing.T) {
	indexedModels := map[string]interface{}{
		"users":             &user.User{},
		"schedule_dates":    &schedule.ScheduleDate{},
		"bookings":          &booking.Booking{},
		"payments":          &payment.Payment{},
		"refunds":           &payment.Refund{},
		"notification_logs": &notification.NotificationLog{},
		"logs":              &logModel.Log{},
	}

	columns := make(map[string]map[string]bool)
	for table, model := range indexedModels {
		parsed, err := gormSchema.Parse(model, &sync.Map{}, gormSchema.NamingStrategy{})
		if err != nil {
			t.Fatalf("failed to parse schema for %s: %v", table, err)
		}
		cols := make(map[string]bool)
		for _, field := range parsed.Fields {
			if field.DBName != "" {
				cols[field.DBName] = true
			}
		}
		columns[table] = cols
	}

	indexTarget := regexp.MustCompile(`ON (\w+)\(([^)]+)\)`)
	for _, stmt := range indexStatements {
		m := indexTarget.FindStringSubmatch(stmt)
		if m == nil {
			t.Errorf("index statement has no ON table(columns) clause: %s", stmt)
			continue
		}
		table := m[1]
		cols, ok := columns[table]
		if !ok {
			t.Errorf("index statement targets unknown table %q: %s", table, stmt)
			continue
		}
		for _, col := range strings.Split(m[2], ",") {
			col = strings.TrimSpace(col)
			if !cols[col] {
				t.Errorf("index statement references missing column %s.%s: %s", table, col, stmt)
			}
		}
	}
}
