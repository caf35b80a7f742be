package database

import (
	"fmt"
	"os"

	"ferry-booking/logger"
	"ferry-booking/models/booking"
	"ferry-booking/models/ferry"
	"ferry-booking/models/log"
	"ferry-booking/models/notification"
	"ferry-booking/models/payment"
	"ferry-booking/models/route"
	"ferry-booking/models/schedule"
	"ferry-booking/models/slip"
	"ferry-booking/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	dbUser := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, dbUser, password, database, sslmode)

	var err error
	// Foreign keys come from createForeignKeyConstraints below, not from
	// association tags. notification_logs deliberately carries none so
	// fallback rows without a live booking still persist.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Handle foreign key constraints after migrations
	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate() error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&ferry.Ferry{},
		&route.Route{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Schedules and their sailing dates
	stage2Models := []interface{}{
		&schedule.Schedule{},
		&schedule.ScheduleDate{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Bookings and their children
	stage3Models := []interface{}{
		&booking.Booking{},
		&booking.Ticket{},
		&booking.Vehicle{},
		&booking.BookingLog{},
	}

	for _, model := range stage3Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 4: Payments, refunds, slips and notifications
	stage4Models := []interface{}{
		&payment.Payment{},
		&payment.Refund{},
		&slip.SlipRequest{},
		&notification.NotificationLog{},
	}

	for _, model := range stage4Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 5: Remaining models
	remainingModels := []interface{}{
		// Logging
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// indexStatements are the hot-path indexes created at startup on top of
// what the model tags declare. Column names must match the migrated
// schema; a bad statement aborts startup.
var indexStatements = []string{
	// Users
	"CREATE INDEX IF NOT EXISTS idx_users_uuid ON users(uuid)",
	"CREATE INDEX IF NOT EXISTS idx_users_phone ON users(phone)",

	// Schedule dates
	"CREATE INDEX IF NOT EXISTS idx_schedule_dates_date ON schedule_dates(date)",
	"CREATE INDEX IF NOT EXISTS idx_schedule_dates_status ON schedule_dates(status)",

	// Bookings
	"CREATE INDEX IF NOT EXISTS idx_bookings_code ON bookings(code)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_departure_date ON bookings(departure_date)",

	// Payments
	"CREATE INDEX IF NOT EXISTS idx_payments_booking_id ON payments(booking_id)",
	"CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)",
	"CREATE INDEX IF NOT EXISTS idx_payments_expires_at ON payments(expires_at)",

	// Refunds
	"CREATE INDEX IF NOT EXISTS idx_refunds_status ON refunds(status)",

	// Notification logs
	"CREATE INDEX IF NOT EXISTS idx_notification_logs_booking_type ON notification_logs(booking_id, type)",
	"CREATE INDEX IF NOT EXISTS idx_notification_logs_created_at ON notification_logs(created_at)",

	// Request logs
	"CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)",
	"CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)",
	"CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)",
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	for _, stmt := range indexStatements {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index (%s): %w", stmt, err)
		}
	}
	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	// Define constraints with their names for checking existence
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_schedules_route",
			sql: `ALTER TABLE schedules ADD CONSTRAINT fk_schedules_route
				  FOREIGN KEY (route_id) REFERENCES routes(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_schedules_ferry",
			sql: `ALTER TABLE schedules ADD CONSTRAINT fk_schedules_ferry
				  FOREIGN KEY (ferry_id) REFERENCES ferries(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_schedule_dates_schedule",
			sql: `ALTER TABLE schedule_dates ADD CONSTRAINT fk_schedule_dates_schedule
				  FOREIGN KEY (schedule_id) REFERENCES schedules(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_bookings_user",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_user
				  FOREIGN KEY (user_id) REFERENCES users(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_tickets_booking",
			sql: `ALTER TABLE tickets ADD CONSTRAINT fk_tickets_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_vehicles_booking",
			sql: `ALTER TABLE vehicles ADD CONSTRAINT fk_vehicles_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_booking_logs_booking",
			sql: `ALTER TABLE booking_logs ADD CONSTRAINT fk_booking_logs_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_payments_booking",
			sql: `ALTER TABLE payments ADD CONSTRAINT fk_payments_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_refunds_payment",
			sql: `ALTER TABLE refunds ADD CONSTRAINT fk_refunds_payment
				  FOREIGN KEY (payment_id) REFERENCES payments(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		// Check if constraint already exists
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Legacy function for backward compatibility
func ConnectDB() (*gorm.DB, error) {
	return InitDB()
}
