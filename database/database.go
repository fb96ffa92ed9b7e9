package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	config "github.com/anjiri1684/tutor_marketplace/configs"
	"github.com/anjiri1684/tutor_marketplace/models"
)

// Connect opens the Postgres connection. The handle is passed down by
// constructor; no package-level connection exists.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the schema and the constraints that carry correctness:
// the unique index on reviews.booking_id and the exclusion constraint that
// forbids overlapping active bookings per tutor per date. AutoMigrate
// cannot express an EXCLUDE constraint, so it is applied as raw DDL.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.TutorProfile{},
		&models.AvailabilitySlot{},
		&models.Booking{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return fmt.Errorf("failed to enable btree_gist: %w", err)
	}

	// Covers pending and scheduled windows. Reschedule-pending windows are
	// provisional (the tutor has not approved them) and are re-checked under
	// row locks when the tutor accepts.
	var count int64
	err = db.Raw(
		"SELECT COUNT(*) FROM pg_constraint WHERE conname = ?",
		"bookings_tutor_window_excl",
	).Scan(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check booking constraint: %w", err)
	}
	if count == 0 {
		err = db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_tutor_window_excl
			EXCLUDE USING gist (
				tutor_id WITH =,
				booking_date WITH =,
				int4range(start_minute::int, end_minute::int) WITH &&
			)
			WHERE (status IN ('pending', 'scheduled'))`).Error
		if err != nil {
			return fmt.Errorf("failed to add booking exclusion constraint: %w", err)
		}
	}
	return nil
}

// SeedAdmin creates the initial admin account if it does not exist yet.
func SeedAdmin(db *gorm.DB) error {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var count int64
	err := db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	adminUser := models.User{
		FullName: config.Config("ADMIN_FULL_NAME"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
