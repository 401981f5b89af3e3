package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One row per physical seat; concurrent purchases race on the same row
	err := db.Exec(`
		ALTER TABLE seats
		ADD CONSTRAINT IF NOT EXISTS unique_seat_per_class
		UNIQUE (event_id, class_name, seat_no);
	`).Error
	if err != nil {
		return err
	}

	// Index for reservation lookups by event and class
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_seats_event_class
		ON seats (event_id, class_name);
	`).Error
	if err != nil {
		return err
	}

	// Index for ticket lookups by holder, used by the user ticket list
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_tickets_user_id
		ON tickets (user_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for the append-only transaction log scans by ticket
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_ticket_transactions_ticket_id
		ON ticket_transactions (ticket_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
