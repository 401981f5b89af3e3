package database

import (
	"github.com/beambyp/EventBud/internal/events"
	"github.com/beambyp/EventBud/internal/ledger"
	"github.com/beambyp/EventBud/internal/seats"
	"github.com/beambyp/EventBud/internal/tickets"
	"github.com/beambyp/EventBud/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&users.Organizer{},
		&events.Event{},
		&events.TicketClass{},
		&ledger.ZoneRevenue{},
		&seats.Seat{},
		&tickets.Ticket{},
		&tickets.TicketTransaction{},
	)
}
