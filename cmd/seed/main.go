package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/beambyp/EventBud/internal/events"
	"github.com/beambyp/EventBud/internal/ledger"
	"github.com/beambyp/EventBud/internal/seats"
	"github.com/beambyp/EventBud/internal/shared/config"
	"github.com/beambyp/EventBud/internal/shared/database"
	"github.com/beambyp/EventBud/internal/users"
)

type Seeder struct {
	db         *database.DB
	userRepo   users.Repository
	eventRepo  events.Repository
	seatRepo   seats.Repository
	ledgerRepo ledger.Repository
}

func main() {
	fmt.Println("Starting EventBud database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.MigrateConstraints(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to apply constraints: %v", err)
	}

	seeder := &Seeder{
		db:         db,
		userRepo:   users.NewRepository(db.GetPostgreSQL()),
		eventRepo:  events.NewRepository(db.GetPostgreSQL()),
		seatRepo:   seats.NewRepository(db.GetPostgreSQL()),
		ledgerRepo: ledger.NewRepository(db.GetPostgreSQL()),
	}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"ticket_transactions",
		"tickets",
		"seats",
		"zone_revenues",
		"ticket_classes",
		"events",
		"organizers",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.seedOrganizers(ctx); err != nil {
		return fmt.Errorf("failed to seed organizers: %w", err)
	}
	if err := s.seedEvents(ctx); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	rows := []users.User{
		{Email: "alice@example.com", FirstName: "Alice", LastName: "Wong", TelephoneNumber: "0811111111"},
		{Email: "bob@example.com", FirstName: "Bob", LastName: "Tan", TelephoneNumber: "0822222222"},
		{Email: "carol@example.com", FirstName: "Carol", LastName: "Lim", TelephoneNumber: "0833333333"},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for i := range rows {
		u := &rows[i]
		userID, err := s.userRepo.NextUserID(ctx, u.Email)
		if err != nil {
			return err
		}
		u.UserID = userID
		u.PasswordHash = string(hash)
		if err := s.userRepo.CreateUser(ctx, u); err != nil {
			return err
		}
		fmt.Printf("  Created user: %s (%s)\n", u.UserID, u.Email)
	}
	return nil
}

func (s *Seeder) seedOrganizers(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	organizerID, err := s.userRepo.NextOrganizerID(ctx, "shows@livehouse.example.com")
	if err != nil {
		return err
	}
	organizer := &users.Organizer{
		OrganizerID:    organizerID,
		Email:          "shows@livehouse.example.com",
		OrganizerName:  "Livehouse Productions",
		OrganizerPhone: "021234567",
		PasswordHash:   string(hash),
	}
	if err := s.userRepo.CreateOrganizer(ctx, organizer); err != nil {
		return err
	}
	fmt.Printf("  Created organizer: %s (%s)\n", organizer.OrganizerID, organizer.OrganizerName)
	return nil
}

func (s *Seeder) seedEvents(ctx context.Context) error {
	organizer, err := s.userRepo.GetOrganizerByEmail(ctx, "shows@livehouse.example.com")
	if err != nil {
		return err
	}

	eventID, err := s.eventRepo.NextEventID(ctx)
	if err != nil {
		return err
	}

	start := time.Now().AddDate(0, 1, 0)
	event := &events.Event{
		EventID:         eventID,
		EventName:       "Midnight Echoes Live",
		StartDateTime:   start,
		EndDateTime:     start.Add(4 * time.Hour),
		OnSaleDateTime:  time.Now(),
		EndSaleDateTime: start.Add(-24 * time.Hour),
		Location:        "Riverside Arena, Hall 2",
		EventInfo:       "An intimate night with Midnight Echoes.",
		EventStatus:     events.StatusOnGoing,
		Tags:            []string{"concert", "indie"},
		PosterImage:     "https://cdn.eventbud.app/posters/midnight-echoes.jpg",
		OrganizerID:     organizer.OrganizerID,
		OrganizerName:   organizer.OrganizerName,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return err
	}
	fmt.Printf("  Created event: %s (%s)\n", event.EventID, event.EventName)

	classes := []events.TicketClass{
		{
			EventID:         eventID,
			ClassName:       "VIP",
			PricePerSeat:    2500,
			AmountOfSeat:    20,
			RowNo:           4,
			ColumnNo:        5,
			ValidDatetime:   start,
			ExpiredDatetime: start.Add(4 * time.Hour),
		},
		{
			EventID:         eventID,
			ClassName:       "Standing",
			PricePerSeat:    900,
			AmountOfSeat:    200,
			ValidDatetime:   start,
			ExpiredDatetime: start.Add(4 * time.Hour),
		},
	}

	for i := range classes {
		class := &classes[i]
		if err := s.eventRepo.CreateClass(ctx, class); err != nil {
			return err
		}
		if err := s.seatRepo.CreateGrid(ctx, eventID, class.ClassName, class.RowNo, class.ColumnNo); err != nil {
			return err
		}
		if err := s.ledgerRepo.RecordClassAdded(ctx, &ledger.ZoneRevenue{
			EventID:      class.EventID,
			ClassName:    class.ClassName,
			PricePerSeat: class.PricePerSeat,
			Quota:        class.AmountOfSeat,
		}); err != nil {
			return err
		}
		fmt.Printf("  Created ticket class: %s (%d seats)\n", class.ClassName, class.AmountOfSeat)
	}
	return nil
}
