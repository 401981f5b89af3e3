package tickets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/beambyp/EventBud/internal/events"
	"github.com/beambyp/EventBud/internal/ledger"
	"github.com/beambyp/EventBud/internal/shared/apperrors"
	"github.com/beambyp/EventBud/internal/shared/constants"
	"github.com/beambyp/EventBud/pkg/cache"
	"github.com/beambyp/EventBud/pkg/clock"
	"github.com/beambyp/EventBud/pkg/logger"
)

// EventStore is the slice of the events repository this service needs
// (to avoid circular dependency).
type EventStore interface {
	GetByID(ctx context.Context, eventID string) (*events.Event, error)
	GetClass(ctx context.Context, eventID, className string) (*events.TicketClass, error)
}

// SeatMap is the slice of the seats repository this service needs.
type SeatMap interface {
	ReserveSeats(ctx context.Context, eventID, className string, seatNos []string) error
	ReleaseSeats(ctx context.Context, eventID, className string, seatNos []string) error
	CommitSeats(ctx context.Context, eventID, className string, seatNos []string) error
	VerifyReserved(ctx context.Context, eventID, className string, seatNos []string) error
}

// Ledger is the slice of the inventory ledger this service needs.
type Ledger interface {
	RecordSale(ctx context.Context, eventID, className string, seatCount int) (*ledger.SaleResult, error)
	ReverseSale(ctx context.Context, eventID, className string, seatCount int) error
}

// Party is the directory view of a ticket holder.
type Party struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// UserDirectory resolves ticket holders (to avoid circular dependency
// with the users package).
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*Party, error)
	FindUserByEmail(ctx context.Context, email string) (*Party, error)
}

// Publisher pushes ticket lifecycle events to the notification
// pipeline. A nil Publisher disables notifications.
type Publisher interface {
	PublishTicketEvent(ctx context.Context, action string, ticket *Ticket) error
}

// Service interface defines the contract for ticket business logic
type Service interface {
	Reserve(ctx context.Context, req SeatSelectionRequest) error
	CancelReserve(ctx context.Context, req SeatSelectionRequest) error
	Issue(ctx context.Context, req SeatSelectionRequest) ([]Ticket, error)
	Scan(ctx context.Context, eventID, ticketID string) (*Ticket, error)
	Transfer(ctx context.Context, srcUserID, ticketID, dstEmail string) (*TransferReceipt, error)
	GetTicket(ctx context.Context, ticketID string) (*Ticket, error)
	ListUserTickets(ctx context.Context, userID string) ([]Ticket, error)
}

type service struct {
	repo      Repository
	events    EventStore
	seats     SeatMap
	ledger    Ledger
	directory UserDirectory
	publisher Publisher     // optional
	cache     cache.Service // optional
	clock     clock.Clock
	log       *logger.Logger
}

func NewService(repo Repository, eventStore EventStore, seatMap SeatMap, ledgerRepo Ledger, directory UserDirectory, publisher Publisher, cacheSvc cache.Service, clk clock.Clock, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		events:    eventStore,
		seats:     seatMap,
		ledger:    ledgerRepo,
		directory: directory,
		publisher: publisher,
		cache:     cacheSvc,
		clock:     clk,
		log:       log,
	}
}

func (s *service) Reserve(ctx context.Context, req SeatSelectionRequest) error {
	class, err := s.validateSelection(ctx, req)
	if err != nil {
		return err
	}
	if class.Unassigned() {
		// General admission holds nothing; quota is checked at purchase
		return nil
	}
	return s.seats.ReserveSeats(ctx, req.EventID, req.ClassName, req.SeatNo)
}

func (s *service) CancelReserve(ctx context.Context, req SeatSelectionRequest) error {
	class, err := s.validateSelection(ctx, req)
	if err != nil {
		return err
	}
	if class.Unassigned() {
		return nil
	}
	return s.seats.ReleaseSeats(ctx, req.EventID, req.ClassName, req.SeatNo)
}

// Issue finalizes a purchase. All validation happens before any write:
// each named seat must already be reserved before the quota is claimed
// through the ledger, so compensation only ever covers a genuine race
// between the check and the commit. The quota is claimed before the
// seat commit so a quota failure never leaves seats half-committed.
func (s *service) Issue(ctx context.Context, req SeatSelectionRequest) ([]Ticket, error) {
	class, err := s.validateSelection(ctx, req)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.directory.GetUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if !class.Unassigned() {
		if err := s.seats.VerifyReserved(ctx, req.EventID, req.ClassName, req.SeatNo); err != nil {
			return nil, err
		}
	}

	n := len(req.SeatNo)
	sale, err := s.ledger.RecordSale(ctx, req.EventID, req.ClassName, n)
	if err != nil {
		return nil, err
	}

	if !class.Unassigned() {
		if err := s.seats.CommitSeats(ctx, req.EventID, req.ClassName, req.SeatNo); err != nil {
			if revErr := s.ledger.ReverseSale(ctx, req.EventID, req.ClassName, n); revErr != nil {
				s.log.ErrorWithContext(ctx, "Sale compensation failed", revErr, map[string]interface{}{
					"event_id":   req.EventID,
					"class_name": req.ClassName,
				})
			}
			return nil, err
		}
	}

	batch := make([]Ticket, 0, n)
	for i, seatNo := range req.SeatNo {
		ticketID, err := s.nextTicketID(ctx, req.EventID, req.UserID, req.ClassName, seatNo)
		if err != nil {
			return nil, err
		}
		batch = append(batch, Ticket{
			TicketID:        ticketID,
			EventID:         req.EventID,
			UserID:          req.UserID,
			ClassName:       req.ClassName,
			SeatNo:          seatNo,
			Status:          StatusAvailable,
			ValidDatetime:   class.ValidDatetime,
			ExpiredDatetime: class.ExpiredDatetime,
			RunNo:           sale.NewEventSold - n + i + 1,
			EventName:       event.EventName,
			EventImage:      event.PosterImage,
			Location:        event.Location,
		})
	}
	if err := s.repo.CreateTickets(ctx, batch); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range batch {
		t := &batch[i]
		if err := s.repo.AppendTransaction(ctx, &TicketTransaction{
			TicketID:  t.TicketID,
			Timestamp: now,
			Type:      TxnCreated,
		}); err != nil {
			return nil, err
		}
		s.log.LogTicketIssued(ctx, t.TicketID, t.EventID, t.UserID)
		s.publish(ctx, "issued", t)
	}

	// The sale moved soldTicket/totalRevenue on the events row; cached
	// event views are stale until dropped
	s.invalidateEventViews(ctx, req.EventID)
	return batch, nil
}

func (s *service) Scan(ctx context.Context, eventID, ticketID string) (*Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.EventID != eventID {
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket does not belong to this event")
	}

	switch ticket.Status {
	case StatusScanned:
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket already scanned")
	case StatusExpired:
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket has expired")
	case StatusTransferred:
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket has been transferred")
	}

	now := s.clock.Now()
	if ticket.ValidDatetime.After(now) {
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket is not yet valid")
	}
	if now.After(ticket.ExpiredDatetime) {
		if err := s.expireTicket(ctx, ticket); err != nil {
			return nil, err
		}
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket has expired")
	}

	won, err := s.repo.UpdateStatusIf(ctx, ticketID, StatusAvailable, StatusScanned)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperrors.New(apperrors.KindConflict, "ticket state changed during scan")
	}

	ticket.Status = StatusScanned
	if err := s.repo.AppendTransaction(ctx, &TicketTransaction{
		TicketID:  ticketID,
		Timestamp: now,
		Type:      TxnScanned,
	}); err != nil {
		return nil, err
	}
	s.log.LogTicketScanned(ctx, ticketID, eventID)
	s.publish(ctx, "scanned", ticket)
	return ticket, nil
}

func (s *service) Transfer(ctx context.Context, srcUserID, ticketID, dstEmail string) (*TransferReceipt, error) {
	if _, err := s.directory.GetUser(ctx, srcUserID); err != nil {
		return nil, err
	}
	dst, err := s.directory.FindUserByEmail(ctx, dstEmail)
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != srcUserID {
		return nil, apperrors.New(apperrors.KindForbidden, "ticket does not belong to this user")
	}

	// Time expiry is checked ahead of status: an overdue ticket flips
	// and logs before the transfer is rejected
	now := s.clock.Now()
	if ticket.Status == StatusAvailable && now.After(ticket.ExpiredDatetime) {
		if err := s.expireTicket(ctx, ticket); err != nil {
			return nil, err
		}
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket has expired")
	}

	switch ticket.Status {
	case StatusScanned:
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket already scanned")
	case StatusExpired:
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket has expired")
	case StatusTransferred:
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket has been transferred")
	}

	// Terminal flip first: the winner of this update owns the transfer
	won, err := s.repo.UpdateStatusIf(ctx, ticketID, StatusAvailable, StatusTransferred)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperrors.New(apperrors.KindConflict, "ticket state changed during transfer")
	}

	newID, err := s.nextTicketID(ctx, ticket.EventID, dst.UserID, ticket.ClassName, ticket.SeatNo)
	if err != nil {
		return nil, err
	}
	newTicket := Ticket{
		TicketID:        newID,
		EventID:         ticket.EventID,
		UserID:          dst.UserID,
		ClassName:       ticket.ClassName,
		SeatNo:          ticket.SeatNo,
		Status:          StatusAvailable,
		ValidDatetime:   ticket.ValidDatetime,
		ExpiredDatetime: ticket.ExpiredDatetime,
		RunNo:           ticket.RunNo,
		EventName:       ticket.EventName,
		EventImage:      ticket.EventImage,
		Location:        ticket.Location,
	}
	if err := s.repo.CreateTickets(ctx, []Ticket{newTicket}); err != nil {
		return nil, err
	}

	if err := s.repo.AppendTransaction(ctx, &TicketTransaction{
		TicketID:  newID,
		Timestamp: now,
		Type:      TxnReceived,
		SrcUserID: srcUserID,
	}); err != nil {
		return nil, err
	}
	if err := s.repo.AppendTransaction(ctx, &TicketTransaction{
		TicketID:  ticketID,
		Timestamp: now,
		Type:      TxnTransferred,
		DstUserID: dst.UserID,
	}); err != nil {
		return nil, err
	}

	s.log.LogTicketTransferred(ctx, ticketID, newID, srcUserID, dst.UserID)
	s.publish(ctx, "transferred", &newTicket)

	event, err := s.events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	return buildReceipt(&newTicket, dst, event), nil
}

func (s *service) GetTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == StatusAvailable && s.clock.Now().After(ticket.ExpiredDatetime) {
		if err := s.expireTicket(ctx, ticket); err != nil {
			return nil, err
		}
	}
	return ticket, nil
}

func (s *service) ListUserTickets(ctx context.Context, userID string) ([]Ticket, error) {
	if _, err := s.directory.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range rows {
		t := &rows[i]
		if t.Status == StatusAvailable && now.After(t.ExpiredDatetime) {
			if err := s.expireTicket(ctx, t); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		ri, rj := rows[i].Status.SortRank(), rows[j].Status.SortRank()
		if ri != rj {
			return ri < rj
		}
		return rows[i].ValidDatetime.Before(rows[j].ValidDatetime)
	})
	return rows, nil
}

// validateSelection runs the shared event/class/seat-list checks.
func (s *service) validateSelection(ctx context.Context, req SeatSelectionRequest) (*events.TicketClass, error) {
	if _, err := s.events.GetByID(ctx, req.EventID); err != nil {
		return nil, err
	}
	class, err := s.events.GetClass(ctx, req.EventID, req.ClassName)
	if err != nil {
		return nil, err
	}
	if len(req.SeatNo) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "no seat selected")
	}
	return class, nil
}

// expireTicket performs the lazy expiry flip. Only the winning writer
// appends the audit entry, so concurrent readers produce exactly one
// expired log row.
func (s *service) expireTicket(ctx context.Context, ticket *Ticket) error {
	won, err := s.repo.UpdateStatusIf(ctx, ticket.TicketID, StatusAvailable, StatusExpired)
	if err != nil {
		return err
	}
	ticket.Status = StatusExpired
	if !won {
		return nil
	}
	if err := s.repo.AppendTransaction(ctx, &TicketTransaction{
		TicketID:  ticket.TicketID,
		Timestamp: s.clock.Now(),
		Type:      TxnExpired,
	}); err != nil {
		return err
	}
	s.log.LogTicketExpired(ctx, ticket.TicketID, ticket.EventID)
	s.publish(ctx, "expired", ticket)
	return nil
}

// nextTicketID builds the deterministic identifier base and checks
// numeric suffixes until unused.
func (s *service) nextTicketID(ctx context.Context, eventID, userID, className, seatNo string) (string, error) {
	base := eventID + userID + className + seatNo

	candidate := base
	for n := 1; ; n++ {
		exists, err := s.repo.TicketIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, n)
	}
}

func (s *service) invalidateEventViews(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, constants.BuildEventInvalidationPattern(eventID)); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to invalidate event cache", err, map[string]interface{}{
			"event_id": eventID,
		})
	}
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_EVENTS_LIST)
}

func (s *service) publish(ctx context.Context, action string, ticket *Ticket) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTicketEvent(ctx, action, ticket); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish ticket event", err, map[string]interface{}{
			"ticket_id": ticket.TicketID,
			"action":    action,
		})
	}
}

func buildReceipt(t *Ticket, dst *Party, event *events.Event) *TransferReceipt {
	row, seat := "-", "-"
	if t.SeatNo != "" {
		parts := strings.Split(t.SeatNo, "-")
		row = parts[0]
		seat = parts[len(parts)-1]
	}
	return &TransferReceipt{
		TicketID:    t.TicketID,
		FirstName:   dst.FirstName,
		LastName:    dst.LastName,
		EventName:   event.EventName,
		Location:    event.Location,
		PosterImage: event.PosterImage,
		Date:        event.StartDateTime.Format("02 January 2006"),
		Zone:        t.ClassName,
		Row:         row,
		Seat:        seat,
		Gate:        "-",
	}
}
