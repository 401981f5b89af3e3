package notifications

import (
	"context"
	"fmt"

	"github.com/beambyp/EventBud/internal/tickets"
	"github.com/beambyp/EventBud/pkg/logger"
)

// RecipientLookup resolves the holder of a ticket to an email address.
type RecipientLookup interface {
	GetUser(ctx context.Context, userID string) (*tickets.Party, error)
}

// Service builds ticket notifications and hands them to the producer.
// It satisfies the tickets package's publisher contract.
type Service struct {
	producer  Producer
	directory RecipientLookup
	log       *logger.Logger
}

func NewService(producer Producer, directory RecipientLookup, log *logger.Logger) *Service {
	return &Service{
		producer:  producer,
		directory: directory,
		log:       log,
	}
}

func (s *Service) PublishTicketEvent(ctx context.Context, action string, ticket *tickets.Ticket) error {
	notType, err := typeForAction(action)
	if err != nil {
		return err
	}

	holder, err := s.directory.GetUser(ctx, ticket.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve ticket holder %s: %w", ticket.UserID, err)
	}

	notification := NewTicketNotification(notType)
	notification.RecipientEmail = holder.Email
	notification.RecipientName = holder.FirstName
	notification.TicketID = ticket.TicketID
	notification.EventID = ticket.EventID
	notification.EventName = ticket.EventName
	notification.ClassName = ticket.ClassName
	notification.SeatNo = ticket.SeatNo
	notification.Location = ticket.Location

	return s.producer.Publish(ctx, notification)
}

func typeForAction(action string) (NotificationType, error) {
	switch action {
	case "issued":
		return NotificationTypeTicketIssued, nil
	case "scanned":
		return NotificationTypeTicketScanned, nil
	case "transferred":
		return NotificationTypeTicketTransferred, nil
	case "expired":
		return NotificationTypeTicketExpired, nil
	default:
		return "", fmt.Errorf("unknown ticket action %q", action)
	}
}
