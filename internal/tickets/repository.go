package tickets

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/beambyp/EventBud/internal/shared/apperrors"
)

type Repository interface {
	CreateTickets(ctx context.Context, tickets []Ticket) error
	GetByID(ctx context.Context, ticketID string) (*Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]Ticket, error)
	TicketIDExists(ctx context.Context, ticketID string) (bool, error)

	// UpdateStatusIf flips a ticket's status only when it still holds
	// the expected value. Returns true for the writer that won.
	UpdateStatusIf(ctx context.Context, ticketID string, from, to TicketStatus) (bool, error)

	AppendTransaction(ctx context.Context, txn *TicketTransaction) error
	ListTransactionsByTicket(ctx context.Context, ticketID string) ([]TicketTransaction, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTickets(ctx context.Context, tickets []Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&tickets).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.KindConflict, "duplicate ticket identifier")
		}
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to create tickets")
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, ticketID string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "ticket %s not found", ticketID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load ticket")
	}
	return &ticket, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Ticket, error) {
	var rows []Ticket
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list tickets")
	}
	return rows, nil
}

func (r *repository) TicketIDExists(ctx context.Context, ticketID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("ticket_id = ?", ticketID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to check ticket id")
	}
	return count > 0, nil
}

func (r *repository) UpdateStatusIf(ctx context.Context, ticketID string, from, to TicketStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("ticket_id = ? AND status = ?", ticketID, from).
		Update("status", to)
	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, apperrors.KindUnavailable, "failed to update ticket status")
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) AppendTransaction(ctx context.Context, txn *TicketTransaction) error {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to append transaction")
	}
	return nil
}

func (r *repository) ListTransactionsByTicket(ctx context.Context, ticketID string) ([]TicketTransaction, error) {
	var rows []TicketTransaction
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("timestamp").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list transactions")
	}
	return rows, nil
}
