package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeTicketIssued      NotificationType = "TICKET_ISSUED"
	NotificationTypeTicketScanned     NotificationType = "TICKET_SCANNED"
	NotificationTypeTicketTransferred NotificationType = "TICKET_TRANSFERRED"
	NotificationTypeTicketExpired     NotificationType = "TICKET_EXPIRED"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "PENDING"
	NotificationStatusQueued   NotificationStatus = "QUEUED"
	NotificationStatusSending  NotificationStatus = "SENDING"
	NotificationStatusSent     NotificationStatus = "SENT"
	NotificationStatusFailed   NotificationStatus = "FAILED"
	NotificationStatusRetrying NotificationStatus = "RETRYING"
)

// TicketNotification is the message carried on the ticket topic. It is
// self-contained so consumers never need a database round trip.
type TicketNotification struct {
	ID   uuid.UUID        `json:"id"`
	Type NotificationType `json:"type"`

	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	TicketID  string `json:"ticket_id"`
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
	ClassName string `json:"class_name"`
	SeatNo    string `json:"seat_no,omitempty"`
	Location  string `json:"location,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

func NewTicketNotification(notType NotificationType) *TicketNotification {
	now := time.Now()
	return &TicketNotification{
		ID:         uuid.New(),
		Type:       notType,
		Status:     NotificationStatusPending,
		MaxRetries: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// GetPartitionKey keeps a recipient's notifications ordered within one
// partition.
func (tn *TicketNotification) GetPartitionKey() string {
	return tn.RecipientEmail
}

func (tn *TicketNotification) ToJSON() ([]byte, error) {
	return json.Marshal(tn)
}

func (tn *TicketNotification) ShouldRetry() bool {
	return tn.RetryCount < tn.MaxRetries && tn.Status == NotificationStatusFailed
}

func (tn *TicketNotification) MarkSent() {
	now := time.Now()
	tn.Status = NotificationStatusSent
	tn.SentAt = &now
	tn.UpdatedAt = now
}

func (tn *TicketNotification) MarkFailed(err error) {
	tn.Status = NotificationStatusFailed
	tn.UpdatedAt = time.Now()

	errorStr := err.Error()
	tn.LastError = &errorStr
}

func (tn *TicketNotification) IncrementRetry() {
	tn.RetryCount++
	tn.UpdatedAt = time.Now()
	if tn.ShouldRetry() {
		tn.Status = NotificationStatusRetrying
	}
}
