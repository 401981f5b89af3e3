package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beambyp/EventBud/internal/shared/apperrors"
	"github.com/beambyp/EventBud/internal/tickets"
	"github.com/beambyp/EventBud/pkg/logger"
)

type fakeProducer struct {
	published []*TicketNotification
	closed    bool
}

func (p *fakeProducer) Publish(ctx context.Context, notification *TicketNotification) error {
	p.published = append(p.published, notification)
	return nil
}

func (p *fakeProducer) Close() error {
	p.closed = true
	return nil
}

type fakeDirectory struct {
	parties map[string]*tickets.Party
}

func (d *fakeDirectory) GetUser(ctx context.Context, userID string) (*tickets.Party, error) {
	party, ok := d.parties[userID]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return party, nil
}

func TestTypeForAction(t *testing.T) {
	cases := []struct {
		action string
		want   NotificationType
	}{
		{"issued", NotificationTypeTicketIssued},
		{"scanned", NotificationTypeTicketScanned},
		{"transferred", NotificationTypeTicketTransferred},
		{"expired", NotificationTypeTicketExpired},
	}
	for _, tc := range cases {
		got, err := typeForAction(tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := typeForAction("refunded")
	assert.Error(t, err)
}

func TestPublishTicketEvent(t *testing.T) {
	producer := &fakeProducer{}
	directory := &fakeDirectory{parties: map[string]*tickets.Party{
		"alice": {UserID: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Wong"},
	}}
	svc := NewService(producer, directory, logger.GetDefault())

	ticket := &tickets.Ticket{
		TicketID:  "EV00001aliceVIP1-1",
		EventID:   "EV00001",
		UserID:    "alice",
		ClassName: "VIP",
		SeatNo:    "1-1",
		EventName: "Midnight Echoes Live",
		Location:  "Livehouse Hall A",
	}

	err := svc.PublishTicketEvent(context.Background(), "issued", ticket)
	require.NoError(t, err)
	require.Len(t, producer.published, 1)

	n := producer.published[0]
	assert.Equal(t, NotificationTypeTicketIssued, n.Type)
	assert.Equal(t, "alice@example.com", n.RecipientEmail)
	assert.Equal(t, "Alice", n.RecipientName)
	assert.Equal(t, "EV00001aliceVIP1-1", n.TicketID)
	assert.Equal(t, "Midnight Echoes Live", n.EventName)
	assert.Equal(t, "1-1", n.SeatNo)
}

func TestPublishTicketEventUnknownHolder(t *testing.T) {
	producer := &fakeProducer{}
	svc := NewService(producer, &fakeDirectory{parties: map[string]*tickets.Party{}}, logger.GetDefault())

	ticket := &tickets.Ticket{TicketID: "EV00001bobVIP1-2", UserID: "bob"}
	err := svc.PublishTicketEvent(context.Background(), "scanned", ticket)

	assert.Error(t, err)
	assert.Empty(t, producer.published)
}

func TestPublishTicketEventUnknownAction(t *testing.T) {
	producer := &fakeProducer{}
	directory := &fakeDirectory{parties: map[string]*tickets.Party{
		"alice": {UserID: "alice", Email: "alice@example.com"},
	}}
	svc := NewService(producer, directory, logger.GetDefault())

	err := svc.PublishTicketEvent(context.Background(), "refunded", &tickets.Ticket{UserID: "alice"})

	assert.Error(t, err)
	assert.Empty(t, producer.published)
}

func TestSubjectFor(t *testing.T) {
	n := NewTicketNotification(NotificationTypeTicketIssued)
	n.EventName = "Midnight Echoes Live"
	assert.Equal(t, "Your ticket for Midnight Echoes Live is confirmed", subjectFor(n))

	n.Type = NotificationTypeTicketExpired
	assert.Equal(t, "Your ticket for Midnight Echoes Live has expired", subjectFor(n))

	n.Type = NotificationType("UNKNOWN")
	assert.Equal(t, "EventBud ticket update", subjectFor(n))
}

var _ Producer = (*fakeProducer)(nil)
