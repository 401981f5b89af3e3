package users

import (
	"context"

	"github.com/beambyp/EventBud/internal/events"
	"github.com/beambyp/EventBud/internal/tickets"
)

// Directory adapts the users repository to the narrow lookup interface
// the events package needs for staff management.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) GetOrganizerName(ctx context.Context, organizerID string) (string, error) {
	organizer, err := d.repo.GetOrganizerByID(ctx, organizerID)
	if err != nil {
		return "", err
	}
	return organizer.OrganizerName, nil
}

func (d *Directory) FindUserByEmail(ctx context.Context, email string) (*events.StaffMember, error) {
	user, err := d.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &events.StaffMember{
		UserID:    user.UserID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (d *Directory) DescribeUsers(ctx context.Context, userIDs []string) ([]events.StaffMember, error) {
	rows, err := d.repo.ListUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	members := make([]events.StaffMember, 0, len(rows))
	for _, u := range rows {
		members = append(members, events.StaffMember{
			UserID:    u.UserID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	return members, nil
}

func (d *Directory) AttachEventToUser(ctx context.Context, userID, eventID string) error {
	return d.repo.AttachEvent(ctx, userID, eventID)
}

func (d *Directory) DetachEventFromUser(ctx context.Context, userID, eventID string) error {
	return d.repo.DetachEvent(ctx, userID, eventID)
}

// TicketDirectory adapts the users repository to the ticket holder
// lookups the tickets package needs.
type TicketDirectory struct {
	repo Repository
}

func NewTicketDirectory(repo Repository) *TicketDirectory {
	return &TicketDirectory{repo: repo}
}

func (d *TicketDirectory) GetUser(ctx context.Context, userID string) (*tickets.Party, error) {
	user, err := d.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toParty(user), nil
}

func (d *TicketDirectory) FindUserByEmail(ctx context.Context, email string) (*tickets.Party, error) {
	user, err := d.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toParty(user), nil
}

func toParty(u *User) *tickets.Party {
	return &tickets.Party{
		UserID:    u.UserID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
