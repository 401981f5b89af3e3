package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beambyp/EventBud/internal/shared/apperrors"
)

type Repository interface {
	// Event CRUD
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, eventID string) (*Event, error)
	Update(ctx context.Context, eventID string, updates map[string]interface{}) error
	Delete(ctx context.Context, eventID string) error
	ListByStatus(ctx context.Context, status Status) ([]Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error)
	ListByIDs(ctx context.Context, eventIDs []string) ([]Event, error)
	NextEventID(ctx context.Context) (string, error)

	// Lazy expiry: conditional flip, first writer wins
	ExpireIfDue(ctx context.Context, eventID string, now time.Time) (bool, error)

	// Ticket classes
	CreateClass(ctx context.Context, class *TicketClass) error
	GetClass(ctx context.Context, eventID, className string) (*TicketClass, error)
	ListClasses(ctx context.Context, eventID string) ([]TicketClass, error)
	DeleteClass(ctx context.Context, eventID, className string) error

	// Staff list mutations, serialized by a row lock on the event
	AddStaff(ctx context.Context, eventID, userID string) error
	RemoveStaff(ctx context.Context, eventID, userID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to create event")
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, eventID string) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "event %s not found", eventID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load event")
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, eventID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Event{}).
		Where("event_id = ?", eventID).
		Updates(updates)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.KindUnavailable, "failed to update event")
	}
	if result.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "event %s not found", eventID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, eventID string) error {
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&Event{}).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to delete event")
	}
	return nil
}

func (r *repository) ListByStatus(ctx context.Context, status Status) ([]Event, error) {
	var rows []Event
	err := r.db.WithContext(ctx).
		Where("event_status = ?", status).
		Order("start_date_time").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list events")
	}
	return rows, nil
}

func (r *repository) ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error) {
	var rows []Event
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list organizer events")
	}
	return rows, nil
}

func (r *repository) ListByIDs(ctx context.Context, eventIDs []string) ([]Event, error) {
	if len(eventIDs) == 0 {
		return []Event{}, nil
	}
	var rows []Event
	err := r.db.WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list events")
	}
	return rows, nil
}

// NextEventID allocates the next "EVnnnnn" identifier, probing forward
// until the candidate is free.
func (r *repository) NextEventID(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Event{}).Count(&count).Error; err != nil {
		return "", apperrors.Wrap(err, apperrors.KindUnavailable, "failed to count events")
	}

	n := int(count) + 1
	for {
		candidate := fmt.Sprintf("EV%05d", n)
		var taken int64
		err := r.db.WithContext(ctx).Model(&Event{}).
			Where("event_id = ?", candidate).
			Count(&taken).Error
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.KindUnavailable, "failed to check event id")
		}
		if taken == 0 {
			return candidate, nil
		}
		n++
	}
}

// ExpireIfDue flips an overdue On-going event to Expired. Returns true
// only for the writer that performed the flip; concurrent readers
// observe the already-updated row.
func (r *repository) ExpireIfDue(ctx context.Context, eventID string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Event{}).
		Where("event_id = ? AND event_status = ? AND end_date_time < ?", eventID, StatusOnGoing, now).
		Update("event_status", StatusExpired)
	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, apperrors.KindUnavailable, "failed to expire event")
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CreateClass(ctx context.Context, class *TicketClass) error {
	if err := r.db.WithContext(ctx).Create(class).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Newf(apperrors.KindConflict, "ticket class %s already exists", class.ClassName)
		}
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to create ticket class")
	}
	return nil
}

func (r *repository) GetClass(ctx context.Context, eventID, className string) (*TicketClass, error) {
	var class TicketClass
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND class_name = ?", eventID, className).
		First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "ticket class %s not found", className)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load ticket class")
	}
	return &class, nil
}

func (r *repository) ListClasses(ctx context.Context, eventID string) ([]TicketClass, error) {
	var classes []TicketClass
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("class_name").
		Find(&classes).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list ticket classes")
	}
	return classes, nil
}

func (r *repository) DeleteClass(ctx context.Context, eventID, className string) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND class_name = ?", eventID, className).
		Delete(&TicketClass{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.KindUnavailable, "failed to delete ticket class")
	}
	if result.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "ticket class %s not found", className)
	}
	return nil
}

func (r *repository) AddStaff(ctx context.Context, eventID, userID string) error {
	return r.mutateStaff(ctx, eventID, func(staff []string) ([]string, error) {
		for _, id := range staff {
			if id == userID {
				return nil, apperrors.New(apperrors.KindConflict, "user is already staff for this event")
			}
		}
		return append(staff, userID), nil
	})
}

func (r *repository) RemoveStaff(ctx context.Context, eventID, userID string) error {
	return r.mutateStaff(ctx, eventID, func(staff []string) ([]string, error) {
		out := staff[:0]
		found := false
		for _, id := range staff {
			if id == userID {
				found = true
				continue
			}
			out = append(out, id)
		}
		if !found {
			return nil, apperrors.New(apperrors.KindNotFound, "user is not staff for this event")
		}
		return out, nil
	})
}

// lockEventRow loads the event under FOR UPDATE so read-modify-write
// callers serialize on the row.
func lockEventRow(tx *gorm.DB, eventID string, event *Event) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ?", eventID).
		First(event)
}

// mutateStaff rewrites the staff list under a row lock so concurrent
// add/remove calls serialize instead of losing updates.
func (r *repository) mutateStaff(ctx context.Context, eventID string, mutate func([]string) ([]string, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		err := lockEventRow(tx, eventID, &event).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Newf(apperrors.KindNotFound, "event %s not found", eventID)
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to lock event")
		}

		staff, err := mutate(event.Staff)
		if err != nil {
			return err
		}

		if err := tx.Model(&event).Update("staff", staff).Error; err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to update staff")
		}
		return nil
	})
}
