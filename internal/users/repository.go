package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beambyp/EventBud/internal/shared/apperrors"
)

type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsersByIDs(ctx context.Context, userIDs []string) ([]User, error)
	UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error
	NextUserID(ctx context.Context, email string) (string, error)

	// Staff schedule list on the user row
	AttachEvent(ctx context.Context, userID, eventID string) error
	DetachEvent(ctx context.Context, userID, eventID string) error

	// Organizers
	CreateOrganizer(ctx context.Context, organizer *Organizer) error
	GetOrganizerByID(ctx context.Context, organizerID string) (*Organizer, error)
	GetOrganizerByEmail(ctx context.Context, email string) (*Organizer, error)
	NextOrganizerID(ctx context.Context, email string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUser(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.KindConflict, "email is already registered")
		}
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to create user")
	}
	return nil
}

func (r *repository) GetUserByID(ctx context.Context, userID string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "user %s not found", userID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load user")
	}
	return &user, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "user with email %s not found", email)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load user")
	}
	return &user, nil
}

func (r *repository) ListUsersByIDs(ctx context.Context, userIDs []string) ([]User, error) {
	if len(userIDs) == 0 {
		return []User{}, nil
	}
	var rows []User
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list users")
	}
	return rows, nil
}

func (r *repository) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&User{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.KindUnavailable, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "user %s not found", userID)
	}
	return nil
}

// NextUserID derives an identifier from the email local part, probing
// with numeric suffixes until unused.
func (r *repository) NextUserID(ctx context.Context, email string) (string, error) {
	base := strings.Split(email, "@")[0]

	candidate := base
	for n := 1; ; n++ {
		var taken int64
		err := r.db.WithContext(ctx).Model(&User{}).
			Where("user_id = ?", candidate).
			Count(&taken).Error
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.KindUnavailable, "failed to check user id")
		}
		if taken == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, n)
	}
}

func (r *repository) AttachEvent(ctx context.Context, userID, eventID string) error {
	return r.mutateEvents(ctx, userID, func(events []string) []string {
		for _, id := range events {
			if id == eventID {
				return events
			}
		}
		return append(events, eventID)
	})
}

func (r *repository) DetachEvent(ctx context.Context, userID, eventID string) error {
	return r.mutateEvents(ctx, userID, func(events []string) []string {
		out := events[:0]
		for _, id := range events {
			if id != eventID {
				out = append(out, id)
			}
		}
		return out
	})
}

// lockUserRow loads the user under FOR UPDATE so schedule rewrites
// serialize on the row.
func lockUserRow(tx *gorm.DB, userID string, user *User) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(user)
}

func (r *repository) mutateEvents(ctx context.Context, userID string, mutate func([]string) []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user User
		err := lockUserRow(tx, userID, &user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Newf(apperrors.KindNotFound, "user %s not found", userID)
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to lock user")
		}

		if err := tx.Model(&user).Update("events", mutate(user.Events)).Error; err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to update staff schedule")
		}
		return nil
	})
}

func (r *repository) CreateOrganizer(ctx context.Context, organizer *Organizer) error {
	if err := r.db.WithContext(ctx).Create(organizer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.KindConflict, "email is already registered")
		}
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to create organizer")
	}
	return nil
}

func (r *repository) GetOrganizerByID(ctx context.Context, organizerID string) (*Organizer, error) {
	var organizer Organizer
	err := r.db.WithContext(ctx).Where("organizer_id = ?", organizerID).First(&organizer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "organizer %s not found", organizerID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load organizer")
	}
	return &organizer, nil
}

func (r *repository) GetOrganizerByEmail(ctx context.Context, email string) (*Organizer, error) {
	var organizer Organizer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&organizer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "organizer with email %s not found", email)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load organizer")
	}
	return &organizer, nil
}

func (r *repository) NextOrganizerID(ctx context.Context, email string) (string, error) {
	base := strings.Split(email, "@")[0]

	candidate := base
	for n := 1; ; n++ {
		var taken int64
		err := r.db.WithContext(ctx).Model(&Organizer{}).
			Where("organizer_id = ?", candidate).
			Count(&taken).Error
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.KindUnavailable, "failed to check organizer id")
		}
		if taken == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, n)
	}
}
