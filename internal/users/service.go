package users

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/beambyp/EventBud/internal/events"
	"github.com/beambyp/EventBud/internal/shared/apperrors"
	"github.com/beambyp/EventBud/internal/shared/config"
	"github.com/beambyp/EventBud/pkg/clock"
	"github.com/beambyp/EventBud/pkg/logger"
)

const (
	RoleAttendee  = "attendee"
	RoleOrganizer = "organizer"
)

// JWTClaims are the custom claims carried by access tokens.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service interface defines the contract for account business logic
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error)
	OrganizerSignUp(ctx context.Context, req OrganizerSignUpRequest) (*AuthResponse, error)
	OrganizerSignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error)

	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error

	// StaffEvents returns the user's scannable events, pruning expired
	// ones from the schedule as a side effect.
	StaffEvents(ctx context.Context, userID string) ([]events.Event, error)
}

type service struct {
	repo   Repository
	events events.Repository
	cfg    *config.Config
	clock  clock.Clock
	log    *logger.Logger
}

func NewService(repo Repository, eventRepo events.Repository, cfg *config.Config, clk clock.Clock, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		events: eventRepo,
		cfg:    cfg,
		clock:  clk,
		log:    log,
	}
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.New(apperrors.KindConflict, "email is already registered")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to hash password")
	}

	userID, err := s.repo.NextUserID(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	user := &User{
		UserID:          userID,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PasswordHash:    string(hash),
		TelephoneNumber: req.TelephoneNumber,
		Events:          []string{},
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(userID, user.Email, user.FirstName+" "+user.LastName, RoleAttendee)
}

func (s *service) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "invalid email or password")
	}

	s.log.LogAuthSuccess(ctx, user.UserID, "password")
	return s.issueToken(user.UserID, user.Email, user.FirstName+" "+user.LastName, RoleAttendee)
}

func (s *service) OrganizerSignUp(ctx context.Context, req OrganizerSignUpRequest) (*AuthResponse, error) {
	if _, err := s.repo.GetOrganizerByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.New(apperrors.KindConflict, "email is already registered")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to hash password")
	}

	organizerID, err := s.repo.NextOrganizerID(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	organizer := &Organizer{
		OrganizerID:    organizerID,
		Email:          req.Email,
		OrganizerName:  req.OrganizerName,
		OrganizerPhone: req.OrganizerPhone,
		PasswordHash:   string(hash),
	}
	if err := s.repo.CreateOrganizer(ctx, organizer); err != nil {
		return nil, err
	}

	return s.issueToken(organizerID, organizer.Email, organizer.OrganizerName, RoleOrganizer)
}

func (s *service) OrganizerSignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	organizer, err := s.repo.GetOrganizerByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(organizer.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "invalid email or password")
	}

	s.log.LogAuthSuccess(ctx, organizer.OrganizerID, "password")
	return s.issueToken(organizer.OrganizerID, organizer.Email, organizer.OrganizerName, RoleOrganizer)
}

func (s *service) GetProfile(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.TelephoneNumber != "" {
		updates["telephone_number"] = req.TelephoneNumber
	}
	if len(updates) == 0 {
		return apperrors.New(apperrors.KindValidation, "no fields to update")
	}
	return s.repo.UpdateUser(ctx, req.UserID, updates)
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return apperrors.New(apperrors.KindUnauthorized, "old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to hash password")
	}

	return s.repo.UpdateUser(ctx, user.UserID, map[string]interface{}{
		"password_hash": string(hash),
	})
}

func (s *service) StaffEvents(ctx context.Context, userID string) ([]events.Event, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.events.ListByIDs(ctx, user.Events)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]events.Event, 0, len(rows))
	for i := range rows {
		ev := rows[i]
		if ev.EventStatus == events.StatusOnGoing && ev.EndDateTime.Before(now) {
			if _, err := s.events.ExpireIfDue(ctx, ev.EventID, now); err != nil {
				return nil, err
			}
			ev.EventStatus = events.StatusExpired
		}
		if ev.EventStatus == events.StatusExpired {
			// Finished events drop off the schedule
			if err := s.repo.DetachEvent(ctx, userID, ev.EventID); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *service) issueToken(id, email, displayName, role string) (*AuthResponse, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: id,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.JWTExpiresIn)),
			Issuer:    "eventbud",
			Subject:   id,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to sign token")
	}

	return &AuthResponse{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		AccessToken: signed,
		ExpiresIn:   int64(s.cfg.JWT.JWTExpiresIn.Seconds()),
	}, nil
}
