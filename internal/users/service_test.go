package users

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beambyp/EventBud/internal/events"
	"github.com/beambyp/EventBud/internal/shared/apperrors"
	"github.com/beambyp/EventBud/internal/shared/config"
	"github.com/beambyp/EventBud/pkg/clock"
	"github.com/beambyp/EventBud/pkg/logger"
)

type fakeUserRepo struct {
	users      map[string]*User
	organizers map[string]*Organizer
	detached   []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*User),
		organizers: make(map[string]*Organizer),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *User) error {
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID string) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "user %s not found", userID)
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.Newf(apperrors.KindNotFound, "user with email %s not found", email)
}

func (f *fakeUserRepo) ListUsersByIDs(ctx context.Context, userIDs []string) ([]User, error) {
	var out []User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.Newf(apperrors.KindNotFound, "user %s not found", userID)
	}
	if v, ok := updates["first_name"]; ok {
		u.FirstName = v.(string)
	}
	if v, ok := updates["last_name"]; ok {
		u.LastName = v.(string)
	}
	if v, ok := updates["telephone_number"]; ok {
		u.TelephoneNumber = v.(string)
	}
	if v, ok := updates["password_hash"]; ok {
		u.PasswordHash = v.(string)
	}
	return nil
}

func (f *fakeUserRepo) NextUserID(ctx context.Context, email string) (string, error) {
	base := strings.Split(email, "@")[0]
	candidate := base
	for n := 1; ; n++ {
		if _, taken := f.users[candidate]; !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, n)
	}
}

func (f *fakeUserRepo) AttachEvent(ctx context.Context, userID, eventID string) error {
	u := f.users[userID]
	u.Events = append(u.Events, eventID)
	return nil
}

func (f *fakeUserRepo) DetachEvent(ctx context.Context, userID, eventID string) error {
	f.detached = append(f.detached, eventID)
	u := f.users[userID]
	kept := u.Events[:0]
	for _, id := range u.Events {
		if id != eventID {
			kept = append(kept, id)
		}
	}
	u.Events = kept
	return nil
}

func (f *fakeUserRepo) CreateOrganizer(ctx context.Context, organizer *Organizer) error {
	f.organizers[organizer.OrganizerID] = organizer
	return nil
}

func (f *fakeUserRepo) GetOrganizerByID(ctx context.Context, organizerID string) (*Organizer, error) {
	o, ok := f.organizers[organizerID]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "organizer %s not found", organizerID)
	}
	return o, nil
}

func (f *fakeUserRepo) GetOrganizerByEmail(ctx context.Context, email string) (*Organizer, error) {
	for _, o := range f.organizers {
		if o.Email == email {
			return o, nil
		}
	}
	return nil, apperrors.Newf(apperrors.KindNotFound, "organizer with email %s not found", email)
}

func (f *fakeUserRepo) NextOrganizerID(ctx context.Context, email string) (string, error) {
	base := strings.Split(email, "@")[0]
	candidate := base
	for n := 1; ; n++ {
		if _, taken := f.organizers[candidate]; !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, n)
	}
}

// fakeScheduleEvents implements the slice of the events repository the
// account service touches; the rest is never called from these tests.
type fakeScheduleEvents struct {
	events.Repository
	rows map[string]*events.Event
}

func (f *fakeScheduleEvents) ListByIDs(ctx context.Context, eventIDs []string) ([]events.Event, error) {
	var out []events.Event
	for _, id := range eventIDs {
		if ev, ok := f.rows[id]; ok {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeScheduleEvents) ExpireIfDue(ctx context.Context, eventID string, now time.Time) (bool, error) {
	ev, ok := f.rows[eventID]
	if !ok {
		return false, nil
	}
	if ev.EventStatus == events.StatusOnGoing && ev.EndDateTime.Before(now) {
		ev.EventStatus = events.StatusExpired
		return true, nil
	}
	return false, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:       "test-secret",
			JWTExpiresIn: time.Hour,
		},
	}
}

func newUserFixture(t *testing.T) (Service, *fakeUserRepo, *fakeScheduleEvents) {
	t.Helper()

	repo := newFakeUserRepo()
	eventRepo := &fakeScheduleEvents{rows: make(map[string]*events.Event)}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, eventRepo, testConfig(), clock.NewFixed(now), logger.GetDefault())
	return svc, repo, eventRepo
}

func parseClaims(t *testing.T, token string) *JWTClaims {
	t.Helper()

	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestSignUp(t *testing.T) {
	t.Run("creates an attendee account with a signed token", func(t *testing.T) {
		svc, repo, _ := newUserFixture(t)

		resp, err := svc.SignUp(context.Background(), SignUpRequest{
			Email:           "alice@example.com",
			Password:        "hunter2hunter2",
			FirstName:       "Alice",
			LastName:        "Wong",
			TelephoneNumber: "0811111111",
		})

		require.NoError(t, err)
		assert.Equal(t, "alice", resp.ID)
		assert.Equal(t, "Alice Wong", resp.DisplayName)
		assert.Equal(t, RoleAttendee, resp.Role)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims := parseClaims(t, resp.AccessToken)
		assert.Equal(t, "alice", claims.UserID)
		assert.Equal(t, RoleAttendee, claims.Role)
		assert.Equal(t, "eventbud", claims.Issuer)

		stored := repo.users["alice"]
		require.NotNil(t, stored)
		assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
	})

	t.Run("suffixes the user id when the email local part is taken", func(t *testing.T) {
		svc, _, _ := newUserFixture(t)

		first, err := svc.SignUp(context.Background(), SignUpRequest{
			Email: "alice@example.com", Password: "hunter2hunter2", FirstName: "Alice", LastName: "Wong",
		})
		require.NoError(t, err)

		second, err := svc.SignUp(context.Background(), SignUpRequest{
			Email: "alice@other.org", Password: "hunter2hunter2", FirstName: "Alice", LastName: "Other",
		})
		require.NoError(t, err)

		assert.Equal(t, "alice", first.ID)
		assert.Equal(t, "alice1", second.ID)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		svc, _, _ := newUserFixture(t)

		_, err := svc.SignUp(context.Background(), SignUpRequest{
			Email: "alice@example.com", Password: "hunter2hunter2", FirstName: "Alice", LastName: "Wong",
		})
		require.NoError(t, err)

		_, err = svc.SignUp(context.Background(), SignUpRequest{
			Email: "alice@example.com", Password: "other-password", FirstName: "Alice", LastName: "Wong",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestSignIn(t *testing.T) {
	signUp := func(t *testing.T, svc Service) {
		t.Helper()
		_, err := svc.SignUp(context.Background(), SignUpRequest{
			Email: "alice@example.com", Password: "hunter2hunter2", FirstName: "Alice", LastName: "Wong",
		})
		require.NoError(t, err)
	}

	t.Run("accepts the right password", func(t *testing.T) {
		svc, _, _ := newUserFixture(t)
		signUp(t, svc)

		resp, err := svc.SignIn(context.Background(), SignInRequest{
			Email: "alice@example.com", Password: "hunter2hunter2",
		})

		require.NoError(t, err)
		assert.Equal(t, "alice", resp.ID)
	})

	t.Run("rejects a wrong password without disclosing which part failed", func(t *testing.T) {
		svc, _, _ := newUserFixture(t)
		signUp(t, svc)

		_, err := svc.SignIn(context.Background(), SignInRequest{
			Email: "alice@example.com", Password: "wrong",
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
		assert.Equal(t, "invalid email or password", err.Error())

		_, err = svc.SignIn(context.Background(), SignInRequest{
			Email: "nobody@example.com", Password: "whatever",
		})
		require.Error(t, err)
		assert.Equal(t, "invalid email or password", err.Error())
	})
}

func TestOrganizerAccounts(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	resp, err := svc.OrganizerSignUp(context.Background(), OrganizerSignUpRequest{
		Email:          "shows@livehouse.example.com",
		Password:       "hunter2hunter2",
		OrganizerName:  "Livehouse Productions",
		OrganizerPhone: "021234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "shows", resp.ID)
	assert.Equal(t, RoleOrganizer, resp.Role)
	assert.Equal(t, "Livehouse Productions", resp.DisplayName)

	claims := parseClaims(t, resp.AccessToken)
	assert.Equal(t, RoleOrganizer, claims.Role)

	signin, err := svc.OrganizerSignIn(context.Background(), SignInRequest{
		Email: "shows@livehouse.example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "shows", signin.ID)

	_, err = svc.OrganizerSignIn(context.Background(), SignInRequest{
		Email: "shows@livehouse.example.com", Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestResetPassword(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email: "alice@example.com", Password: "old-password-1", FirstName: "Alice", LastName: "Wong",
	})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email: "alice@example.com", OldPassword: "wrong", NewPassword: "new-password-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email: "alice@example.com", OldPassword: "old-password-1", NewPassword: "new-password-1",
	})
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), SignInRequest{
		Email: "alice@example.com", Password: "new-password-1",
	})
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email: "alice@example.com", Password: "hunter2hunter2", FirstName: "Alice", LastName: "Wong",
	})
	require.NoError(t, err)

	err = svc.UpdateProfile(context.Background(), UpdateProfileRequest{UserID: "alice"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	err = svc.UpdateProfile(context.Background(), UpdateProfileRequest{
		UserID: "alice", FirstName: "Alicia", TelephoneNumber: "0899999999",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", repo.users["alice"].FirstName)
	assert.Equal(t, "0899999999", repo.users["alice"].TelephoneNumber)
}

func TestStaffEvents(t *testing.T) {
	svc, repo, eventRepo := newUserFixture(t)
	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email: "carol@example.com", Password: "hunter2hunter2", FirstName: "Carol", LastName: "Lim",
	})
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eventRepo.rows["EV00001"] = &events.Event{
		EventID:       "EV00001",
		EventStatus:   events.StatusOnGoing,
		StartDateTime: now.AddDate(0, 1, 0),
		EndDateTime:   now.AddDate(0, 1, 0).Add(4 * time.Hour),
	}
	eventRepo.rows["EV00002"] = &events.Event{
		EventID:       "EV00002",
		EventStatus:   events.StatusOnGoing,
		EndDateTime:   now.Add(-time.Hour),
	}
	require.NoError(t, repo.AttachEvent(context.Background(), "carol", "EV00001"))
	require.NoError(t, repo.AttachEvent(context.Background(), "carol", "EV00002"))

	rows, err := svc.StaffEvents(context.Background(), "carol")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "EV00001", rows[0].EventID)

	// The finished event is pruned from the schedule
	assert.Equal(t, []string{"EV00002"}, repo.detached)
	assert.Equal(t, []string{"EV00001"}, repo.users["carol"].Events)
	assert.Equal(t, events.StatusExpired, eventRepo.rows["EV00002"].EventStatus)
}
