package events

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beambyp/EventBud/internal/ledger"
	"github.com/beambyp/EventBud/internal/seats"
	"github.com/beambyp/EventBud/internal/shared/apperrors"
	"github.com/beambyp/EventBud/internal/shared/constants"
	"github.com/beambyp/EventBud/pkg/clock"
	"github.com/beambyp/EventBud/pkg/logger"
)

type fakeEventRepo struct {
	events  map[string]*Event
	classes map[string][]TicketClass
	nextID  int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:  make(map[string]*Event),
		classes: make(map[string][]TicketClass),
		nextID:  1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *Event) error {
	f.events[event.EventID] = event
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, eventID string) (*Event, error) {
	ev, ok := f.events[eventID]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "event %s not found", eventID)
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, eventID string, updates map[string]interface{}) error {
	ev, ok := f.events[eventID]
	if !ok {
		return apperrors.Newf(apperrors.KindNotFound, "event %s not found", eventID)
	}
	if status, ok := updates["event_status"]; ok {
		ev.EventStatus = status.(Status)
	}
	if name, ok := updates["event_name"]; ok {
		ev.EventName = name.(string)
	}
	if name, ok := updates["bank_account_name"]; ok {
		ev.BankAccount.AccountName = name.(string)
	}
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, eventID string) error {
	delete(f.events, eventID)
	return nil
}

func (f *fakeEventRepo) ListByStatus(ctx context.Context, status Status) ([]Event, error) {
	var out []Event
	for _, ev := range f.events {
		if ev.EventStatus == status {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error) {
	var out []Event
	for _, ev := range f.events {
		if ev.OrganizerID == organizerID {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByIDs(ctx context.Context, eventIDs []string) ([]Event, error) {
	var out []Event
	for _, id := range eventIDs {
		if ev, ok := f.events[id]; ok {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) NextEventID(ctx context.Context) (string, error) {
	id := f.nextID
	f.nextID++
	return fmt.Sprintf("EV%05d", id), nil
}

func (f *fakeEventRepo) ExpireIfDue(ctx context.Context, eventID string, now time.Time) (bool, error) {
	ev, ok := f.events[eventID]
	if !ok {
		return false, nil
	}
	if ev.EventStatus == StatusOnGoing && ev.EndDateTime.Before(now) {
		ev.EventStatus = StatusExpired
		return true, nil
	}
	return false, nil
}

func (f *fakeEventRepo) CreateClass(ctx context.Context, class *TicketClass) error {
	f.classes[class.EventID] = append(f.classes[class.EventID], *class)
	return nil
}

func (f *fakeEventRepo) GetClass(ctx context.Context, eventID, className string) (*TicketClass, error) {
	for _, c := range f.classes[eventID] {
		if c.ClassName == className {
			copied := c
			return &copied, nil
		}
	}
	return nil, apperrors.Newf(apperrors.KindNotFound, "ticket class %s not found", className)
}

func (f *fakeEventRepo) ListClasses(ctx context.Context, eventID string) ([]TicketClass, error) {
	return f.classes[eventID], nil
}

func (f *fakeEventRepo) DeleteClass(ctx context.Context, eventID, className string) error {
	kept := f.classes[eventID][:0]
	for _, c := range f.classes[eventID] {
		if c.ClassName != className {
			kept = append(kept, c)
		}
	}
	f.classes[eventID] = kept
	return nil
}

func (f *fakeEventRepo) AddStaff(ctx context.Context, eventID, userID string) error {
	ev := f.events[eventID]
	ev.Staff = append(ev.Staff, userID)
	return nil
}

func (f *fakeEventRepo) RemoveStaff(ctx context.Context, eventID, userID string) error {
	ev := f.events[eventID]
	kept := ev.Staff[:0]
	for _, id := range ev.Staff {
		if id != userID {
			kept = append(kept, id)
		}
	}
	ev.Staff = kept
	return nil
}

type fakeLedgerRepo struct {
	zones map[string]*ledger.ZoneRevenue
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{zones: make(map[string]*ledger.ZoneRevenue)}
}

func (f *fakeLedgerRepo) RecordSale(ctx context.Context, eventID, className string, seatCount int) (*ledger.SaleResult, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) ReverseSale(ctx context.Context, eventID, className string, seatCount int) error {
	return nil
}

func (f *fakeLedgerRepo) RecordClassAdded(ctx context.Context, zone *ledger.ZoneRevenue) error {
	f.zones[zone.EventID+"/"+zone.ClassName] = zone
	return nil
}

func (f *fakeLedgerRepo) RecordClassRemoval(ctx context.Context, eventID, className string) error {
	delete(f.zones, eventID+"/"+className)
	return nil
}

func (f *fakeLedgerRepo) GetZone(ctx context.Context, eventID, className string) (*ledger.ZoneRevenue, error) {
	z, ok := f.zones[eventID+"/"+className]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "zone %s not found", className)
	}
	return z, nil
}

func (f *fakeLedgerRepo) ListZonesByEvent(ctx context.Context, eventID string) ([]ledger.ZoneRevenue, error) {
	var out []ledger.ZoneRevenue
	for _, z := range f.zones {
		if z.EventID == eventID {
			out = append(out, *z)
		}
	}
	return out, nil
}

type fakeSeatRepo struct {
	grids map[string]int
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{grids: make(map[string]int)}
}

func (f *fakeSeatRepo) CreateGrid(ctx context.Context, eventID, className string, rowNo, columnNo int) error {
	f.grids[eventID+"/"+className] = rowNo * columnNo
	return nil
}

func (f *fakeSeatRepo) DeleteByClass(ctx context.Context, eventID, className string) error {
	delete(f.grids, eventID+"/"+className)
	return nil
}

func (f *fakeSeatRepo) ReserveSeats(ctx context.Context, eventID, className string, seatNos []string) error {
	return nil
}

func (f *fakeSeatRepo) ReleaseSeats(ctx context.Context, eventID, className string, seatNos []string) error {
	return nil
}

func (f *fakeSeatRepo) CommitSeats(ctx context.Context, eventID, className string, seatNos []string) error {
	return nil
}

func (f *fakeSeatRepo) VerifyReserved(ctx context.Context, eventID, className string, seatNos []string) error {
	return nil
}

func (f *fakeSeatRepo) ListByClass(ctx context.Context, eventID, className string) ([]seats.Seat, error) {
	return nil, nil
}

func (f *fakeSeatRepo) CountByStatus(ctx context.Context, eventID, className string, status seats.SeatStatus) (int64, error) {
	return 0, nil
}

type fakeDirectory struct {
	organizers map[string]string
	members    map[string]*StaffMember
	attached   []string
	detached   []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		organizers: map[string]string{"livehouse": "Livehouse Productions"},
		members: map[string]*StaffMember{
			"carol@example.com": {UserID: "carol", Email: "carol@example.com", FirstName: "Carol", LastName: "Lim"},
		},
	}
}

func (f *fakeDirectory) GetOrganizerName(ctx context.Context, organizerID string) (string, error) {
	name, ok := f.organizers[organizerID]
	if !ok {
		return "", apperrors.Newf(apperrors.KindNotFound, "organizer %s not found", organizerID)
	}
	return name, nil
}

func (f *fakeDirectory) FindUserByEmail(ctx context.Context, email string) (*StaffMember, error) {
	m, ok := f.members[email]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "user with email %s not found", email)
	}
	return m, nil
}

func (f *fakeDirectory) DescribeUsers(ctx context.Context, userIDs []string) ([]StaffMember, error) {
	var out []StaffMember
	for _, id := range userIDs {
		for _, m := range f.members {
			if m.UserID == id {
				out = append(out, *m)
			}
		}
	}
	return out, nil
}

func (f *fakeDirectory) AttachEventToUser(ctx context.Context, userID, eventID string) error {
	f.attached = append(f.attached, userID+"/"+eventID)
	return nil
}

func (f *fakeDirectory) DetachEventFromUser(ctx context.Context, userID, eventID string) error {
	f.detached = append(f.detached, userID+"/"+eventID)
	return nil
}

type stubCache struct {
	lists   map[string][]Event
	details map[string]Event
	deleted []string
}

func newStubCache() *stubCache {
	return &stubCache{
		lists:   make(map[string][]Event),
		details: make(map[string]Event),
	}
}

func (c *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	switch d := dest.(type) {
	case *[]Event:
		if rows, ok := c.lists[key]; ok {
			*d = rows
			return nil
		}
	case *Event:
		if ev, ok := c.details[key]; ok {
			*d = ev
			return nil
		}
	}
	return apperrors.Newf(apperrors.KindNotFound, "cache miss for key %s", key)
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	delete(c.lists, key)
	delete(c.details, key)
	return nil
}

func (c *stubCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (c *stubCache) Exists(ctx context.Context, key string) bool { return false }

func (c *stubCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	_, err := fetcher()
	return err
}

func (c *stubCache) Ping(ctx context.Context) error { return nil }

type eventFixture struct {
	repo      *fakeEventRepo
	ledger    *fakeLedgerRepo
	seats     *fakeSeatRepo
	directory *fakeDirectory
	clock     *clock.Fixed
	svc       Service
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()

	f := &eventFixture{
		repo:      newFakeEventRepo(),
		ledger:    newFakeLedgerRepo(),
		seats:     newFakeSeatRepo(),
		directory: newFakeDirectory(),
		clock:     clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.svc = NewService(f.repo, f.ledger, f.seats, f.directory, nil, f.clock, logger.GetDefault())
	return f
}

func (f *eventFixture) readyDraft(t *testing.T) *Event {
	t.Helper()

	event, err := f.svc.CreateDraft(context.Background(), "livehouse")
	require.NoError(t, err)

	stored := f.repo.events[event.EventID]
	stored.EventName = "Midnight Echoes Live"
	stored.Location = "Riverside Arena"
	stored.EventInfo = "An intimate night."
	stored.PosterImage = "poster.jpg"
	stored.Tags = []string{"concert"}
	stored.StartDateTime = f.clock.Instant.AddDate(0, 1, 0)
	stored.EndDateTime = stored.StartDateTime.Add(4 * time.Hour)

	err = f.svc.CreateClass(context.Background(), "livehouse", event.EventID, CreateTicketClassRequest{
		ClassName:       "VIP",
		PricePerSeat:    2500,
		AmountOfSeat:    20,
		RowNo:           4,
		ColumnNo:        5,
		ValidDatetime:   stored.StartDateTime,
		ExpiredDatetime: stored.EndDateTime,
	})
	require.NoError(t, err)
	return stored
}

func TestCreateDraft(t *testing.T) {
	f := newEventFixture(t)

	event, err := f.svc.CreateDraft(context.Background(), "livehouse")

	require.NoError(t, err)
	assert.Equal(t, "EV00001", event.EventID)
	assert.Equal(t, StatusDraft, event.EventStatus)
	assert.Equal(t, "Livehouse Productions", event.OrganizerName)

	_, err = f.svc.CreateDraft(context.Background(), "unknown")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPublish(t *testing.T) {
	t.Run("publishes a complete draft", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)

		err := f.svc.Publish(context.Background(), "livehouse", event.EventID)

		require.NoError(t, err)
		assert.Equal(t, StatusOnGoing, f.repo.events[event.EventID].EventStatus)
	})

	t.Run("lists every missing field", func(t *testing.T) {
		f := newEventFixture(t)
		event, err := f.svc.CreateDraft(context.Background(), "livehouse")
		require.NoError(t, err)

		err = f.svc.Publish(context.Background(), "livehouse", event.EventID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), "eventName")
		assert.Contains(t, err.Error(), "location")
		assert.Contains(t, err.Error(), "eventInfo")
		assert.Contains(t, err.Error(), "posterImage")
		assert.Contains(t, err.Error(), "tagName")
		assert.Contains(t, err.Error(), "ticketClass")
	})

	t.Run("rejects a start date in the past", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)
		f.repo.events[event.EventID].StartDateTime = f.clock.Instant.AddDate(0, 0, -1)

		err := f.svc.Publish(context.Background(), "livehouse", event.EventID)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "start date is in the past")
	})

	t.Run("rejects republishing", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)
		require.NoError(t, f.svc.Publish(context.Background(), "livehouse", event.EventID))

		err := f.svc.Publish(context.Background(), "livehouse", event.EventID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})

	t.Run("rejects another organizer", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)

		err := f.svc.Publish(context.Background(), "rival", event.EventID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})
}

func TestUpdateSettings(t *testing.T) {
	validReq := func(f *eventFixture) EventSettingRequest {
		start := f.clock.Instant.AddDate(0, 1, 0)
		return EventSettingRequest{
			EventName:       "Midnight Echoes Live",
			StartDateTime:   start,
			EndDateTime:     start.Add(4 * time.Hour),
			OnSaleDateTime:  f.clock.Instant,
			EndSaleDateTime: start.Add(-24 * time.Hour),
			Location:        "Riverside Arena",
			EventInfo:       "An intimate night.",
			Tags:            []string{"concert"},
		}
	}

	t.Run("updates a draft", func(t *testing.T) {
		f := newEventFixture(t)
		event, err := f.svc.CreateDraft(context.Background(), "livehouse")
		require.NoError(t, err)

		err = f.svc.UpdateSettings(context.Background(), "livehouse", event.EventID, validReq(f))

		require.NoError(t, err)
	})

	t.Run("rejects inverted date ranges", func(t *testing.T) {
		f := newEventFixture(t)
		event, err := f.svc.CreateDraft(context.Background(), "livehouse")
		require.NoError(t, err)

		req := validReq(f)
		req.StartDateTime = req.EndDateTime.Add(time.Hour)

		err = f.svc.UpdateSettings(context.Background(), "livehouse", event.EventID, req)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

		req = validReq(f)
		req.OnSaleDateTime = req.EndSaleDateTime.Add(time.Hour)

		err = f.svc.UpdateSettings(context.Background(), "livehouse", event.EventID, req)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("rejects edits after publication", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)
		require.NoError(t, f.svc.Publish(context.Background(), "livehouse", event.EventID))

		err := f.svc.UpdateSettings(context.Background(), "livehouse", event.EventID, validReq(f))

		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})
}

func TestCreateClass(t *testing.T) {
	newDraft := func(t *testing.T, f *eventFixture) *Event {
		event, err := f.svc.CreateDraft(context.Background(), "livehouse")
		require.NoError(t, err)
		return event
	}

	classReq := func(f *eventFixture) CreateTicketClassRequest {
		start := f.clock.Instant.AddDate(0, 1, 0)
		return CreateTicketClassRequest{
			ClassName:       "VIP",
			PricePerSeat:    2500,
			AmountOfSeat:    20,
			RowNo:           4,
			ColumnNo:        5,
			ValidDatetime:   start,
			ExpiredDatetime: start.Add(4 * time.Hour),
		}
	}

	t.Run("creates the class, its seat grid and its ledger zone", func(t *testing.T) {
		f := newEventFixture(t)
		event := newDraft(t, f)

		err := f.svc.CreateClass(context.Background(), "livehouse", event.EventID, classReq(f))

		require.NoError(t, err)
		assert.Equal(t, 20, f.seats.grids[event.EventID+"/VIP"])
		zone := f.ledger.zones[event.EventID+"/VIP"]
		require.NotNil(t, zone)
		assert.Equal(t, 20, zone.Quota)
		assert.Equal(t, 2500.0, zone.PricePerSeat)
	})

	t.Run("rejects a grid that does not match the seat count", func(t *testing.T) {
		f := newEventFixture(t)
		event := newDraft(t, f)

		req := classReq(f)
		req.RowNo = 3

		err := f.svc.CreateClass(context.Background(), "livehouse", event.EventID, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rowNo * columnNo")
	})

	t.Run("allows general admission with no grid", func(t *testing.T) {
		f := newEventFixture(t)
		event := newDraft(t, f)

		req := classReq(f)
		req.ClassName = "Standing"
		req.RowNo = 0
		req.ColumnNo = 0
		req.AmountOfSeat = 200

		err := f.svc.CreateClass(context.Background(), "livehouse", event.EventID, req)

		require.NoError(t, err)
		assert.Equal(t, 0, f.seats.grids[event.EventID+"/Standing"])
	})

	t.Run("rejects a duplicate class name", func(t *testing.T) {
		f := newEventFixture(t)
		event := newDraft(t, f)
		require.NoError(t, f.svc.CreateClass(context.Background(), "livehouse", event.EventID, classReq(f)))

		err := f.svc.CreateClass(context.Background(), "livehouse", event.EventID, classReq(f))

		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("rejects an inverted validity window", func(t *testing.T) {
		f := newEventFixture(t)
		event := newDraft(t, f)

		req := classReq(f)
		req.ValidDatetime = req.ExpiredDatetime.Add(time.Hour)

		err := f.svc.CreateClass(context.Background(), "livehouse", event.EventID, req)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("removes the draft with its classes, grids and zones", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)
		require.NoError(t, f.svc.AddStaff(context.Background(), "livehouse", event.EventID, "carol@example.com"))

		err := f.svc.DeleteEvent(context.Background(), "livehouse", event.EventID)

		require.NoError(t, err)
		assert.Empty(t, f.repo.events)
		assert.Empty(t, f.seats.grids)
		assert.Empty(t, f.ledger.zones)
		assert.Equal(t, []string{"carol/" + event.EventID}, f.directory.detached)
	})

	t.Run("rejects deleting a published event", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)
		require.NoError(t, f.svc.Publish(context.Background(), "livehouse", event.EventID))

		err := f.svc.DeleteEvent(context.Background(), "livehouse", event.EventID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})
}

func TestListOnGoing(t *testing.T) {
	f := newEventFixture(t)

	early := f.readyDraft(t)
	require.NoError(t, f.svc.Publish(context.Background(), "livehouse", early.EventID))

	late := f.readyDraft(t)
	f.repo.events[late.EventID].StartDateTime = late.StartDateTime.AddDate(0, 1, 0)
	f.repo.events[late.EventID].EndDateTime = late.EndDateTime.AddDate(0, 1, 0)
	require.NoError(t, f.svc.Publish(context.Background(), "livehouse", late.EventID))

	// Finished events flip to Expired on read and drop out of the list
	done := f.readyDraft(t)
	require.NoError(t, f.svc.Publish(context.Background(), "livehouse", done.EventID))
	f.repo.events[done.EventID].EndDateTime = f.clock.Instant.Add(-time.Hour)

	rows, err := f.svc.ListOnGoing(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, early.EventID, rows[0].EventID)
	assert.Equal(t, late.EventID, rows[1].EventID)
	assert.Equal(t, StatusExpired, f.repo.events[done.EventID].EventStatus)
}

func TestCachedEventReads(t *testing.T) {
	withCache := func(t *testing.T) (*eventFixture, *stubCache) {
		t.Helper()
		f := newEventFixture(t)
		c := newStubCache()
		f.svc = NewService(f.repo, f.ledger, f.seats, f.directory, c, f.clock, logger.GetDefault())
		return f, c
	}

	t.Run("prunes finished events from a cached listing", func(t *testing.T) {
		f, c := withCache(t)
		now := f.clock.Instant

		live := Event{EventID: "EV00001", EventStatus: StatusOnGoing, EndDateTime: now.Add(time.Hour)}
		done := Event{EventID: "EV00002", EventStatus: StatusOnGoing, EndDateTime: now.Add(-time.Hour)}
		f.repo.events["EV00001"] = &live
		doneStored := done
		f.repo.events["EV00002"] = &doneStored
		c.lists[constants.CACHE_KEY_EVENTS_LIST] = []Event{live, done}

		rows, err := f.svc.ListOnGoing(context.Background())

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "EV00001", rows[0].EventID)
		assert.Equal(t, StatusExpired, f.repo.events["EV00002"].EventStatus)
		assert.Contains(t, c.deleted, constants.CACHE_KEY_EVENTS_LIST)
	})

	t.Run("flips a cached detail past its end time", func(t *testing.T) {
		f, c := withCache(t)
		now := f.clock.Instant

		done := Event{EventID: "EV00009", EventStatus: StatusOnGoing, EndDateTime: now.Add(-time.Hour)}
		stored := done
		f.repo.events["EV00009"] = &stored
		c.details[constants.BuildEventDetailKey("EV00009")] = done

		event, err := f.svc.GetEvent(context.Background(), "EV00009")

		require.NoError(t, err)
		assert.Equal(t, StatusExpired, event.EventStatus)
		assert.Equal(t, StatusExpired, f.repo.events["EV00009"].EventStatus)
		assert.Contains(t, c.deleted, constants.BuildEventDetailKey("EV00009"))
	})
}

func TestListOrganizerEvents(t *testing.T) {
	f := newEventFixture(t)

	published := f.readyDraft(t)
	require.NoError(t, f.svc.Publish(context.Background(), "livehouse", published.EventID))

	expired := f.readyDraft(t)
	require.NoError(t, f.svc.Publish(context.Background(), "livehouse", expired.EventID))
	f.repo.events[expired.EventID].EndDateTime = f.clock.Instant.Add(-time.Hour)

	draft, err := f.svc.CreateDraft(context.Background(), "livehouse")
	require.NoError(t, err)

	rows, err := f.svc.ListOrganizerEvents(context.Background(), "livehouse")

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, draft.EventID, rows[0].EventID)
	assert.Equal(t, published.EventID, rows[1].EventID)
	assert.Equal(t, expired.EventID, rows[2].EventID)
	assert.Equal(t, StatusExpired, rows[2].EventStatus)
}

func TestStaff(t *testing.T) {
	t.Run("adds and removes staff on a draft", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)

		require.NoError(t, f.svc.AddStaff(context.Background(), "livehouse", event.EventID, "carol@example.com"))
		assert.Equal(t, []string{"carol"}, f.repo.events[event.EventID].Staff)
		assert.Equal(t, []string{"carol/" + event.EventID}, f.directory.attached)

		members, err := f.svc.ListStaff(context.Background(), "livehouse", event.EventID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "carol", members[0].UserID)

		require.NoError(t, f.svc.RemoveStaff(context.Background(), "livehouse", event.EventID, "carol@example.com"))
		assert.Empty(t, f.repo.events[event.EventID].Staff)
		assert.Equal(t, []string{"carol/" + event.EventID}, f.directory.detached)
	})

	t.Run("rejects staff changes after publication", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.readyDraft(t)
		require.NoError(t, f.svc.Publish(context.Background(), "livehouse", event.EventID))

		err := f.svc.AddStaff(context.Background(), "livehouse", event.EventID, "carol@example.com")

		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})
}

func TestRevenueSummary(t *testing.T) {
	f := newEventFixture(t)
	event := f.readyDraft(t)
	f.ledger.zones[event.EventID+"/VIP"].TicketSold = 4
	f.repo.events[event.EventID].SoldTicket = 4
	f.repo.events[event.EventID].TotalTicket = 20
	f.repo.events[event.EventID].TotalRevenue = 10000

	resp, err := f.svc.RevenueSummary(context.Background(), event.EventID)

	require.NoError(t, err)
	assert.Equal(t, 4, resp.SoldTicket)
	assert.Equal(t, 20, resp.TotalTicket)
	require.Len(t, resp.Zones, 1)
	assert.Equal(t, "VIP", resp.Zones[0].ClassName)
	assert.Equal(t, 10000.0, resp.Zones[0].Revenue)
}

func TestSetBankAccount(t *testing.T) {
	f := newEventFixture(t)
	event := f.readyDraft(t)

	err := f.svc.SetBankAccount(context.Background(), "livehouse", event.EventID, BankAccountRequest{
		AccountName:   "Livehouse Productions Co.",
		AccountNumber: "123-456-789",
		BankName:      "Kasikorn",
	})

	require.NoError(t, err)
	assert.Equal(t, "Livehouse Productions Co.", f.repo.events[event.EventID].BankAccount.AccountName)
}
