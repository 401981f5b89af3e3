package events

import (
	"context"
	"sort"
	"strings"

	"github.com/beambyp/EventBud/internal/ledger"
	"github.com/beambyp/EventBud/internal/seats"
	"github.com/beambyp/EventBud/internal/shared/apperrors"
	"github.com/beambyp/EventBud/internal/shared/constants"
	"github.com/beambyp/EventBud/pkg/cache"
	"github.com/beambyp/EventBud/pkg/clock"
	"github.com/beambyp/EventBud/pkg/logger"
)

// StaffMember is the directory view of a platform user.
type StaffMember struct {
	UserID    string `json:"userID"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Directory resolves users and organizers for staff management
// (to avoid circular dependency with the users package).
type Directory interface {
	GetOrganizerName(ctx context.Context, organizerID string) (string, error)
	FindUserByEmail(ctx context.Context, email string) (*StaffMember, error)
	DescribeUsers(ctx context.Context, userIDs []string) ([]StaffMember, error)
	AttachEventToUser(ctx context.Context, userID, eventID string) error
	DetachEventFromUser(ctx context.Context, userID, eventID string) error
}

// Service interface defines the contract for event business logic
type Service interface {
	// Public browsing
	ListOnGoing(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)

	// Organizer console
	CreateDraft(ctx context.Context, organizerID string) (*Event, error)
	DeleteEvent(ctx context.Context, organizerID, eventID string) error
	Publish(ctx context.Context, organizerID, eventID string) error
	UpdateSettings(ctx context.Context, organizerID, eventID string, req EventSettingRequest) error
	CreateClass(ctx context.Context, organizerID, eventID string, req CreateTicketClassRequest) error
	DeleteClass(ctx context.Context, organizerID, eventID, className string) error
	ListOrganizerEvents(ctx context.Context, organizerID string) ([]Event, error)
	RevenueSummary(ctx context.Context, eventID string) (*EventRevenueResponse, error)
	ListStaff(ctx context.Context, organizerID, eventID string) ([]StaffMember, error)
	AddStaff(ctx context.Context, organizerID, eventID, email string) error
	RemoveStaff(ctx context.Context, organizerID, eventID, email string) error
	SetBankAccount(ctx context.Context, organizerID, eventID string, req BankAccountRequest) error
}

type service struct {
	repo      Repository
	ledger    ledger.Repository
	seats     seats.Repository
	directory Directory
	cache     cache.Service // optional
	clock     clock.Clock
	log       *logger.Logger
}

func NewService(repo Repository, ledgerRepo ledger.Repository, seatRepo seats.Repository, directory Directory, cacheSvc cache.Service, clk clock.Clock, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		ledger:    ledgerRepo,
		seats:     seatRepo,
		directory: directory,
		cache:     cacheSvc,
		clock:     clk,
		log:       log,
	}
}

func (s *service) ListOnGoing(ctx context.Context) ([]Event, error) {
	if s.cache != nil {
		var cached []Event
		if err := s.cache.Get(ctx, constants.CACHE_KEY_EVENTS_LIST, &cached); err == nil {
			return s.pruneFinished(ctx, cached)
		}
	}

	rows, err := s.repo.ListByStatus(ctx, StatusOnGoing)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]Event, 0, len(rows))
	for i := range rows {
		ev := rows[i]
		if ev.EndDateTime.Before(now) {
			if _, err := s.repo.ExpireIfDue(ctx, ev.EventID, now); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, ev)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDateTime.Before(out[j].StartDateTime)
	})

	if s.cache != nil {
		_ = s.cache.Set(ctx, constants.CACHE_KEY_EVENTS_LIST, out, constants.TTL_EVENT_LIST)
	}
	return out, nil
}

// pruneFinished re-applies lazy expiry to a cached listing. A cached
// event whose end time has passed is flipped in storage and dropped, and
// the stale list entry is evicted so the next read rebuilds it.
func (s *service) pruneFinished(ctx context.Context, cached []Event) ([]Event, error) {
	now := s.clock.Now()
	out := make([]Event, 0, len(cached))
	pruned := false
	for i := range cached {
		ev := cached[i]
		if ev.EndDateTime.Before(now) {
			if _, err := s.repo.ExpireIfDue(ctx, ev.EventID, now); err != nil {
				return nil, err
			}
			pruned = true
			continue
		}
		out = append(out, ev)
	}
	if pruned && s.cache != nil {
		_ = s.cache.Delete(ctx, constants.CACHE_KEY_EVENTS_LIST)
	}
	return out, nil
}

func (s *service) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	if s.cache != nil {
		var cached Event
		if err := s.cache.Get(ctx, constants.BuildEventDetailKey(eventID), &cached); err == nil {
			now := s.clock.Now()
			if cached.EventStatus == StatusOnGoing && cached.EndDateTime.Before(now) {
				if _, err := s.repo.ExpireIfDue(ctx, eventID, now); err != nil {
					return nil, err
				}
				cached.EventStatus = StatusExpired
				_ = s.cache.Delete(ctx, constants.BuildEventDetailKey(eventID))
			}
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if event.EventStatus == StatusOnGoing && event.EndDateTime.Before(now) {
		if _, err := s.repo.ExpireIfDue(ctx, eventID, now); err != nil {
			return nil, err
		}
		event.EventStatus = StatusExpired
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, constants.BuildEventDetailKey(eventID), event, constants.TTL_EVENT_DETAIL)
	}
	return event, nil
}

func (s *service) CreateDraft(ctx context.Context, organizerID string) (*Event, error) {
	organizerName, err := s.directory.GetOrganizerName(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	eventID, err := s.repo.NextEventID(ctx)
	if err != nil {
		return nil, err
	}

	event := &Event{
		EventID:       eventID,
		EventStatus:   StatusDraft,
		OrganizerID:   organizerID,
		OrganizerName: organizerName,
		Tags:          []string{},
		Staff:         []string{},
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.LogEventCreated(ctx, eventID, organizerID)
	return event, nil
}

func (s *service) DeleteEvent(ctx context.Context, organizerID, eventID string) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}
	if !event.EventStatus.CanEdit() {
		return apperrors.New(apperrors.KindInvalidState, "only draft events can be deleted")
	}

	classes, err := s.repo.ListClasses(ctx, eventID)
	if err != nil {
		return err
	}
	for _, c := range classes {
		if err := s.seats.DeleteByClass(ctx, eventID, c.ClassName); err != nil {
			return err
		}
		if err := s.ledger.RecordClassRemoval(ctx, eventID, c.ClassName); err != nil {
			return err
		}
		if err := s.repo.DeleteClass(ctx, eventID, c.ClassName); err != nil {
			return err
		}
	}

	// Detach the event from any staff schedules before removal
	for _, userID := range event.Staff {
		if err := s.directory.DetachEventFromUser(ctx, userID, eventID); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}
	s.invalidateEventCache(ctx, eventID)
	return nil
}

func (s *service) Publish(ctx context.Context, organizerID, eventID string) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}
	if event.EventStatus != StatusDraft {
		return apperrors.New(apperrors.KindInvalidState, "only draft events can be published")
	}

	var missing []string
	if strings.TrimSpace(event.EventName) == "" {
		missing = append(missing, "eventName")
	}
	if strings.TrimSpace(event.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(event.EventInfo) == "" {
		missing = append(missing, "eventInfo")
	}
	if strings.TrimSpace(event.PosterImage) == "" {
		missing = append(missing, "posterImage")
	}
	if len(event.Tags) == 0 {
		missing = append(missing, "tagName")
	}
	classes, err := s.repo.ListClasses(ctx, eventID)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		missing = append(missing, "ticketClass")
	}
	if len(missing) > 0 {
		return apperrors.Newf(apperrors.KindValidation,
			"not ready to publish: missing %s", strings.Join(missing, ", "))
	}
	if !event.StartDateTime.After(s.clock.Now()) {
		return apperrors.New(apperrors.KindValidation, "event start date is in the past")
	}

	if err := s.repo.Update(ctx, eventID, map[string]interface{}{
		"event_status": StatusOnGoing,
	}); err != nil {
		return err
	}

	s.invalidateEventCache(ctx, eventID)
	s.log.InfoWithContext(ctx, "Event Published", map[string]interface{}{
		"event_id":     eventID,
		"organizer_id": organizerID,
	})
	return nil
}

func (s *service) UpdateSettings(ctx context.Context, organizerID, eventID string, req EventSettingRequest) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}
	if !event.EventStatus.CanEdit() {
		return apperrors.New(apperrors.KindInvalidState, "settings can only be edited while the event is a draft")
	}

	if strings.TrimSpace(req.EventName) == "" {
		return apperrors.New(apperrors.KindValidation, "eventName is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		return apperrors.New(apperrors.KindValidation, "location is required")
	}
	if strings.TrimSpace(req.EventInfo) == "" {
		return apperrors.New(apperrors.KindValidation, "eventInfo is required")
	}
	if req.StartDateTime.After(req.EndDateTime) {
		return apperrors.New(apperrors.KindValidation, "startDateTime must not be after endDateTime")
	}
	if req.OnSaleDateTime.After(req.EndSaleDateTime) {
		return apperrors.New(apperrors.KindValidation, "onSaleDateTime must not be after endSaleDateTime")
	}
	if req.EndDateTime.Before(req.EndSaleDateTime) {
		return apperrors.New(apperrors.KindValidation, "endDateTime must not be before endSaleDateTime")
	}

	updates := map[string]interface{}{
		"event_name":         req.EventName,
		"start_date_time":    req.StartDateTime,
		"end_date_time":      req.EndDateTime,
		"on_sale_date_time":  req.OnSaleDateTime,
		"end_sale_date_time": req.EndSaleDateTime,
		"location":           req.Location,
		"event_info":         req.EventInfo,
		"tags":               req.Tags,
		"poster_image":       req.PosterImage,
		"seat_image":         req.SeatImage,
	}
	if err := s.repo.Update(ctx, eventID, updates); err != nil {
		return err
	}
	s.invalidateEventCache(ctx, eventID)
	return nil
}

func (s *service) CreateClass(ctx context.Context, organizerID, eventID string, req CreateTicketClassRequest) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}
	if !event.EventStatus.CanEdit() {
		return apperrors.New(apperrors.KindInvalidState, "ticket classes can only be created while the event is a draft")
	}

	if req.AmountOfSeat <= 0 {
		return apperrors.New(apperrors.KindValidation, "amountOfSeat must be positive")
	}
	if req.PricePerSeat < 0 {
		return apperrors.New(apperrors.KindValidation, "pricePerSeat must not be negative")
	}
	if req.RowNo < 0 || req.ColumnNo < 0 {
		return apperrors.New(apperrors.KindValidation, "rowNo and columnNo must not be negative")
	}
	assigned := req.RowNo != 0 || req.ColumnNo != 0
	if assigned && req.RowNo*req.ColumnNo != req.AmountOfSeat {
		return apperrors.New(apperrors.KindValidation, "rowNo * columnNo must equal amountOfSeat")
	}
	if req.ValidDatetime.After(req.ExpiredDatetime) {
		return apperrors.New(apperrors.KindValidation, "validDatetime must not be after expiredDatetime")
	}
	if _, err := s.repo.GetClass(ctx, eventID, req.ClassName); err == nil {
		return apperrors.Newf(apperrors.KindConflict, "ticket class %s already exists", req.ClassName)
	} else if !apperrors.IsNotFound(err) {
		return err
	}

	class := &TicketClass{
		EventID:         eventID,
		ClassName:       req.ClassName,
		PricePerSeat:    req.PricePerSeat,
		AmountOfSeat:    req.AmountOfSeat,
		RowNo:           req.RowNo,
		ColumnNo:        req.ColumnNo,
		ValidDatetime:   req.ValidDatetime,
		ExpiredDatetime: req.ExpiredDatetime,
		ZoneSeatImage:   req.ZoneSeatImage,
	}
	if err := s.repo.CreateClass(ctx, class); err != nil {
		return err
	}
	if err := s.seats.CreateGrid(ctx, eventID, req.ClassName, req.RowNo, req.ColumnNo); err != nil {
		return err
	}
	if err := s.ledger.RecordClassAdded(ctx, &ledger.ZoneRevenue{
		EventID:      eventID,
		ClassName:    req.ClassName,
		PricePerSeat: req.PricePerSeat,
		Quota:        req.AmountOfSeat,
	}); err != nil {
		return err
	}

	s.invalidateEventCache(ctx, eventID)
	return nil
}

func (s *service) DeleteClass(ctx context.Context, organizerID, eventID, className string) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}
	if !event.EventStatus.CanEdit() {
		return apperrors.New(apperrors.KindInvalidState, "ticket classes can only be deleted while the event is a draft")
	}

	if _, err := s.repo.GetClass(ctx, eventID, className); err != nil {
		return err
	}
	if err := s.seats.DeleteByClass(ctx, eventID, className); err != nil {
		return err
	}
	if err := s.ledger.RecordClassRemoval(ctx, eventID, className); err != nil {
		return err
	}
	if err := s.repo.DeleteClass(ctx, eventID, className); err != nil {
		return err
	}

	s.invalidateEventCache(ctx, eventID)
	return nil
}

func (s *service) ListOrganizerEvents(ctx context.Context, organizerID string) ([]Event, error) {
	rows, err := s.repo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range rows {
		ev := &rows[i]
		if ev.EventStatus == StatusOnGoing && ev.EndDateTime.Before(now) {
			if _, err := s.repo.ExpireIfDue(ctx, ev.EventID, now); err != nil {
				return nil, err
			}
			ev.EventStatus = StatusExpired
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		ri, rj := rows[i].EventStatus.SortRank(), rows[j].EventStatus.SortRank()
		if ri != rj {
			return ri < rj
		}
		return rows[i].StartDateTime.Before(rows[j].StartDateTime)
	})
	return rows, nil
}

func (s *service) RevenueSummary(ctx context.Context, eventID string) (*EventRevenueResponse, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	zones, err := s.ledger.ListZonesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := &EventRevenueResponse{
		EventID:      event.EventID,
		EventName:    event.EventName,
		SoldTicket:   event.SoldTicket,
		TotalTicket:  event.TotalTicket,
		TotalRevenue: event.TotalRevenue,
		Zones:        make([]ZoneSoldSummary, 0, len(zones)),
	}
	for _, z := range zones {
		resp.Zones = append(resp.Zones, ZoneSoldSummary{
			ClassName:    z.ClassName,
			PricePerSeat: z.PricePerSeat,
			TicketSold:   z.TicketSold,
			Quota:        z.Quota,
			Revenue:      z.Revenue(),
		})
	}
	return resp, nil
}

func (s *service) ListStaff(ctx context.Context, organizerID, eventID string) ([]StaffMember, error) {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	return s.directory.DescribeUsers(ctx, event.Staff)
}

func (s *service) AddStaff(ctx context.Context, organizerID, eventID, email string) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}
	if !event.EventStatus.CanEdit() {
		return apperrors.New(apperrors.KindInvalidState, "staff can only be changed while the event is a draft")
	}

	member, err := s.directory.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.repo.AddStaff(ctx, eventID, member.UserID); err != nil {
		return err
	}
	return s.directory.AttachEventToUser(ctx, member.UserID, eventID)
}

func (s *service) RemoveStaff(ctx context.Context, organizerID, eventID, email string) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}
	if !event.EventStatus.CanEdit() {
		return apperrors.New(apperrors.KindInvalidState, "staff can only be changed while the event is a draft")
	}

	member, err := s.directory.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveStaff(ctx, eventID, member.UserID); err != nil {
		return err
	}
	return s.directory.DetachEventFromUser(ctx, member.UserID, eventID)
}

func (s *service) SetBankAccount(ctx context.Context, organizerID, eventID string, req BankAccountRequest) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}
	if !event.EventStatus.CanEdit() {
		return apperrors.New(apperrors.KindInvalidState, "bank details can only be changed while the event is a draft")
	}

	return s.repo.Update(ctx, eventID, map[string]interface{}{
		"bank_account_name":   req.AccountName,
		"bank_account_number": req.AccountNumber,
		"bank_bank_name":      req.BankName,
	})
}

// ownedEvent loads an event and checks the caller owns it.
func (s *service) ownedEvent(ctx context.Context, organizerID, eventID string) (*Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.New(apperrors.KindForbidden, "event does not belong to this organizer")
	}
	return event, nil
}

func (s *service) invalidateEventCache(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, constants.BuildEventInvalidationPattern(eventID)); err != nil {
		s.log.ErrorWithContext(ctx, "Cache invalidation failed", err, map[string]interface{}{
			"event_id": eventID,
		})
	}
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_EVENTS_LIST)
}
