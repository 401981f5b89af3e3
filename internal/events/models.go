package events

import (
	"time"
)

// Event is the root aggregate of the platform. Counter fields are only
// mutated through the ledger so they stay consistent with seat commits.
type Event struct {
	EventID         string    `json:"eventID" gorm:"primaryKey;size:16"`
	EventName       string    `json:"eventName" gorm:"size:255"`
	StartDateTime   time.Time `json:"startDateTime"`
	EndDateTime     time.Time `json:"endDateTime"`
	OnSaleDateTime  time.Time `json:"onSaleDateTime"`
	EndSaleDateTime time.Time `json:"endSaleDateTime"`
	Location        string    `json:"location" gorm:"size:255"`
	EventInfo       string    `json:"eventInfo" gorm:"type:text"`
	Featured        bool      `json:"featured" gorm:"default:false"`
	EventStatus     Status    `json:"eventStatus" gorm:"type:varchar(20);default:'Draft';index"`
	Tags            []string  `json:"tagName" gorm:"serializer:json"`
	PosterImage     string    `json:"posterImage" gorm:"size:500"`
	SeatImage       string    `json:"seatImage" gorm:"size:500"`
	OrganizerID     string    `json:"organizerID" gorm:"size:64;index"`
	OrganizerName   string    `json:"organizerName" gorm:"size:255"`
	Staff           []string  `json:"staff" gorm:"serializer:json"`

	BankAccount BankAccount `json:"bankAccount" gorm:"embedded;embeddedPrefix:bank_"`

	// Aggregates maintained by the inventory ledger
	TotalTicket      int     `json:"totalTicket" gorm:"default:0;check:total_ticket >= 0"`
	SoldTicket       int     `json:"soldTicket" gorm:"default:0;check:sold_ticket >= 0"`
	TotalTicketValue float64 `json:"totalTicketValue" gorm:"default:0"`
	TotalRevenue     float64 `json:"totalRevenue" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// BankAccount holds the organizer's payout details for one event.
type BankAccount struct {
	AccountName   string `json:"accountName" gorm:"size:255"`
	AccountNumber string `json:"accountNumber" gorm:"size:64"`
	BankName      string `json:"bankName" gorm:"size:128"`
}

// TicketClass is a priced seating zone within an event. Seat count and
// price are immutable after creation; drafts may delete and recreate.
type TicketClass struct {
	ID              uint      `json:"-" gorm:"primaryKey"`
	EventID         string    `json:"eventID" gorm:"size:16;uniqueIndex:idx_event_class"`
	ClassName       string    `json:"className" gorm:"size:64;uniqueIndex:idx_event_class"`
	PricePerSeat    float64   `json:"pricePerSeat" gorm:"check:price_per_seat >= 0"`
	AmountOfSeat    int       `json:"amountOfSeat" gorm:"check:amount_of_seat > 0"`
	RowNo           int       `json:"rowNo" gorm:"default:0"`
	ColumnNo        int       `json:"columnNo" gorm:"default:0"`
	ValidDatetime   time.Time `json:"validDatetime"`
	ExpiredDatetime time.Time `json:"expiredDatetime"`
	ZoneSeatImage   string    `json:"zoneSeatImage" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (TicketClass) TableName() string {
	return "ticket_classes"
}

// Unassigned reports whether the class sells general-admission seats
// with no per-seat grid.
func (tc *TicketClass) Unassigned() bool {
	return tc.RowNo == 0 && tc.ColumnNo == 0
}

// Request/response DTOs

type CreateTicketClassRequest struct {
	ClassName       string    `json:"className" binding:"required,min=1,max=64"`
	PricePerSeat    float64   `json:"pricePerSeat" binding:"min=0"`
	AmountOfSeat    int       `json:"amountOfSeat" binding:"required"`
	RowNo           int       `json:"rowNo" binding:"min=0"`
	ColumnNo        int       `json:"columnNo" binding:"min=0"`
	ValidDatetime   time.Time `json:"validDatetime" binding:"required"`
	ExpiredDatetime time.Time `json:"expiredDatetime" binding:"required"`
	ZoneSeatImage   string    `json:"zoneSeatImage"`
}

type EventSettingRequest struct {
	EventName       string    `json:"eventName"`
	StartDateTime   time.Time `json:"startDateTime"`
	EndDateTime     time.Time `json:"endDateTime"`
	OnSaleDateTime  time.Time `json:"onSaleDateTime"`
	EndSaleDateTime time.Time `json:"endSaleDateTime"`
	Location        string    `json:"location"`
	EventInfo       string    `json:"eventInfo"`
	Tags            []string  `json:"tagName"`
	PosterImage     string    `json:"posterImage"`
	SeatImage       string    `json:"seatImage"`
}

type BankAccountRequest struct {
	AccountName   string `json:"accountName" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	BankName      string `json:"bankName" binding:"required"`
}

type StaffRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ZoneSoldSummary is one row of the organizer revenue report.
type ZoneSoldSummary struct {
	ClassName    string  `json:"className"`
	PricePerSeat float64 `json:"pricePerSeat"`
	TicketSold   int     `json:"ticketSold"`
	Quota        int     `json:"quota"`
	Revenue      float64 `json:"revenue"`
}

// EventRevenueResponse aggregates zone summaries for one event.
type EventRevenueResponse struct {
	EventID      string            `json:"eventID"`
	EventName    string            `json:"eventName"`
	SoldTicket   int               `json:"soldTicket"`
	TotalTicket  int               `json:"totalTicket"`
	TotalRevenue float64           `json:"totalRevenue"`
	Zones        []ZoneSoldSummary `json:"zones"`
}
