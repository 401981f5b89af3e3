package tickets

import "time"

// TicketStatus is the lifecycle state of one issued ticket. It only
// moves forward: available is the sole non-terminal state.
type TicketStatus string

const (
	StatusAvailable   TicketStatus = "available"
	StatusScanned     TicketStatus = "scanned"
	StatusExpired     TicketStatus = "expired"
	StatusTransferred TicketStatus = "transferred"
)

// SortRank orders statuses for user ticket listings: usable tickets
// first, dead ones last.
func (s TicketStatus) SortRank() int {
	switch s {
	case StatusAvailable:
		return 0
	case StatusScanned:
		return 1
	case StatusExpired:
		return 2
	case StatusTransferred:
		return 3
	default:
		return 4
	}
}

// TransactionType classifies one entry of the append-only audit trail.
type TransactionType string

const (
	TxnCreated     TransactionType = "created"
	TxnScanned     TransactionType = "scanned"
	TxnExpired     TransactionType = "expired"
	TxnTransferred TransactionType = "transferred"
	TxnReceived    TransactionType = "received"
)

// Ticket is the record of one seat-claim. Event display fields are a
// denormalized snapshot taken at issue time, not a live reference.
type Ticket struct {
	TicketID        string       `json:"ticketID" gorm:"primaryKey;size:255"`
	EventID         string       `json:"eventID" gorm:"size:16;index"`
	UserID          string       `json:"userID" gorm:"size:64;index"`
	ClassName       string       `json:"className" gorm:"size:64"`
	SeatNo          string       `json:"seatNo" gorm:"size:16"`
	Status          TicketStatus `json:"status" gorm:"type:varchar(16);default:'available'"`
	ValidDatetime   time.Time    `json:"validDatetime"`
	ExpiredDatetime time.Time    `json:"expiredDatetime"`
	RunNo           int          `json:"runNo"`

	EventName  string `json:"eventName" gorm:"size:255"`
	EventImage string `json:"eventImage" gorm:"size:500"`
	Location   string `json:"location" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}

// TicketTransaction is one immutable row of the audit trail. Rows are
// only ever inserted.
type TicketTransaction struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	TicketID  string          `json:"ticketID" gorm:"size:255;index"`
	Timestamp time.Time       `json:"timestamp"`
	Type      TransactionType `json:"type" gorm:"type:varchar(16)"`
	SrcUserID string          `json:"srcUserID,omitempty" gorm:"size:64"`
	DstUserID string          `json:"dstUserID,omitempty" gorm:"size:64"`
}

// TableName specifies the table name for GORM
func (TicketTransaction) TableName() string {
	return "ticket_transactions"
}

// SeatSelectionRequest drives reserve, cancel, and purchase. SeatNo
// holds one empty string for unassigned-seating classes.
type SeatSelectionRequest struct {
	EventID   string   `json:"eventID" binding:"required"`
	UserID    string   `json:"userID" binding:"required"`
	ClassName string   `json:"className" binding:"required"`
	SeatNo    []string `json:"seatNo" binding:"required"`
}

// TransferReceipt is the confirmation view returned to the recipient.
type TransferReceipt struct {
	TicketID    string `json:"ticketID"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	EventName   string `json:"eventName"`
	Location    string `json:"location"`
	PosterImage string `json:"posterImage"`
	Date        string `json:"date"`
	Zone        string `json:"zone"`
	Row         string `json:"row"`
	Seat        string `json:"seat"`
	Gate        string `json:"gate"`
}
