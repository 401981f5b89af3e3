package seats

import "time"

// SeatStatus is the occupancy state of one physical seat.
// "available" means sold: the seat carries a live ticket.
type SeatStatus string

const (
	StatusVacant    SeatStatus = "vacant"
	StatusReserved  SeatStatus = "reserved"
	StatusAvailable SeatStatus = "available"
)

// Seat is one row of a ticket class's seat map, keyed by
// (event, class, seat number). Unassigned-seating classes have no rows.
type Seat struct {
	ID        uint       `json:"-" gorm:"primaryKey"`
	EventID   string     `json:"eventID" gorm:"size:16;uniqueIndex:idx_event_class_seat"`
	ClassName string     `json:"className" gorm:"size:64;uniqueIndex:idx_event_class_seat"`
	SeatNo    string     `json:"seatNo" gorm:"size:16;uniqueIndex:idx_event_class_seat"`
	Status    SeatStatus `json:"status" gorm:"type:varchar(16);default:'vacant'"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Seat) TableName() string {
	return "seats"
}
