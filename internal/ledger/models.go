package ledger

import "time"

// ZoneRevenue is the per-class sales counter. TicketSold never exceeds
// Quota; the repository enforces this with a conditional update rather
// than a read-check-write sequence.
type ZoneRevenue struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	EventID      string    `json:"eventID" gorm:"size:16;uniqueIndex:idx_ledger_event_class"`
	ClassName    string    `json:"className" gorm:"size:64;uniqueIndex:idx_ledger_event_class"`
	PricePerSeat float64   `json:"pricePerSeat" gorm:"check:price_per_seat >= 0"`
	TicketSold   int       `json:"ticketSold" gorm:"default:0;check:ticket_sold >= 0"`
	Quota        int       `json:"quota" gorm:"check:quota > 0"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ZoneRevenue) TableName() string {
	return "zone_revenues"
}

// Revenue is the money taken for this zone so far.
func (z *ZoneRevenue) Revenue() float64 {
	return float64(z.TicketSold) * z.PricePerSeat
}

// Remaining is the unsold part of the quota.
func (z *ZoneRevenue) Remaining() int {
	return z.Quota - z.TicketSold
}
