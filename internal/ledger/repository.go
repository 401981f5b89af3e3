package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beambyp/EventBud/internal/shared/apperrors"
)

// SaleResult reports the outcome of a recorded sale. NewEventSold is the
// event-wide sold count after the increment; ticket run numbers are
// derived from it.
type SaleResult struct {
	NewEventSold int
	UnitPrice    float64
}

type Repository interface {
	// Sales path
	RecordSale(ctx context.Context, eventID, className string, seatCount int) (*SaleResult, error)
	ReverseSale(ctx context.Context, eventID, className string, seatCount int) error

	// Class lifecycle (caller enforces Draft-only)
	RecordClassAdded(ctx context.Context, zone *ZoneRevenue) error
	RecordClassRemoval(ctx context.Context, eventID, className string) error

	GetZone(ctx context.Context, eventID, className string) (*ZoneRevenue, error)
	ListZonesByEvent(ctx context.Context, eventID string) ([]ZoneRevenue, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// RecordSale increments the zone's sold counter, guarded by the quota in
// the same statement, then bumps the event aggregates. Two concurrent
// issuances can never both push ticket_sold past quota: the losing
// update matches zero rows.
func (r *repository) RecordSale(ctx context.Context, eventID, className string, seatCount int) (*SaleResult, error) {
	if seatCount <= 0 {
		return nil, apperrors.New(apperrors.KindValidation, "seat count must be positive")
	}

	var res SaleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ZoneRevenue{}).
			Where("event_id = ? AND class_name = ? AND ticket_sold + ? <= quota",
				eventID, className, seatCount).
			Update("ticket_sold", gorm.Expr("ticket_sold + ?", seatCount))
		if result.Error != nil {
			return apperrors.Wrap(result.Error, apperrors.KindUnavailable, "failed to record sale")
		}
		if result.RowsAffected == 0 {
			// Either the zone is missing or the quota guard rejected us
			var zone ZoneRevenue
			err := tx.Where("event_id = ? AND class_name = ?", eventID, className).First(&zone).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Newf(apperrors.KindNotFound, "ticket class %s not found", className)
			}
			if err != nil {
				return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to check zone")
			}
			return apperrors.Newf(apperrors.KindConflict, "quota exceeded for class %s", className)
		}

		var zone ZoneRevenue
		if err := tx.Where("event_id = ? AND class_name = ?", eventID, className).First(&zone).Error; err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to reload zone")
		}
		res.UnitPrice = zone.PricePerSeat
		revenue := float64(seatCount) * zone.PricePerSeat

		// Bump the event aggregates under a row lock so the returned
		// sold count is a stable run-number base
		var row eventCounters
		if err := lockEventCounters(tx, eventID, &row).Error; err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to lock event")
		}

		res.NewEventSold = row.SoldTicket + seatCount
		err := tx.Table("events").
			Where("event_id = ?", eventID).
			Updates(map[string]interface{}{
				"sold_ticket":   gorm.Expr("sold_ticket + ?", seatCount),
				"total_revenue": gorm.Expr("total_revenue + ?", revenue),
			}).Error
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to update event counters")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type eventCounters struct {
	SoldTicket int
}

// lockEventCounters reads the event's sold counter under FOR UPDATE so
// concurrent sales serialize on the events row.
func lockEventCounters(tx *gorm.DB, eventID string, row *eventCounters) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Table("events").
		Select("sold_ticket").
		Where("event_id = ?", eventID).
		Scan(row)
}

// ReverseSale compensates a sale whose seat commit failed afterwards.
func (r *repository) ReverseSale(ctx context.Context, eventID, className string, seatCount int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var zone ZoneRevenue
		if err := tx.Where("event_id = ? AND class_name = ?", eventID, className).First(&zone).Error; err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load zone")
		}

		result := tx.Model(&ZoneRevenue{}).
			Where("event_id = ? AND class_name = ? AND ticket_sold >= ?", eventID, className, seatCount).
			Update("ticket_sold", gorm.Expr("ticket_sold - ?", seatCount))
		if result.Error != nil {
			return apperrors.Wrap(result.Error, apperrors.KindUnavailable, "failed to reverse sale")
		}
		if result.RowsAffected == 0 {
			return apperrors.New(apperrors.KindConflict, "cannot reverse more tickets than sold")
		}

		revenue := float64(seatCount) * zone.PricePerSeat
		err := tx.Table("events").
			Where("event_id = ?", eventID).
			Updates(map[string]interface{}{
				"sold_ticket":   gorm.Expr("sold_ticket - ?", seatCount),
				"total_revenue": gorm.Expr("total_revenue - ?", revenue),
			}).Error
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to update event counters")
		}
		return nil
	})
}

// RecordClassAdded creates the zone counter and grows the event's
// sellable totals.
func (r *repository) RecordClassAdded(ctx context.Context, zone *ZoneRevenue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(zone).Error; err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to create zone")
		}

		value := float64(zone.Quota) * zone.PricePerSeat
		err := tx.Table("events").
			Where("event_id = ?", zone.EventID).
			Updates(map[string]interface{}{
				"total_ticket":       gorm.Expr("total_ticket + ?", zone.Quota),
				"total_ticket_value": gorm.Expr("total_ticket_value + ?", value),
			}).Error
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to update event totals")
		}
		return nil
	})
}

// RecordClassRemoval deletes the zone counter and shrinks the event's
// sellable totals by the removed quota and its value.
func (r *repository) RecordClassRemoval(ctx context.Context, eventID, className string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var zone ZoneRevenue
		err := tx.Where("event_id = ? AND class_name = ?", eventID, className).First(&zone).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Newf(apperrors.KindNotFound, "ticket class %s not found", className)
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load zone")
		}

		if err := tx.Delete(&zone).Error; err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to delete zone")
		}

		value := float64(zone.Quota) * zone.PricePerSeat
		err = tx.Table("events").
			Where("event_id = ?", eventID).
			Updates(map[string]interface{}{
				"total_ticket":       gorm.Expr("total_ticket - ?", zone.Quota),
				"total_ticket_value": gorm.Expr("total_ticket_value - ?", value),
			}).Error
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to update event totals")
		}
		return nil
	})
}

func (r *repository) GetZone(ctx context.Context, eventID, className string) (*ZoneRevenue, error) {
	var zone ZoneRevenue
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND class_name = ?", eventID, className).
		First(&zone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "ticket class %s not found", className)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to load zone")
	}
	return &zone, nil
}

func (r *repository) ListZonesByEvent(ctx context.Context, eventID string) ([]ZoneRevenue, error) {
	var zones []ZoneRevenue
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("class_name").
		Find(&zones).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list zones")
	}
	return zones, nil
}
