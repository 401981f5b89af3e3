package seats

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beambyp/EventBud/internal/shared/apperrors"
)

type Repository interface {
	// Grid lifecycle, only ever driven from draft events
	CreateGrid(ctx context.Context, eventID, className string, rowNo, columnNo int) error
	DeleteByClass(ctx context.Context, eventID, className string) error

	// Batch occupancy transitions, each atomic as a set
	ReserveSeats(ctx context.Context, eventID, className string, seatNos []string) error
	ReleaseSeats(ctx context.Context, eventID, className string, seatNos []string) error
	CommitSeats(ctx context.Context, eventID, className string, seatNos []string) error

	// VerifyReserved is a read-only check that every named seat is
	// currently reserved
	VerifyReserved(ctx context.Context, eventID, className string, seatNos []string) error

	ListByClass(ctx context.Context, eventID, className string) ([]Seat, error)
	CountByStatus(ctx context.Context, eventID, className string, status SeatStatus) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGrid(ctx context.Context, eventID, className string, rowNo, columnNo int) error {
	if rowNo <= 0 || columnNo <= 0 {
		// Unassigned seating keeps no seat rows
		return nil
	}

	seats := make([]Seat, 0, rowNo*columnNo)
	for i := 1; i <= rowNo; i++ {
		for j := 1; j <= columnNo; j++ {
			seats = append(seats, Seat{
				EventID:   eventID,
				ClassName: className,
				SeatNo:    fmt.Sprintf("%d-%d", i, j),
				Status:    StatusVacant,
			})
		}
	}

	if err := r.db.WithContext(ctx).CreateInBatches(seats, 500).Error; err != nil {
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to create seat grid")
	}
	return nil
}

func (r *repository) DeleteByClass(ctx context.Context, eventID, className string) error {
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND class_name = ?", eventID, className).
		Delete(&Seat{}).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to delete seat grid")
	}
	return nil
}

func (r *repository) ReserveSeats(ctx context.Context, eventID, className string, seatNos []string) error {
	return r.transition(ctx, eventID, className, seatNos, StatusVacant, StatusReserved)
}

func (r *repository) ReleaseSeats(ctx context.Context, eventID, className string, seatNos []string) error {
	return r.transition(ctx, eventID, className, seatNos, StatusReserved, StatusVacant)
}

func (r *repository) CommitSeats(ctx context.Context, eventID, className string, seatNos []string) error {
	return r.transition(ctx, eventID, className, seatNos, StatusReserved, StatusAvailable)
}

// VerifyReserved validates a purchase before any counter moves. It takes
// no locks; the commit itself re-checks seat state under lock, so a seat
// lost between check and commit surfaces as a conflict there.
func (r *repository) VerifyReserved(ctx context.Context, eventID, className string, seatNos []string) error {
	if len(seatNos) == 0 {
		return nil
	}

	var rows []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND class_name = ? AND seat_no IN ?", eventID, className, seatNos).
		Find(&rows).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to check seats")
	}

	byNo := make(map[string]SeatStatus, len(rows))
	for _, s := range rows {
		byNo[s.SeatNo] = s.Status
	}
	for _, no := range seatNos {
		status, found := byNo[no]
		if !found {
			return apperrors.Newf(apperrors.KindNotFound, "seat %s not found in class %s", no, className)
		}
		if status != StatusReserved {
			return apperrors.Newf(apperrors.KindConflict, "seat %s is not reserved", no)
		}
	}
	return nil
}

// transition moves every named seat from one status to another inside a
// single transaction. The seat rows are locked first, then validated, so
// two concurrent purchasers can never both win the same seat. Any
// violation rolls the whole batch back.
func (r *repository) transition(ctx context.Context, eventID, className string, seatNos []string, from, to SeatStatus) error {
	if len(seatNos) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []Seat

		// Lock the seat rows for update; the conditional UPDATE below
		// still re-checks status, so a stale read only costs a retry
		if err := lockSeatRows(tx, eventID, className, seatNos, &rows).Error; err != nil {
			return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to lock seats")
		}

		byNo := make(map[string]SeatStatus, len(rows))
		for _, s := range rows {
			byNo[s.SeatNo] = s.Status
		}

		// Validate the whole batch before any write
		for _, no := range seatNos {
			status, found := byNo[no]
			if !found {
				return apperrors.Newf(apperrors.KindNotFound, "seat %s not found in class %s", no, className)
			}
			if status != from {
				if from == StatusVacant {
					return apperrors.Newf(apperrors.KindConflict, "seat %s is not available", no)
				}
				return apperrors.Newf(apperrors.KindConflict, "seat %s is not reserved", no)
			}
		}

		result := tx.Model(&Seat{}).
			Where("event_id = ? AND class_name = ? AND seat_no IN ? AND status = ?",
				eventID, className, seatNos, from).
			Update("status", to)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, apperrors.KindUnavailable, "failed to update seats")
		}
		if result.RowsAffected != int64(len(seatNos)) {
			return apperrors.New(apperrors.KindConflict, "seat state changed during update")
		}

		return nil
	})
}

// lockSeatRows loads the named seats under FOR UPDATE.
func lockSeatRows(tx *gorm.DB, eventID, className string, seatNos []string, rows *[]Seat) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ? AND class_name = ? AND seat_no IN ?", eventID, className, seatNos).
		Find(rows)
}

func (r *repository) ListByClass(ctx context.Context, eventID, className string) ([]Seat, error) {
	var rows []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND class_name = ?", eventID, className).
		Order("seat_no").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list seats")
	}
	return rows, nil
}

func (r *repository) CountByStatus(ctx context.Context, eventID, className string, status SeatStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Seat{}).
		Where("event_id = ? AND class_name = ? AND status = ?", eventID, className, status).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to count seats")
	}
	return count, nil
}
