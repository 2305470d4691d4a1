package store

import (
	"context"
	"time"

	"doctor-booking-api/internal/model"
)

const slotColumns = `id, doctor_id, datetime, status, user_id, created_at, updated_at`

func scanSlot(row interface{ Scan(...any) error }) (model.Slot, error) {
	var d model.Slot
	err := row.Scan(&d.ID, &d.DoctorID, &d.Datetime, &d.Status, &d.UserID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Store) CreateSlot(ctx context.Context, doctorID int64, at time.Time) (*model.Slot, error) {
	d, err := scanSlot(s.pool.QueryRow(ctx,
		`INSERT INTO dates (doctor_id, datetime, status) VALUES ($1,$2,'pending')
		 RETURNING `+slotColumns, doctorID, at))
	if err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (s *Store) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	d, err := scanSlot(s.pool.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM dates WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (s *Store) ListSlotsByStatus(ctx context.Context, status string) ([]model.Slot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+slotColumns+` FROM dates WHERE status = $1 ORDER BY datetime, id`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Slot{}
	for rows.Next() {
		d, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ConfirmSlot moves a pending slot to confirmed for userID in a single
// conditional UPDATE; the status guard and the write share one row lock, so
// concurrent callers cannot both win. ErrNotFound means the slot is unknown
// or no longer pending.
func (s *Store) ConfirmSlot(ctx context.Context, id, userID int64) (*model.Slot, error) {
	d, err := scanSlot(s.pool.QueryRow(ctx,
		`UPDATE dates SET status = 'confirmed', user_id = $2, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+slotColumns, id, userID))
	if err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}
