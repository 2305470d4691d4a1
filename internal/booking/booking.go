// Package booking lists open appointment slots and confirms them for users.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/store"
)

var (
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrStoreFailure    = errors.New("slot store failure")
	ErrUnknownDoctor   = errors.New("doctor does not exist")
	ErrPastDatetime    = errors.New("datetime must be in the future")
)

// Store is the slice of the persistence layer the booking flow needs.
// ConfirmSlot must apply the pending guard and the write atomically.
type Store interface {
	ListSlotsByStatus(ctx context.Context, status string) ([]model.Slot, error)
	ConfirmSlot(ctx context.Context, id, userID int64) (*model.Slot, error)
	CreateSlot(ctx context.Context, doctorID int64, at time.Time) (*model.Slot, error)
}

type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func New(st Store, log *zap.Logger) *Service {
	return &Service{store: st, log: log, now: time.Now}
}

// ListPending returns every slot still open for booking. No slots is an
// empty slice, not an error.
func (s *Service) ListPending(ctx context.Context) ([]model.Slot, error) {
	slots, err := s.store.ListSlotsByStatus(ctx, model.SlotPending)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	if slots == nil {
		slots = []model.Slot{}
	}
	return slots, nil
}

// Book confirms slot id for userID. Unknown ids and slots that are no longer
// pending both yield ErrSlotUnavailable.
func (s *Service) Book(ctx context.Context, id, userID int64) (*model.Slot, error) {
	if id <= 0 {
		return nil, ErrSlotUnavailable
	}

	slot, err := s.store.ConfirmSlot(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Info("slot unavailable",
			zap.Int64("slot_id", id),
			zap.Int64("user_id", userID),
		)
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	s.log.Info("slot booked",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("doctor_id", slot.DoctorID),
		zap.Int64("user_id", userID),
	)
	return slot, nil
}

// Create opens a new pending slot for a doctor.
func (s *Service) Create(ctx context.Context, doctorID int64, at time.Time) (*model.Slot, error) {
	if !at.After(s.now()) {
		return nil, ErrPastDatetime
	}

	slot, err := s.store.CreateSlot(ctx, doctorID, at)
	if errors.Is(err, store.ErrUnknownDoctor) {
		return nil, ErrUnknownDoctor
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return slot, nil
}
