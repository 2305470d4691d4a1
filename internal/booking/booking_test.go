package booking_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doctor-booking-api/internal/booking"
	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/store"
)

// memStore keeps slots in a map; the mutex stands in for the row lock.
type memStore struct {
	mu      sync.Mutex
	slots   map[int64]*model.Slot
	doctors map[int64]bool
	nextID  int64
	listErr error
}

func newMemStore() *memStore {
	return &memStore{slots: map[int64]*model.Slot{}, doctors: map[int64]bool{1: true}}
}

func (m *memStore) ListSlotsByStatus(_ context.Context, status string) ([]model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Slot
	for _, s := range m.slots {
		if s.Status == status {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ConfirmSlot(_ context.Context, id, userID int64) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok || s.Status != model.SlotPending {
		return nil, store.ErrNotFound
	}
	s.Status = model.SlotConfirmed
	s.UserID = &userID
	cp := *s
	return &cp, nil
}

func (m *memStore) CreateSlot(_ context.Context, doctorID int64, at time.Time) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.doctors[doctorID] {
		return nil, store.ErrUnknownDoctor
	}
	m.nextID++
	s := &model.Slot{ID: m.nextID, DoctorID: doctorID, Datetime: at, Status: model.SlotPending}
	m.slots[s.ID] = s
	cp := *s
	return &cp, nil
}

func seed(t *testing.T, svc *booking.Service, n int) []int64 {
	t.Helper()
	ids := make([]int64, n)
	for i := range ids {
		s, err := svc.Create(context.Background(), 1, time.Now().Add(time.Duration(i+1)*time.Hour))
		require.NoError(t, err)
		ids[i] = s.ID
	}
	return ids
}

func ids(slots []model.Slot) []int64 {
	out := make([]int64, len(slots))
	for i, s := range slots {
		out[i] = s.ID
	}
	return out
}

func TestListPendingEmpty(t *testing.T) {
	svc := booking.New(newMemStore(), zap.NewNop())

	slots, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestListPendingStoreFailure(t *testing.T) {
	st := newMemStore()
	st.listErr = errors.New("connection reset")
	svc := booking.New(st, zap.NewNop())

	_, err := svc.ListPending(context.Background())
	assert.ErrorIs(t, err, booking.ErrStoreFailure)
	assert.NotErrorIs(t, err, booking.ErrSlotUnavailable)
}

func TestListPendingIdempotent(t *testing.T) {
	svc := booking.New(newMemStore(), zap.NewNop())
	seed(t, svc, 3)

	first, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	second, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(first), ids(second))
	assert.Len(t, first, 3)
}

func TestBook(t *testing.T) {
	svc := booking.New(newMemStore(), zap.NewNop())
	slotIDs := seed(t, svc, 2)

	slot, err := svc.Book(context.Background(), slotIDs[0], 7)
	require.NoError(t, err)
	assert.Equal(t, model.SlotConfirmed, slot.Status)
	require.NotNil(t, slot.UserID)
	assert.Equal(t, int64(7), *slot.UserID)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{slotIDs[1]}, ids(pending))
}

func TestBookUnknownID(t *testing.T) {
	svc := booking.New(newMemStore(), zap.NewNop())

	for _, id := range []int64{999, 0, -3} {
		_, err := svc.Book(context.Background(), id, 7)
		assert.ErrorIs(t, err, booking.ErrSlotUnavailable, "id %d", id)
	}
}

func TestRebookConfirmedSlot(t *testing.T) {
	st := newMemStore()
	svc := booking.New(st, zap.NewNop())
	slotID := seed(t, svc, 1)[0]

	_, err := svc.Book(context.Background(), slotID, 7)
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), slotID, 8)
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)
	assert.Equal(t, int64(7), *st.slots[slotID].UserID)
}

func TestConcurrentBooking(t *testing.T) {
	svc := booking.New(newMemStore(), zap.NewNop())
	slotID := seed(t, svc, 1)[0]

	const n = 20
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := svc.Book(context.Background(), slotID, uid)
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, booking.ErrSlotUnavailable):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestCreateValidation(t *testing.T) {
	svc := booking.New(newMemStore(), zap.NewNop())

	_, err := svc.Create(context.Background(), 1, time.Now().Add(-time.Hour))
	assert.ErrorIs(t, err, booking.ErrPastDatetime)

	_, err = svc.Create(context.Background(), 42, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, booking.ErrUnknownDoctor)
}
