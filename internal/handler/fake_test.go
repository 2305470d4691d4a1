package handler_test

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/store"
)

// fakeStore is an in-memory stand-in for *store.Store. A single mutex
// serializes every call, which gives ConfirmSlot its row-lock semantics.
type fakeStore struct {
	mu sync.Mutex

	users   map[int64]*model.User
	doctors map[int64]*model.Doctor
	news    map[int64]*model.News
	slots   map[int64]*model.Slot
	tokens  map[string]*store.RefreshToken
	nextID  int64

	listErr      error
	pingErr      error
	confirmCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[int64]*model.User{},
		doctors: map[int64]*model.Doctor{},
		news:    map[int64]*model.News{},
		slots:   map[int64]*model.Slot{},
		tokens:  map[string]*store.RefreshToken{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.users {
		if x.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	u.ID = f.id()
	u.IsActive = true
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.users[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.FirstName, cur.LastName, cur.Phone = u.FirstName, u.LastName, u.Phone
	if u.Avatar != nil {
		cur.Avatar = u.Avatar
	}
	return nil
}

func (f *fakeStore) CreateRefreshToken(_ context.Context, userID int64, hash string, exp time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	f.tokens[hash] = &store.RefreshToken{ID: id, UserID: userID, TokenHash: hash, ExpiresAt: exp}
	return id, nil
}

func (f *fakeStore) GetRefreshTokenByHash(_ context.Context, hash string) (*store.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[hash]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeStore) RotateRefreshToken(_ context.Context, oldID string, userID int64, newHash string, exp time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var old *store.RefreshToken
	for _, rt := range f.tokens {
		if rt.ID == oldID {
			old = rt
		}
	}
	if old == nil || old.Revoked {
		return "", store.ErrTokenSpent
	}
	id := uuid.NewString()
	f.tokens[newHash] = &store.RefreshToken{ID: id, UserID: userID, TokenHash: newHash, ExpiresAt: exp}
	old.Revoked = true
	old.ReplacedBy = &id
	return id, nil
}

func (f *fakeStore) RevokeAllRefreshTokens(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

func (f *fakeStore) addDoctor(d model.Doctor) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = f.id()
	f.doctors[d.ID] = &d
	return d.ID
}

func (f *fakeStore) GetDoctor(_ context.Context, id int64) (*model.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	return f.FilterDoctors(ctx, model.DoctorFilter{})
}

func (f *fakeStore) FilterDoctors(_ context.Context, flt model.DoctorFilter) ([]model.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Doctor{}
	for _, d := range f.doctors {
		if flt.Experience != nil && d.Experience != *flt.Experience {
			continue
		}
		if flt.RatingPercentage != nil && d.RatingPercentage != *flt.RatingPercentage {
			continue
		}
		if flt.ConsultationFee != nil && d.ConsultationFee != *flt.ConsultationFee {
			continue
		}
		if flt.Location != nil && d.Location != *flt.Location {
			continue
		}
		if s := strings.ToLower(flt.Search); s != "" &&
			!strings.Contains(strings.ToLower(d.Location), s) &&
			!strings.Contains(strings.ToLower(d.ClinicName), s) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateDoctor(_ context.Context, d *model.Doctor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.doctors[d.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *d
	f.doctors[d.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteDoctor(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.doctors[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.doctors, id)
	return nil
}

func (f *fakeStore) addNews(n model.News) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.id()
	f.news[n.ID] = &n
	return n.ID
}

func (f *fakeStore) GetNews(_ context.Context, id int64) (*model.News, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.news[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeStore) ListNews(context.Context) ([]model.News, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.News{}
	for _, n := range f.news {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) addSlot(doctorID int64, at time.Time) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &model.Slot{ID: f.id(), DoctorID: doctorID, Datetime: at, Status: model.SlotPending}
	f.slots[s.ID] = s
	return s.ID
}

func (f *fakeStore) ListSlotsByStatus(_ context.Context, status string) ([]model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Slot
	for _, s := range f.slots {
		if s.Status == status {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

func (f *fakeStore) ConfirmSlot(_ context.Context, id, userID int64) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	s, ok := f.slots[id]
	if !ok || s.Status != model.SlotPending {
		return nil, store.ErrNotFound
	}
	s.Status = model.SlotConfirmed
	s.UserID = &userID
	cp := *s
	return &cp, nil
}

func (f *fakeStore) CreateSlot(_ context.Context, doctorID int64, at time.Time) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.doctors[doctorID]; !ok {
		return nil, store.ErrUnknownDoctor
	}
	s := &model.Slot{ID: f.id(), DoctorID: doctorID, Datetime: at, Status: model.SlotPending}
	f.slots[s.ID] = s
	cp := *s
	return &cp, nil
}

type upload struct {
	userID      int64
	filename    string
	contentType string
	body        []byte
}

type fakeAvatars struct {
	mu      sync.Mutex
	uploads []upload
}

func (a *fakeAvatars) Upload(_ context.Context, userID int64, filename string, r io.Reader, _ int64, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uploads = append(a.uploads, upload{userID: userID, filename: filename, contentType: contentType, body: b})
	return "users/" + filename, nil
}
