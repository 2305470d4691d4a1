package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"doctor-booking-api/internal/booking"
	"doctor-booking-api/internal/config"
	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/respond"
	"doctor-booking-api/internal/store"
)

// Store is everything the HTTP layer reads or writes outside the booking flow.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUserProfile(ctx context.Context, u *model.User) error

	CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*store.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID string, userID int64, newHash string, newExpiry time.Time) (string, error)
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error

	GetDoctor(ctx context.Context, id int64) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	FilterDoctors(ctx context.Context, f model.DoctorFilter) ([]model.Doctor, error)
	UpdateDoctor(ctx context.Context, d *model.Doctor) error
	DeleteDoctor(ctx context.Context, id int64) error

	GetNews(ctx context.Context, id int64) (*model.News, error)
	ListNews(ctx context.Context) ([]model.News, error)
}

type AvatarUploader interface {
	Upload(ctx context.Context, userID int64, filename string, r io.Reader, size int64, contentType string) (string, error)
}

type Handler struct {
	store   Store
	booking *booking.Service
	avatars AvatarUploader
	jwt     config.JWT
	log     *zap.Logger
}

func New(st Store, bk *booking.Service, av AvatarUploader, jwt config.JWT, log *zap.Logger) *Handler {
	return &Handler{store: st, booking: bk, avatars: av, jwt: jwt, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// internal logs err and answers with a generic 500.
func (h *Handler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error(op,
		zap.String("request_id", middleware.RequestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respond.Detail(w, http.StatusInternalServerError, "A server error occurred.")
}

// pathID returns the {id} URL param, or 0 when it is not a positive integer.
func pathID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func principal(r *http.Request) middleware.Principal {
	p, _ := middleware.PrincipalFrom(r.Context())
	return p
}
