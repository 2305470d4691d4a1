package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/respond"
)

type Options struct {
	AllowedOrigins []string
	// AuthPerSecond caps register, login and refresh per client IP.
	AuthPerSecond int
	// UserThrottle limits the doctor detail routes per user. Nil disables it.
	UserThrottle *middleware.RateLimiter
}

// Routes builds the HTTP API.
func (h *Handler) Routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(h.log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Authenticate(h.jwt.Secret))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Detail(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Detail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})

	r.Get("/healthz", h.Health)

	// dates
	r.Get("/dates/", h.ListDates)
	r.With(middleware.RequireStaff).Post("/dates/", h.CreateDate)
	r.With(middleware.RequireAuth).Get("/booking/{id}/", h.BookSlot)

	// auth
	r.Group(func(r chi.Router) {
		if opts.AuthPerSecond > 0 {
			r.Use(httprate.Limit(opts.AuthPerSecond, time.Second,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					respond.Detail(w, http.StatusTooManyRequests, "Request was throttled.")
				}),
			))
		}
		r.Post("/register/", h.Register)
		r.Post("/login/", h.Login)
		r.Post("/token/refresh/", h.Refresh)
	})
	r.With(middleware.RequireAuth).Post("/logout/", h.Logout)

	// doctors
	r.Get("/doctors/list/", h.ListDoctors)
	r.Get("/doctors/filter/", h.FilterDoctors)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		if opts.UserThrottle != nil {
			r.Use(middleware.Throttle(opts.UserThrottle))
		}
		r.Get("/doctors/", h.ListDoctors)
		r.Get("/doctors/{id}/", h.GetDoctor)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff)
		r.Put("/doctors/{id}/update/", h.UpdateDoctor)
		r.Delete("/doctors/{id}/delete/", h.DeleteDoctor)
	})

	// news
	r.Get("/news/", h.ListNews)
	r.Get("/news/{id}/", h.GetNews)

	// users
	r.With(middleware.RequireAuth).Put("/users/{id}/update/", h.UpdateUser)

	return r
}
