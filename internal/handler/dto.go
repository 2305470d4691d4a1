package handler

import (
	"time"

	"doctor-booking-api/internal/model"
)

// Wire shapes. Each entity gets an explicit field list per view.

type userOut struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Avatar    *string `json:"avatar"`
	IsActive  bool    `json:"is_active"`
}

func toUser(u *model.User) userOut {
	return userOut{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		IsActive:  u.IsActive,
	}
}

type doctorOut struct {
	ID               int64   `json:"id"`
	FullName         string  `json:"full_name"`
	Specialty        string  `json:"specialty"`
	Location         string  `json:"location"`
	ClinicName       string  `json:"clinic_name"`
	Experience       int     `json:"experience"`
	RatingPercentage int     `json:"rating_percentage"`
	ConsultationFee  float64 `json:"consultation_fee"`
}

func toDoctor(d *model.Doctor) doctorOut {
	return doctorOut{
		ID:               d.ID,
		FullName:         d.FullName,
		Specialty:        d.Specialty,
		Location:         d.Location,
		ClinicName:       d.ClinicName,
		Experience:       d.Experience,
		RatingPercentage: d.RatingPercentage,
		ConsultationFee:  d.ConsultationFee,
	}
}

func toDoctors(ds []model.Doctor) []doctorOut {
	out := make([]doctorOut, len(ds))
	for i := range ds {
		out[i] = toDoctor(&ds[i])
	}
	return out
}

type newsOut struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

func toNews(n *model.News) newsOut {
	return newsOut{ID: n.ID, Title: n.Title, Body: n.Body, Image: n.Image, CreatedAt: n.CreatedAt}
}

// slotListOut is the pending-list view: no user, the slot is unassigned.
type slotListOut struct {
	ID       int64     `json:"id"`
	Doctor   int64     `json:"doctor"`
	Datetime time.Time `json:"datetime"`
	Status   string    `json:"status"`
}

// slotOut is the booking view and carries the assigned user.
type slotOut struct {
	ID       int64     `json:"id"`
	Doctor   int64     `json:"doctor"`
	Datetime time.Time `json:"datetime"`
	Status   string    `json:"status"`
	User     *int64    `json:"user"`
}

func toSlotList(ss []model.Slot) []slotListOut {
	out := make([]slotListOut, len(ss))
	for i, s := range ss {
		out[i] = slotListOut{ID: s.ID, Doctor: s.DoctorID, Datetime: s.Datetime, Status: s.Status}
	}
	return out
}

func toSlot(s *model.Slot) slotOut {
	return slotOut{ID: s.ID, Doctor: s.DoctorID, Datetime: s.Datetime, Status: s.Status, User: s.UserID}
}

type tokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type registerOut struct {
	Refresh  string  `json:"refresh"`
	Access   string  `json:"access"`
	Username userOut `json:"username"`
}

type registerIn struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Phone     string `json:"phone" validate:"max=32"`
}

type loginIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshIn struct {
	Refresh string `json:"refresh" validate:"required"`
}

type doctorIn struct {
	FullName         string   `json:"full_name" validate:"required,max=255"`
	Specialty        string   `json:"specialty" validate:"max=255"`
	Location         string   `json:"location" validate:"required,max=255"`
	ClinicName       string   `json:"clinic_name" validate:"required,max=255"`
	Experience       *int     `json:"experience" validate:"required,gte=0,lte=80"`
	RatingPercentage *int     `json:"rating_percentage" validate:"required,gte=0,lte=100"`
	ConsultationFee  *float64 `json:"consultation_fee" validate:"required,gte=0"`
}

type userUpdateIn struct {
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Phone     string `json:"phone" validate:"max=32"`
}

type slotIn struct {
	Doctor   int64     `json:"doctor" validate:"required,gt=0"`
	Datetime time.Time `json:"datetime" validate:"required"`
}
