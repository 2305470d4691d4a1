package model

import "time"

const (
	SlotPending   = "pending"
	SlotConfirmed = "confirmed"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Avatar       *string
	IsActive     bool
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Doctor struct {
	ID               int64
	FullName         string
	Specialty        string
	Location         string
	ClinicName       string
	Experience       int
	RatingPercentage int
	ConsultationFee  float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DoctorFilter holds exact-match filters plus a free-text search over
// location and clinic name. Nil fields are not applied.
type DoctorFilter struct {
	Experience       *int
	RatingPercentage *int
	ConsultationFee  *float64
	Location         *string
	Search           string
}

type News struct {
	ID        int64
	Title     string
	Body      string
	Image     string
	CreatedAt time.Time
}

// Slot is a bookable appointment time ("date") of a doctor.
type Slot struct {
	ID        int64
	DoctorID  int64
	Datetime  time.Time
	Status    string
	UserID    *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
