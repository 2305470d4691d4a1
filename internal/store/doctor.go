package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"doctor-booking-api/internal/model"
)

const doctorColumns = `id, full_name, specialty, location, clinic_name, experience,
	rating_percentage, consultation_fee::float8, created_at, updated_at`

func scanDoctor(row interface{ Scan(...any) error }) (model.Doctor, error) {
	var d model.Doctor
	err := row.Scan(&d.ID, &d.FullName, &d.Specialty, &d.Location, &d.ClinicName, &d.Experience,
		&d.RatingPercentage, &d.ConsultationFee, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func collectDoctors(rows pgx.Rows) ([]model.Doctor, error) {
	defer rows.Close()

	out := []model.Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO doctors (full_name, specialty, location, clinic_name, experience, rating_percentage, consultation_fee)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING id, created_at, updated_at`,
		d.FullName, d.Specialty, d.Location, d.ClinicName, d.Experience, d.RatingPercentage, d.ConsultationFee,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	return mapErr(err)
}

func (s *Store) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	d, err := scanDoctor(s.pool.QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (s *Store) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectDoctors(rows)
}

func (s *Store) FilterDoctors(ctx context.Context, f model.DoctorFilter) ([]model.Doctor, error) {
	q := `SELECT ` + doctorColumns + ` FROM doctors WHERE TRUE`
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		q += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.Experience != nil {
		add("experience = $%d", *f.Experience)
	}
	if f.RatingPercentage != nil {
		add("rating_percentage = $%d", *f.RatingPercentage)
	}
	if f.ConsultationFee != nil {
		add("consultation_fee = $%d", *f.ConsultationFee)
	}
	if f.Location != nil {
		add("location = $%d", *f.Location)
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		q += fmt.Sprintf(" AND (location ILIKE $%d OR clinic_name ILIKE $%d)", n, n)
	}
	q += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectDoctors(rows)
}

// UpdateDoctor overwrites every editable field of the doctor with d.ID.
func (s *Store) UpdateDoctor(ctx context.Context, d *model.Doctor) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE doctors
		 SET full_name=$1, specialty=$2, location=$3, clinic_name=$4, experience=$5,
		     rating_percentage=$6, consultation_fee=$7, updated_at=NOW()
		 WHERE id=$8
		 RETURNING created_at, updated_at`,
		d.FullName, d.Specialty, d.Location, d.ClinicName, d.Experience,
		d.RatingPercentage, d.ConsultationFee, d.ID,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return mapErr(err)
}

func (s *Store) DeleteDoctor(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
