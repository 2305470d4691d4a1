package store

import (
	"context"

	"doctor-booking-api/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone,
	avatar, is_active, is_staff, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Avatar, &u.IsActive, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

// CreateUser inserts u and fills in the generated id and timestamps.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, phone)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, is_active, is_staff, created_at, updated_at`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone,
	).Scan(&u.ID, &u.IsActive, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt)
	return mapErr(err)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// UpdateUserProfile writes the editable profile fields. A nil avatar keeps
// the stored one.
func (s *Store) UpdateUserProfile(ctx context.Context, u *model.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET first_name=$1, last_name=$2, phone=$3, avatar=COALESCE($4, avatar), updated_at=NOW()
		 WHERE id=$5`,
		u.FirstName, u.LastName, u.Phone, u.Avatar, u.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
