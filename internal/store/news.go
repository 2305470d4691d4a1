package store

import (
	"context"

	"doctor-booking-api/internal/model"
)

func (s *Store) CreateNews(ctx context.Context, n *model.News) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO news (title, body, image) VALUES ($1,$2,$3) RETURNING id, created_at`,
		n.Title, n.Body, n.Image,
	).Scan(&n.ID, &n.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetNews(ctx context.Context, id int64) (*model.News, error) {
	n := &model.News{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, body, image, created_at FROM news WHERE id = $1`, id,
	).Scan(&n.ID, &n.Title, &n.Body, &n.Image, &n.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return n, nil
}

// ListNews returns newest first.
func (s *Store) ListNews(ctx context.Context) ([]model.News, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, body, image, created_at FROM news ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.News{}
	for rows.Next() {
		var n model.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Image, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
