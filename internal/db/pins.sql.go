package db

import (
	"context"
	"time"
)

const createPin = `-- name: CreatePin :exec
INSERT INTO pins (id, user_id, image_url, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

// CreatePinParams はCreatePinの引数。
type CreatePinParams struct {
	ID          string
	UserID      string
	ImageURL    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePin はピンを1件登録する。
func (q *Queries) CreatePin(ctx context.Context, arg CreatePinParams) error {
	_, err := q.db.ExecContext(ctx, createPin,
		arg.ID,
		arg.UserID,
		arg.ImageURL,
		arg.Description,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getPinByID = `-- name: GetPinByID :one
SELECT id, user_id, image_url, description, created_at, updated_at
FROM pins
WHERE id = ?
`

// GetPinByID はIDでピンを取得する。
func (q *Queries) GetPinByID(ctx context.Context, id string) (Pin, error) {
	row := q.db.QueryRowContext(ctx, getPinByID, id)
	var i Pin
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ImageURL,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPinsWithOwner = `-- name: ListPinsWithOwner :many
SELECT p.id, p.user_id, p.image_url, p.description, p.created_at, p.updated_at,
       u.username, u.email
FROM pins p
JOIN users u ON u.id = p.user_id
ORDER BY p.created_at DESC, p.rowid DESC
`

// ListPinsWithOwnerRow はListPinsWithOwnerの1行。
type ListPinsWithOwnerRow struct {
	Pin
	OwnerUsername string
	OwnerEmail    string
}

// ListPinsWithOwner は全ピンを投稿者情報付きで新着順に返す。
func (q *Queries) ListPinsWithOwner(ctx context.Context) ([]ListPinsWithOwnerRow, error) {
	rows, err := q.db.QueryContext(ctx, listPinsWithOwner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListPinsWithOwnerRow{}
	for rows.Next() {
		var i ListPinsWithOwnerRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.ImageURL,
			&i.Description,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.OwnerUsername,
			&i.OwnerEmail,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
