package db

import (
	"context"
	"time"
)

const createComment = `-- name: CreateComment :exec
INSERT INTO pin_comments (id, pin_id, user_id, text, created_at)
VALUES (?, ?, ?, ?, ?)
`

// CreateCommentParams はCreateCommentの引数。
type CreateCommentParams struct {
	ID        string
	PinID     string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// CreateComment はコメントを1件追加する。
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) error {
	_, err := q.db.ExecContext(ctx, createComment,
		arg.ID,
		arg.PinID,
		arg.UserID,
		arg.Text,
		arg.CreatedAt,
	)
	return err
}

const listCommentsByPinID = `-- name: ListCommentsByPinID :many
SELECT c.id, c.pin_id, c.user_id, u.username, c.text, c.created_at
FROM pin_comments c
JOIN users u ON u.id = c.user_id
WHERE c.pin_id = ?
ORDER BY c.rowid
`

// ListCommentsByPinIDRow はListCommentsByPinIDの1行。
type ListCommentsByPinIDRow struct {
	ID        string
	PinID     string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
}

// ListCommentsByPinID はピンのコメントを投稿順に返す。
func (q *Queries) ListCommentsByPinID(ctx context.Context, pinID string) ([]ListCommentsByPinIDRow, error) {
	rows, err := q.db.QueryContext(ctx, listCommentsByPinID, pinID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListCommentsByPinIDRow{}
	for rows.Next() {
		var i ListCommentsByPinIDRow
		if err := rows.Scan(
			&i.ID,
			&i.PinID,
			&i.UserID,
			&i.Username,
			&i.Text,
			&i.CreatedAt,
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
