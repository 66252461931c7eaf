package db

import (
	"context"
	"time"
)

// LikeKey はpin_likesテーブルの主キー。
type LikeKey struct {
	PinID  string
	UserID string
}

const createLike = `-- name: CreateLike :exec
INSERT INTO pin_likes (pin_id, user_id, created_at)
VALUES (?, ?, ?)
`

// CreateLikeParams はCreateLikeの引数。
type CreateLikeParams struct {
	PinID     string
	UserID    string
	CreatedAt time.Time
}

// CreateLike はいいねを1件登録する。
func (q *Queries) CreateLike(ctx context.Context, arg CreateLikeParams) error {
	_, err := q.db.ExecContext(ctx, createLike, arg.PinID, arg.UserID, arg.CreatedAt)
	return err
}

const deleteLike = `-- name: DeleteLike :execrows
DELETE FROM pin_likes
WHERE pin_id = ? AND user_id = ?
`

// DeleteLike はいいねを削除し、削除件数を返す。
func (q *Queries) DeleteLike(ctx context.Context, arg LikeKey) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLike, arg.PinID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const hasLiked = `-- name: HasLiked :one
SELECT EXISTS (
    SELECT 1 FROM pin_likes
    WHERE pin_id = ? AND user_id = ?
)
`

// HasLiked はユーザーがピンにいいね済みかを返す。
func (q *Queries) HasLiked(ctx context.Context, arg LikeKey) (bool, error) {
	row := q.db.QueryRowContext(ctx, hasLiked, arg.PinID, arg.UserID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listLikeUserIDs = `-- name: ListLikeUserIDs :many
SELECT user_id FROM pin_likes
WHERE pin_id = ?
ORDER BY created_at, rowid
`

// ListLikeUserIDs はピンにいいねしたユーザーID一覧を返す。
func (q *Queries) ListLikeUserIDs(ctx context.Context, pinID string) ([]string, error) {
	return q.listIDs(ctx, listLikeUserIDs, pinID)
}
