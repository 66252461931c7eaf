package db

import (
	"context"
	"time"
)

// FollowKey はfollowsテーブルの主キー。
type FollowKey struct {
	FollowerID string
	FolloweeID string
}

const createFollow = `-- name: CreateFollow :exec
INSERT INTO follows (follower_id, followee_id, created_at)
VALUES (?, ?, ?)
`

// CreateFollowParams はCreateFollowの引数。
type CreateFollowParams struct {
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}

// CreateFollow はフォロー関係を1件登録する。
func (q *Queries) CreateFollow(ctx context.Context, arg CreateFollowParams) error {
	_, err := q.db.ExecContext(ctx, createFollow, arg.FollowerID, arg.FolloweeID, arg.CreatedAt)
	return err
}

const deleteFollow = `-- name: DeleteFollow :execrows
DELETE FROM follows
WHERE follower_id = ? AND followee_id = ?
`

// DeleteFollow はフォロー関係を削除し、削除件数を返す。
func (q *Queries) DeleteFollow(ctx context.Context, arg FollowKey) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteFollow, arg.FollowerID, arg.FolloweeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const isFollowing = `-- name: IsFollowing :one
SELECT EXISTS (
    SELECT 1 FROM follows
    WHERE follower_id = ? AND followee_id = ?
)
`

// IsFollowing はフォロー関係が存在するかを返す。
func (q *Queries) IsFollowing(ctx context.Context, arg FollowKey) (bool, error) {
	row := q.db.QueryRowContext(ctx, isFollowing, arg.FollowerID, arg.FolloweeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listFollowerIDs = `-- name: ListFollowerIDs :many
SELECT follower_id FROM follows
WHERE followee_id = ?
ORDER BY created_at, rowid
`

// ListFollowerIDs は指定ユーザーのフォロワーID一覧を返す。
func (q *Queries) ListFollowerIDs(ctx context.Context, followeeID string) ([]string, error) {
	return q.listIDs(ctx, listFollowerIDs, followeeID)
}

const listFollowingIDs = `-- name: ListFollowingIDs :many
SELECT followee_id FROM follows
WHERE follower_id = ?
ORDER BY created_at, rowid
`

// ListFollowingIDs は指定ユーザーがフォローしているユーザーID一覧を返す。
func (q *Queries) ListFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	return q.listIDs(ctx, listFollowingIDs, followerID)
}

// listIDs は1列のID一覧を返すクエリを実行する。
func (q *Queries) listIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
