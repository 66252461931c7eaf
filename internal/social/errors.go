package social

import "errors"

var (
	// ErrPinNotFound は対象のピンが存在しない場合のエラー。
	ErrPinNotFound = errors.New("pin not found")
	// ErrUserNotFound は対象のユーザーが存在しない場合のエラー。
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyComment はコメント本文が空の場合のエラー。
	ErrEmptyComment = errors.New("comment text is required")
	// ErrSelfFollow は自分自身をフォローしようとした場合のエラー。
	ErrSelfFollow = errors.New("you cannot follow yourself")
	// ErrAlreadyFollowing は既にフォロー済みのユーザーをフォローしようとした場合のエラー。
	ErrAlreadyFollowing = errors.New("you already follow this user")
)
