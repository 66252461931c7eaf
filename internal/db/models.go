package db

import "time"

// User はusersテーブルの1行。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Pin はpinsテーブルの1行。
type Pin struct {
	ID          string
	UserID      string
	ImageURL    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
