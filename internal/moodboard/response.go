package moodboard

import (
	"time"

	"github.com/nao1215/moodboard/internal/db"
	"github.com/nao1215/moodboard/internal/social"
)

// userResponse はレスポンスに含めるユーザー情報。パスワードハッシュは含めない。
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// authResponse は登録・ログイン成功時のレスポンス。
type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

// profileResponse はプロフィールのレスポンス。
type profileResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// commentResponse はピンに付いたコメント1件。
type commentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// pinResponse はピン1件。投稿者・いいね・コメントを含む。
type pinResponse struct {
	ID          string            `json:"id"`
	User        userResponse      `json:"user"`
	ImageURL    string            `json:"imageUrl"`
	Description string            `json:"description"`
	Likes       []string          `json:"likes"`
	Comments    []commentResponse `json:"comments"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// likeResponse はいいね切り替えのレスポンス。
type likeResponse struct {
	Liked bool     `json:"liked"`
	Likes []string `json:"likes"`
}

func toUserResponse(u db.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toCommentResponses(comments []social.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse{
			ID:        c.ID,
			UserID:    c.UserID,
			Username:  c.Username,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}
