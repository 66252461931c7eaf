package moodboard

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nao1215/moodboard/internal/db"
	"github.com/nao1215/moodboard/pkg/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost はbcryptのコスト。
const passwordHashCost = bcrypt.DefaultCost

// errUserExists は登録時にユーザー名またはメールアドレスが重複していた場合のエラー。
var errUserExists = errors.New("user or email already exists")

// registerRequest はユーザー登録リクエストのJSON構造。
type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleRegister はユーザーを登録し、JWTを発行する。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields"})
			return
		}
		username := strings.TrimSpace(req.Username)
		email := normalizeEmail(req.Email)
		if username == "" || email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is too long"})
			return
		}
		if err != nil {
			middleware.Logger(c).Error("パスワードのハッシュ化に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
			return
		}

		now := time.Now().UTC()
		user := db.User{
			ID:           uuid.NewString(),
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err = s.store.InTx(c.Request.Context(), func(q *db.Queries) error {
			n, err := q.CountUsersByUsernameOrEmail(c.Request.Context(), db.CountUsersByUsernameOrEmailParams{
				Username: username,
				Email:    email,
			})
			if err != nil {
				return err
			}
			if n > 0 {
				return errUserExists
			}
			return q.CreateUser(c.Request.Context(), db.CreateUserParams{
				ID:           user.ID,
				Username:     user.Username,
				Email:        user.Email,
				PasswordHash: user.PasswordHash,
				CreatedAt:    user.CreatedAt,
				UpdatedAt:    user.UpdatedAt,
			})
		})
		if errors.Is(err, errUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User or email already exists"})
			return
		}
		if err != nil {
			middleware.Logger(c).Error("ユーザー登録に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
			return
		}

		s.respondWithToken(c, http.StatusCreated, "User registered successfully", user)
	}
}

// handleLogin はメールアドレスとパスワードを検証し、JWTを発行する。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}

		user, err := s.store.Queries().GetUserByEmail(c.Request.Context(), normalizeEmail(req.Email))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			middleware.Logger(c).Error("ユーザーの取得に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
			return
		}
		if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}

		s.respondWithToken(c, http.StatusOK, "Login successful", user)
	}
}

// respondWithToken はJWTを発行してユーザー情報と共に返す。
func (s *Server) respondWithToken(c *gin.Context, status int, message string, user db.User) {
	token, err := middleware.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Username)
	if err != nil {
		middleware.Logger(c).Error("JWTの発行に失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}
	c.JSON(status, authResponse{
		Message: message,
		Token:   token,
		User:    toUserResponse(user),
	})
}

// normalizeEmail はメールアドレスを前後の空白を除いて小文字にする。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
