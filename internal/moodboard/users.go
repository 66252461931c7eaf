package moodboard

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/moodboard/pkg/middleware"
	"go.uber.org/zap"
)

// handleProfile はログイン中のユーザーのプロフィールを返す。
func (s *Server) handleProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := middleware.GetUserID(c)
		q := s.store.Queries()

		user, err := q.GetUserByID(ctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			middleware.Logger(c).Error("ユーザーの取得に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error fetching profile."})
			return
		}

		followers, err := q.ListFollowerIDs(ctx, userID)
		if err != nil {
			middleware.Logger(c).Error("フォロワー一覧の取得に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error fetching profile."})
			return
		}
		following, err := q.ListFollowingIDs(ctx, userID)
		if err != nil {
			middleware.Logger(c).Error("フォロー一覧の取得に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error fetching profile."})
			return
		}

		c.JSON(http.StatusOK, profileResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Followers: followers,
			Following: following,
		})
	}
}

// handleFollow はログイン中のユーザーが:idのユーザーをフォローする。
func (s *Server) handleFollow() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.social.Follow(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
			respondError(c, err, "Server error during follow action.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User followed successfully."})
	}
}

// handleUnfollow はログイン中のユーザーによる:idのユーザーのフォローを解除する。
func (s *Server) handleUnfollow() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.social.Unfollow(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
			respondError(c, err, "Server error during unfollow action.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User unfollowed successfully."})
	}
}
