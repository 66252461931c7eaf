package moodboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nao1215/moodboard/internal/db"
	"github.com/nao1215/moodboard/internal/social"
	"github.com/nao1215/moodboard/pkg/httpclient"
	"github.com/nao1215/moodboard/pkg/middleware"
	"go.uber.org/zap"
)

const (
	// maxUploadBytes はアップロード画像1枚の上限サイズ。
	maxUploadBytes = 10 << 20
	// maxRequestBytes はピン投稿リクエスト全体の上限サイズ。
	maxRequestBytes = maxUploadBytes + 1<<20
	// defaultDescription は説明文が無く、キャプションも生成できなかった場合の説明文。
	defaultDescription = "No description provided."
	// uploadsPath はアップロード画像を配信するURLパス。
	uploadsPath = "/uploads"
)

// allowedImageTypes はアップロードを許可する画像形式。
var allowedImageTypes = []string{"image/jpeg", "image/png"}

// commentRequest はコメント追加リクエストのJSON構造。
type commentRequest struct {
	Text string `json:"text"`
}

// handleCreatePin は画像をアップロードしてピンを作成する。
// 説明文が無い場合はキャプション生成サービスで補う。
func (s *Server) handleCreatePin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := middleware.GetUserID(c)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)
		fh, err := c.FormFile("image")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image must be 10MB or smaller."})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image upload failed. No file found."})
			return
		}
		if fh.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image must be 10MB or smaller."})
			return
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image upload failed. Could not read file."})
			return
		}
		mtype, err := mimetype.DetectReader(f)
		f.Close()
		if err != nil || !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG and PNG images are allowed."})
			return
		}

		owner, err := s.store.Queries().GetUserByID(ctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": social.ErrUserNotFound.Error()})
			return
		}
		if err != nil {
			middleware.Logger(c).Error("ユーザーの取得に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during pin creation."})
			return
		}

		pinID := uuid.NewString()
		filename := pinID + mtype.Extension()
		savedPath := filepath.Join(s.cfg.UploadDir, filename)
		if err := c.SaveUploadedFile(fh, savedPath); err != nil {
			middleware.Logger(c).Error("画像の保存に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during pin creation."})
			return
		}
		imageURL := path.Join(uploadsPath, filename)

		description := strings.TrimSpace(c.PostForm("description"))
		if description == "" {
			reqCtx := httpclient.WithRequestID(ctx, middleware.TraceID(c))
			description = s.describe(reqCtx, middleware.Logger(c), imageURL)
		}

		now := time.Now().UTC()
		if err := s.store.Queries().CreatePin(ctx, db.CreatePinParams{
			ID:          pinID,
			UserID:      userID,
			ImageURL:    imageURL,
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			middleware.Logger(c).Error("ピンの登録に失敗", zap.Error(err))
			if rmErr := os.Remove(savedPath); rmErr != nil {
				middleware.Logger(c).Warn("保存した画像の削除に失敗", zap.String("path", savedPath), zap.Error(rmErr))
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during pin creation."})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Pin created and image uploaded successfully",
			"pin": pinResponse{
				ID:          pinID,
				User:        toUserResponse(owner),
				ImageURL:    imageURL,
				Description: description,
				Likes:       []string{},
				Comments:    []commentResponse{},
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		})
	}
}

// describe はキャプション生成サービスで説明文を作る。
// サービスが未設定または失敗した場合はデフォルトの説明文を返す。
func (s *Server) describe(ctx context.Context, logger *zap.Logger, imageURL string) string {
	if s.captioner == nil {
		return defaultDescription
	}
	caption, err := s.captioner.Generate(ctx, s.cfg.PublicURL+imageURL)
	if err != nil {
		logger.Warn("キャプション生成に失敗したためデフォルトの説明文を使います", zap.Error(err))
		return defaultDescription
	}
	return caption
}

// handleListPins は全ピンを新着順で返す。
func (s *Server) handleListPins() gin.HandlerFunc {
	return func(c *gin.Context) {
		pins, err := s.listPins(c.Request.Context())
		if err != nil {
			middleware.Logger(c).Error("ピン一覧の取得に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error fetching pins."})
			return
		}
		c.JSON(http.StatusOK, pins)
	}
}

// listPins は全ピンを投稿者・いいね・コメント付きで組み立てる。
func (s *Server) listPins(ctx context.Context) ([]pinResponse, error) {
	q := s.store.Queries()
	rows, err := q.ListPinsWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("ピン一覧の取得に失敗: %w", err)
	}

	pins := make([]pinResponse, 0, len(rows))
	for _, r := range rows {
		likes, err := q.ListLikeUserIDs(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("いいね一覧の取得に失敗: %w", err)
		}
		comments, err := social.ListComments(ctx, q, r.ID)
		if err != nil {
			return nil, err
		}
		pins = append(pins, pinResponse{
			ID: r.ID,
			User: userResponse{
				ID:       r.UserID,
				Username: r.OwnerUsername,
				Email:    r.OwnerEmail,
			},
			ImageURL:    r.ImageURL,
			Description: r.Description,
			Likes:       likes,
			Comments:    toCommentResponses(comments),
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return pins, nil
}

// handleLike はログイン中のユーザーによるいいねを切り替える。
func (s *Server) handleLike() gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := s.social.Like(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err, "Server error during like action.")
			return
		}
		c.JSON(http.StatusOK, likeResponse{Liked: res.Liked, Likes: res.Likes})
	}
}

// handleComment はピンにコメントを追加し、コメント一覧を返す。
func (s *Server) handleComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req commentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": social.ErrEmptyComment.Error()})
			return
		}

		comments, err := s.social.Comment(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.Text)
		if err != nil {
			respondError(c, err, "Server error during comment action.")
			return
		}
		c.JSON(http.StatusCreated, toCommentResponses(comments))
	}
}
