package social

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/moodboard/internal/db"
	"github.com/nao1215/moodboard/pkg/event"
	"go.uber.org/zap"
)

// Notifier は通知の送信先。realtime.Emitterが実装する。
// Notifyはブロックせず、配送失敗を呼び出し元に返さない。
type Notifier interface {
	Notify(targetUserID string, n event.Notification)
}

// TxRunner はクエリ群を1トランザクションで実行する。db.Storeが実装する。
type TxRunner interface {
	InTx(ctx context.Context, fn func(q *db.Queries) error) error
}

// LikeResult はLikeの結果。
type LikeResult struct {
	// Liked は呼び出し後にいいね済みの状態かどうか。
	Liked bool
	// Likes はいいねしているユーザーIDの一覧。
	Likes []string
}

// Comment はピンに付いたコメント1件。
type Comment struct {
	ID        string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
}

// Service は書き込み系の操作と通知の発火を行う。
type Service struct {
	// store はトランザクションの実行を担う。
	store TxRunner
	// notifier は通知の送信先。
	notifier Notifier
	// logger は構造化ロガー。
	logger *zap.Logger
	// now は現在時刻を返す。テストで差し替える。
	now func() time.Time
}

// NewService は新しいServiceを生成する。
func NewService(store TxRunner, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Like はactorIDのユーザーによるpinIDへのいいねを切り替える。
// いいねを追加し、かつピンの投稿者がactorID以外の場合だけ投稿者に通知する。
func (s *Service) Like(ctx context.Context, actorID, pinID string) (LikeResult, error) {
	var (
		result    LikeResult
		ownerID   string
		actorName string
	)

	err := s.store.InTx(ctx, func(q *db.Queries) error {
		actor, err := getUser(ctx, q, actorID)
		if err != nil {
			return err
		}
		actorName = actor.Username

		pin, err := getPin(ctx, q, pinID)
		if err != nil {
			return err
		}
		ownerID = pin.UserID

		key := db.LikeKey{PinID: pinID, UserID: actorID}
		liked, err := q.HasLiked(ctx, key)
		if err != nil {
			return fmt.Errorf("いいね状態の取得に失敗: %w", err)
		}

		if liked {
			if _, err := q.DeleteLike(ctx, key); err != nil {
				return fmt.Errorf("いいねの削除に失敗: %w", err)
			}
		} else {
			if err := q.CreateLike(ctx, db.CreateLikeParams{
				PinID:     pinID,
				UserID:    actorID,
				CreatedAt: s.now(),
			}); err != nil {
				return fmt.Errorf("いいねの登録に失敗: %w", err)
			}
		}
		result.Liked = !liked

		likes, err := q.ListLikeUserIDs(ctx, pinID)
		if err != nil {
			return fmt.Errorf("いいね一覧の取得に失敗: %w", err)
		}
		result.Likes = likes
		return nil
	})
	if err != nil {
		return LikeResult{}, err
	}

	if result.Liked && ownerID != actorID {
		s.notifier.Notify(ownerID, event.NewLike(ownerID, actorName, pinID))
	}
	return result, nil
}

// Comment はpinIDのピンにコメントを追加し、追加後のコメント一覧を投稿順で返す。
// ピンの投稿者がactorID以外の場合は投稿者に通知する。
func (s *Service) Comment(ctx context.Context, actorID, pinID, text string) ([]Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	var (
		comments  []Comment
		ownerID   string
		actorName string
	)

	err := s.store.InTx(ctx, func(q *db.Queries) error {
		actor, err := getUser(ctx, q, actorID)
		if err != nil {
			return err
		}
		actorName = actor.Username

		pin, err := getPin(ctx, q, pinID)
		if err != nil {
			return err
		}
		ownerID = pin.UserID

		if err := q.CreateComment(ctx, db.CreateCommentParams{
			ID:        uuid.NewString(),
			PinID:     pinID,
			UserID:    actorID,
			Text:      text,
			CreatedAt: s.now(),
		}); err != nil {
			return fmt.Errorf("コメントの登録に失敗: %w", err)
		}

		comments, err = ListComments(ctx, q, pinID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if ownerID != actorID {
		s.notifier.Notify(ownerID, event.NewComment(ownerID, actorName, pinID, text))
	}
	return comments, nil
}

// Follow はactorIDのユーザーがtargetIDのユーザーをフォローする。
// 成功するとフォローされたユーザーに通知する。
func (s *Service) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfFollow
	}

	var actorName string
	err := s.store.InTx(ctx, func(q *db.Queries) error {
		if _, err := getUser(ctx, q, targetID); err != nil {
			return err
		}
		actor, err := getUser(ctx, q, actorID)
		if err != nil {
			return err
		}
		actorName = actor.Username

		key := db.FollowKey{FollowerID: actorID, FolloweeID: targetID}
		following, err := q.IsFollowing(ctx, key)
		if err != nil {
			return fmt.Errorf("フォロー状態の取得に失敗: %w", err)
		}
		if following {
			return ErrAlreadyFollowing
		}

		if err := q.CreateFollow(ctx, db.CreateFollowParams{
			FollowerID: actorID,
			FolloweeID: targetID,
			CreatedAt:  s.now(),
		}); err != nil {
			return fmt.Errorf("フォローの登録に失敗: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(targetID, event.NewFollow(targetID, actorName))
	return nil
}

// Unfollow はactorIDのユーザーによるtargetIDのフォローを解除する。
// フォローしていない場合も成功として扱い、通知は行わない。
func (s *Service) Unfollow(ctx context.Context, actorID, targetID string) error {
	return s.store.InTx(ctx, func(q *db.Queries) error {
		if _, err := getUser(ctx, q, targetID); err != nil {
			return err
		}

		n, err := q.DeleteFollow(ctx, db.FollowKey{FollowerID: actorID, FolloweeID: targetID})
		if err != nil {
			return fmt.Errorf("フォローの解除に失敗: %w", err)
		}
		if n == 0 {
			s.logger.Debug("フォロー関係が存在しないため解除をスキップ",
				zap.String("follower_id", actorID),
				zap.String("followee_id", targetID),
			)
		}
		return nil
	})
}

// ListComments はピンのコメントを投稿順で返す。
func ListComments(ctx context.Context, q *db.Queries, pinID string) ([]Comment, error) {
	rows, err := q.ListCommentsByPinID(ctx, pinID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗: %w", err)
	}
	comments := make([]Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, Comment{
			ID:        r.ID,
			UserID:    r.UserID,
			Username:  r.Username,
			Text:      r.Text,
			CreatedAt: r.CreatedAt,
		})
	}
	return comments, nil
}

func getUser(ctx context.Context, q *db.Queries, id string) (db.User, error) {
	u, err := q.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return db.User{}, ErrUserNotFound
	}
	if err != nil {
		return db.User{}, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return u, nil
}

func getPin(ctx context.Context, q *db.Queries, id string) (db.Pin, error) {
	p, err := q.GetPinByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Pin{}, ErrPinNotFound
	}
	if err != nil {
		return db.Pin{}, fmt.Errorf("ピンの取得に失敗: %w", err)
	}
	return p, nil
}
