package moodboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/moodboard/internal/caption"
	"github.com/nao1215/moodboard/internal/config"
	"github.com/nao1215/moodboard/internal/db"
	"github.com/nao1215/moodboard/internal/realtime"
	"github.com/nao1215/moodboard/internal/social"
	"github.com/nao1215/moodboard/pkg/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// shutdownTimeout はグレースフルシャットダウンの待ち時間。
	shutdownTimeout = 10 * time.Second
	// readHeaderTimeout はリクエストヘッダー読み込みのタイムアウト。
	readHeaderTimeout = 10 * time.Second
)

// Captioner は画像URLから説明文を生成する。caption.Clientが実装する。
type Captioner interface {
	Generate(ctx context.Context, imageURL string) (string, error)
	Health(ctx context.Context) error
}

// Server はムードボードのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg はサーバー設定。
	cfg config.Config
	// store はSQLiteの永続化層。
	store *db.Store
	// registry はユーザーIDとWebSocket接続の対応表。
	registry *realtime.Registry
	// manager はWebSocket接続のライフサイクルを管理する。
	manager *realtime.Manager
	// social はいいね・コメント・フォローの書き込みと通知を担う。
	social *social.Service
	// captioner はキャプション生成サービス。未設定ならnil。
	captioner Captioner
	// logger は構造化ロガー。
	logger *zap.Logger
}

// NewServer は新しいムードボードサーバーを生成する。
// SQLiteデータベースを開いてマイグレーションを適用し、アップロード先ディレクトリを作成する。
func NewServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("アップロードディレクトリの作成に失敗: %w", err)
	}

	store, err := db.Open(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, err
	}

	var captioner Captioner
	if cfg.CaptionServiceURL != "" {
		captioner = caption.New(cfg.CaptionServiceURL, logger.Named("caption"))
	}

	return newServer(cfg, store, captioner, logger), nil
}

// newServer は依存を受け取ってサーバーを組み立てる。
func newServer(cfg config.Config, store *db.Store, captioner Captioner, logger *zap.Logger) *Server {
	registry := realtime.NewRegistry()
	emitter := realtime.NewEmitter(registry, logger.Named("emitter"))

	s := &Server{
		router:    gin.New(),
		cfg:       cfg,
		store:     store,
		registry:  registry,
		manager:   realtime.NewManager(registry, cfg.AllowedOrigins, logger.Named("realtime")),
		social:    social.NewService(store, emitter, logger.Named("social")),
		captioner: captioner,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるまでリクエストを処理する。
// キャンセル後はWebSocket接続を閉じてからグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return fmt.Errorf("ポート %s のリッスンに失敗: %w", s.cfg.Port, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("ムードボードサービスを起動します", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTPサーバーが異常終了: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("ムードボードサービスを停止します")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// ハイジャック済みのWebSocket接続はShutdownの対象外なので先に閉じる
		s.manager.Shutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.store.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.CORS(s.cfg.AllowedOrigins))

	authRequired := middleware.JWTAuth(s.cfg.JWTSecret)

	api := s.router.Group("/api")
	{
		// 疎通確認
		api.GET("/test", s.handleTest())

		auth := api.Group("/auth")
		{
			// ユーザー登録
			auth.POST("/register", s.handleRegister())
			// ログイン
			auth.POST("/login", s.handleLogin())
		}

		users := api.Group("/users", authRequired)
		{
			// ログイン中ユーザーのプロフィール
			users.GET("/profile", s.handleProfile())
			// フォロー
			users.PUT("/follow/:id", s.handleFollow())
			// フォロー解除
			users.PUT("/unfollow/:id", s.handleUnfollow())
		}

		pins := api.Group("/pins")
		{
			// フィード（認証不要）
			pins.GET("", s.handleListPins())
			// ピン投稿
			pins.POST("", authRequired, s.handleCreatePin())
			// いいねの切り替え
			pins.PUT("/like/:id", authRequired, s.handleLike())
			// コメント追加
			pins.POST("/comment/:id", authRequired, s.handleComment())
		}
	}

	// 通知受信用のWebSocket
	s.router.GET("/ws", s.manager.HandleConnect())

	// アップロード画像の配信
	s.router.Static("/uploads", s.cfg.UploadDir)

	// ヘルスチェック
	s.router.GET("/health", s.handleHealth())
}

// handleTest はフロントエンドからの疎通確認に応答する。
func (s *Server) handleTest() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello from the backend! 👋"})
	}
}

// handleHealth はサーバーの状態と接続中のユーザー数を返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		captionStatus := "disabled"
		if s.captioner != nil {
			captionStatus = "ok"
			if err := s.captioner.Health(c.Request.Context()); err != nil {
				middleware.Logger(c).Warn("キャプション生成サービスが応答しません", zap.Error(err))
				captionStatus = "unavailable"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"service":        "moodboard",
			"connectedUsers": s.registry.Len(),
			"connections":    s.manager.Connections(),
			"caption":        captionStatus,
		})
	}
}

// respondError はサービス層のエラーをHTTPレスポンスに変換する。
// 想定外のエラーはログに出力し、fallbackMessageで500を返す。
func respondError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, social.ErrPinNotFound),
		errors.Is(err, social.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, social.ErrEmptyComment),
		errors.Is(err, social.ErrSelfFollow),
		errors.Is(err, social.ErrAlreadyFollowing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		middleware.Logger(c).Error(fallbackMessage, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMessage})
	}
}
