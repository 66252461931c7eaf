package realtime

import (
	"net/http"
	"slices"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// QueryKeyUserID はハンドシェイク時にユーザーIDを受け取るクエリパラメータ名。
const QueryKeyUserID = "userId"

// Manager はWebSocket接続の受け付けと、Registryへの登録・解除を担当する。
type Manager struct {
	registry *Registry
	upgrader websocket.Upgrader
	logger   *zap.Logger

	// mu はconnsを保護する。
	mu sync.Mutex
	// conns はシャットダウン時に閉じるための生存中の接続一覧。
	// userIdの無い接続も含む。
	conns map[*Conn]struct{}
}

// NewManager は新しいManagerを生成する。
// allowedOrigins に "*" が含まれる場合はすべてのオリジンを許可する。
func NewManager(registry *Registry, allowedOrigins []string, logger *zap.Logger) *Manager {
	return &Manager{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		logger: logger.With(zap.String("component", "realtime")),
		conns:  make(map[*Conn]struct{}),
	}
}

// checkOrigin はOriginヘッダーを検査する関数を返す。
// Originヘッダーの無いリクエスト（ブラウザ以外のクライアント）は許可する。
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowAll := slices.Contains(allowedOrigins, "*")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}
		return slices.Contains(allowedOrigins, origin)
	}
}

// HandleConnect はWebSocket接続を受け付けるハンドラを返す。
// 接続が切れるまでハンドラは戻らない。
func (m *Manager) HandleConnect() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query(QueryKeyUserID)

		ws, err := m.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgraderがエラーレスポンスを書き込み済み
			m.logger.Warn("WebSocketへのアップグレードに失敗", zap.Error(err))
			return
		}

		conn := newConn(ws, userID, m.logger)
		m.track(conn)

		if userID != "" {
			m.registry.Register(userID, conn)
			conn.logger.Info("クライアントが接続しました")
		} else {
			// userIdが無くても接続は受け付けるが、通知の配信対象にはならない
			conn.logger.Info("userIdの無いクライアントが接続しました")
		}

		go conn.writePump()
		conn.readPump()

		if userID != "" && m.registry.Unregister(conn) {
			conn.logger.Info("クライアントが切断しました")
		}
		m.untrack(conn)
		conn.Close()
	}
}

// Shutdown はすべての接続を閉じる。
// 各接続のハンドラが読み込みエラーで終了し、登録を解除する。
func (m *Manager) Shutdown() {
	m.mu.Lock()
	conns := make([]*Conn, 0, len(m.conns))
	for c := range m.conns {
		conns = append(conns, c)
	}
	m.mu.Unlock()

	// 1本ずつ待つと全体の待ち時間が接続数に比例するため並行して閉じる
	var wg sync.WaitGroup
	for _, c := range conns {
		wg.Go(c.Close)
	}
	wg.Wait()
	m.logger.Info("リアルタイム接続をすべて閉じました", zap.Int("count", len(conns)))
}

// Connections は生存中の接続数を返す。userIdの無い接続も数える。
func (m *Manager) Connections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}

func (m *Manager) track(c *Conn) {
	m.mu.Lock()
	m.conns[c] = struct{}{}
	m.mu.Unlock()
}

func (m *Manager) untrack(c *Conn) {
	m.mu.Lock()
	delete(m.conns, c)
	m.mu.Unlock()
}
