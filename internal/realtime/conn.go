package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait は1フレームの書き込みに許す時間。
	writeWait = 10 * time.Second
	// closeWait はCloseフレームの書き込みに許す時間。
	closeWait = time.Second
	// pongWait はPongを待つ時間。これを過ぎると切断とみなす。
	pongWait = 60 * time.Second
	// pingPeriod はPingの送信間隔。pongWaitより短くする。
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize はクライアントから受け付けるメッセージの上限。
	maxMessageSize = 4096
	// sendQueueSize は接続ごとの送信キューの長さ。
	sendQueueSize = 32
)

// Conn はWebSocket接続1本を表し、Handleを実装する。
// 書き込みは writePump の単一ゴルーチンが行うため、
// 同じ接続へのフレームはPushした順に届く。
type Conn struct {
	// id はログ用の接続ID。
	id string
	// userID はハンドシェイクで申告されたユーザーID。空の場合がある。
	userID string
	// ws は下位のWebSocket接続。
	ws *websocket.Conn
	// send は送信待ちフレームのキュー。
	send chan []byte
	// done は接続が閉じられたときにcloseされる。
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

func newConn(ws *websocket.Conn, userID string, logger *zap.Logger) *Conn {
	id := uuid.NewString()
	return &Conn{
		id:     id,
		userID: userID,
		ws:     ws,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: logger.With(zap.String("conn_id", id), zap.String("user_id", userID)),
	}
}

// Push はフレームを送信キューに積む。
func (c *Conn) Push(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close は接続を閉じる。複数回呼び出しても安全。
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		// WriteControlは他の書き込みと並行して呼び出せる
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeWait),
		)
		_ = c.ws.Close()
	})
}

// writePump は送信キューのフレームを書き出し、定期的にPingを送る。
// 書き込みに失敗したら接続を閉じて終了する。
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Warn("フレームの書き込みに失敗", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("Pingの送信に失敗", zap.Error(err))
				return
			}
		case <-c.done:
			return
		}
	}
}

// readPump は切断を検知するためだけに受信を続ける。
// クライアントからのメッセージは読み捨てる。
func (c *Conn) readPump() {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info("接続が想定外に切断されました", zap.Error(err))
			}
			return
		}
	}
}
