package realtime

import (
	"go.uber.org/zap"

	"github.com/nao1215/moodboard/pkg/event"
)

// Emitter は書き込み系の処理が通知をプッシュするための窓口。
type Emitter struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEmitter は新しいEmitterを生成する。
func NewEmitter(registry *Registry, logger *zap.Logger) *Emitter {
	return &Emitter{registry: registry, logger: logger}
}

// Notify は通知先ユーザーが接続中であれば通知をプッシュする。
// 未接続、シリアライズ失敗、送信キュー満杯のいずれでも通知は破棄し、
// 呼び出し元にはエラーを返さない。配信完了も待たない。
func (e *Emitter) Notify(targetUserID string, n event.Notification) {
	h, ok := e.registry.Lookup(targetUserID)
	if !ok {
		e.logger.Debug("通知先が未接続のため破棄",
			zap.String("target_user_id", targetUserID),
			zap.String("type", string(n.Type)),
		)
		return
	}

	frame, err := event.Encode(n)
	if err != nil {
		e.logger.Warn("通知のシリアライズに失敗", zap.Error(err))
		return
	}

	if !h.Push(frame) {
		e.logger.Warn("送信キューに積めなかったため通知を破棄",
			zap.String("target_user_id", targetUserID),
			zap.String("type", string(n.Type)),
		)
	}
}
