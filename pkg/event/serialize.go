package event

import (
	"encoding/json"
	"fmt"
)

// Frame はWebSocketで送受信する1メッセージ分のエンベロープ。
type Frame struct {
	// Event はイベント名。通知の場合は常に Name。
	Event string `json:"event"`
	// Data はイベント固有のデータ（JSON形式）。
	Data json.RawMessage `json:"data"`
}

// Encode は通知を newNotification フレームにシリアライズする。
func Encode(n Notification) ([]byte, error) {
	if !n.Type.Valid() {
		return nil, fmt.Errorf("未知の通知種別です: %q", n.Type)
	}

	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("通知データのシリアライズに失敗: %w", err)
	}

	frame, err := json.Marshal(Frame{Event: Name, Data: data})
	if err != nil {
		return nil, fmt.Errorf("フレームのシリアライズに失敗: %w", err)
	}
	return frame, nil
}

// DecodeFrame はフレームをデシリアライズし、イベント名と通知を返す。
// TargetUserIDはワイヤに含まれないため常に空になる。
func DecodeFrame(raw []byte) (string, Notification, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", Notification{}, fmt.Errorf("フレームのデシリアライズに失敗: %w", err)
	}

	var n Notification
	if err := json.Unmarshal(f.Data, &n); err != nil {
		return "", Notification{}, fmt.Errorf("通知データのデシリアライズに失敗: %w", err)
	}
	return f.Event, n, nil
}
