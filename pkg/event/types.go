package event

// Type は通知イベントの種類を表す。
type Type string

const (
	// TypeLike はピンに「いいね」が付いたことを表す。
	TypeLike Type = "like"
	// TypeComment はピンにコメントが付いたことを表す。
	TypeComment Type = "comment"
	// TypeFollow はユーザーがフォローされたことを表す。
	TypeFollow Type = "follow"
)

// Name はクライアントへプッシュする際のイベント名。
// すべての通知はこの名前でタグ付けされる。
const Name = "newNotification"

// Valid はTypeが既知の値かどうかを返す。
func (t Type) Valid() bool {
	switch t {
	case TypeLike, TypeComment, TypeFollow:
		return true
	}
	return false
}

// Notification はリアルタイムで配信される通知を表す。
// 生成されたら配信されるか破棄されるだけで、永続化はしない。
type Notification struct {
	// Type は通知の種類。
	Type Type `json:"type"`
	// Message は画面に表示する通知メッセージ。
	Message string `json:"message"`
	// TargetUserID は通知先のユーザーID。ワイヤには載せない。
	TargetUserID string `json:"-"`
	// PinID は対象ピンのID。like/commentのみ。
	PinID string `json:"pinId,omitempty"`
	// Comment はコメント本文。commentのみ。
	Comment string `json:"comment,omitempty"`
	// Username は操作したユーザーの表示名。followのみ。
	Username string `json:"username,omitempty"`
}

// NewLike はピンへの「いいね」通知を生成する。
func NewLike(targetUserID, actorName, pinID string) Notification {
	return Notification{
		Type:         TypeLike,
		Message:      actorName + " liked your pin!",
		TargetUserID: targetUserID,
		PinID:        pinID,
	}
}

// NewComment はピンへのコメント通知を生成する。
func NewComment(targetUserID, actorName, pinID, text string) Notification {
	return Notification{
		Type:         TypeComment,
		Message:      actorName + " commented on your pin!",
		TargetUserID: targetUserID,
		PinID:        pinID,
		Comment:      text,
	}
}

// NewFollow はフォロー通知を生成する。
func NewFollow(targetUserID, actorName string) Notification {
	return Notification{
		Type:         TypeFollow,
		Message:      actorName + " is now following you!",
		TargetUserID: targetUserID,
		Username:     actorName,
	}
}
