// Package event はリアルタイム通知のイベント型とワイヤ形式を定義する。
//
// 書き込み系の操作（いいね、コメント、フォロー）が生成する通知と、
// それをクライアントへプッシュする newNotification フレームの
// エンコード/デコードを提供する。
package event
