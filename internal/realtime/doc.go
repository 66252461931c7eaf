// Package realtime はリアルタイム通知の配信基盤を提供する。
//
// 接続中のユーザーとWebSocket接続の対応表（Registry）、接続の受け付けと
// 登録解除を行うライフサイクル管理（Manager）、接続ごとの送信キュー（Conn）、
// 書き込み系の処理から通知をプッシュする窓口（Emitter）で構成される。
//
// 配信はベストエフォート（at-most-once）で、未接続ユーザーへの通知は破棄する。
// 再送やキューイング、永続化は行わない。
//
// 注意: ハンドシェイク時のクエリパラメータ userId は認証していない。
// クライアントが申告したIDをそのまま信頼するため、他人のIDを名乗れば
// その人宛ての通知を受信できてしまう。信頼できるネットワークの外に公開する
// 場合は、接続時の認証を別途設計する必要がある。
package realtime
