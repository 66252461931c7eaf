// Package social はいいね・コメント・フォローの書き込み処理と、その結果に応じた通知の発火を担う。
//
// 状態変更は必ず1トランザクションでコミットし、コミットが成功した後にだけNotifierへ通知を渡す。
// コミットに失敗した変更について通知が飛ぶことはない。
// 通知の配送結果は呼び出し元に返さない（配送はベストエフォート）。
//
// 自分自身への通知は行わない。自分のピンへのいいね・コメントは保存されるが通知は発火しない。
package social
