// Package moodboard はムードボードのHTTPサーバーを実装する。
//
// 認証（登録・ログイン）、ユーザー（プロフィール・フォロー）、ピン（投稿・一覧・いいね・コメント）の
// REST APIと、通知を受け取るためのWebSocketエンドポイントを提供する。
//
// エンドポイント:
//   - POST /api/auth/register, POST /api/auth/login
//   - GET /api/users/profile, PUT /api/users/follow/:id, PUT /api/users/unfollow/:id
//   - GET /api/pins, POST /api/pins, PUT /api/pins/like/:id, POST /api/pins/comment/:id
//   - GET /ws?userId=<id>（通知の受信）
//   - GET /health, GET /api/test, GET /uploads/*
//
// いいね・コメント・フォローはsocial.Serviceに委譲し、コミット後の通知は
// realtime.Emitter経由で接続中のクライアントに届く。
package moodboard
