// Package httpclient は外部サービスとJSONでやり取りするHTTPクライアントを提供する。
//
// キャプション生成サービスの呼び出しに使う。
// コンテキストにリクエストIDが設定されていればX-Request-IDヘッダーで伝播する。
package httpclient
