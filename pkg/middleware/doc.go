// Package middleware はムードボードAPIで使うGinミドルウェアを提供する。
//
// JWTの発行と検証、リクエスト単位のzapロガー、パニックリカバリ、CORSを含む。
package middleware
