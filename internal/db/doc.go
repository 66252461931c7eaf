// Package db はムードボードの永続化層を提供する。
//
// users / follows / pins / pin_likes / pin_comments の5テーブルをSQLiteに持ち、
// sqlc形式のQueriesでアクセスする。スキーマはmigrations/以下のgoose形式SQLで管理し、
// Open時に未適用分を適用する。
//
// 書き込みを伴う操作はStore.InTxでまとめて1トランザクションにする。
package db
