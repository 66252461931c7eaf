package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/nao1215/moodboard/pkg/migration"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MemoryPath はインメモリデータベースを指すパス。テストで使う。
const MemoryPath = ":memory:"

// Store はSQLite接続とクエリ実行オブジェクトをまとめたもの。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
	// queries はトランザクション外で使うクエリ実行オブジェクト。
	queries *Queries
}

// Open はSQLiteデータベースを開き、マイグレーションを適用したStoreを返す。
// SQLiteは書き込みが単一なので接続数を1に制限する。
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("データベース接続の確認に失敗: %w", err)
	}

	if err := migration.Run(ctx, sqlDB, migrations, "migrations", logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	return &Store{
		db:      sqlDB,
		queries: New(sqlDB),
	}, nil
}

// dsn はmodernc.org/sqlite用の接続文字列を組み立てる。
func dsn(path string) string {
	if path == MemoryPath {
		return MemoryPath + "?_pragma=foreign_keys(1)"
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Queries はトランザクション外で使うクエリ実行オブジェクトを返す。
// InTxのコールバック内では使わないこと（接続が1本なので待ち続ける）。
func (s *Store) Queries() *Queries {
	return s.queries
}

// DB は内部のデータベース接続を返す。
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// InTx はfnを1つのトランザクション内で実行する。
// fnがエラーを返した場合、またはコミットに失敗した場合はロールバックしてエラーを返す。
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}
	return nil
}
