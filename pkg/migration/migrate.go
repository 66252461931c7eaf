// Package migration はSQLiteデータベースのマイグレーションを管理する。
// embed.FSからgoose形式のSQLファイルを読み込み、未適用のものだけを順に適用する。
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Run はfsys内のdirにあるマイグレーションをバージョン順に適用する。
// 適用済みのものはスキップする。
// ファイル名形式: 00001_description.sql（-- +goose Up / Down 注釈付き）
func Run(ctx context.Context, db *sql.DB, fsys fs.FS, dir string, logger *zap.Logger) error {
	provider, err := newProvider(db, fsys, dir)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("マイグレーションの適用に失敗: %w", err)
	}

	for _, r := range results {
		logger.Info("マイグレーションを適用しました",
			zap.Int64("version", r.Source.Version),
			zap.String("path", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}
	return nil
}

// Version はデータベースに適用済みの最新バージョンを返す。
func Version(ctx context.Context, db *sql.DB, fsys fs.FS, dir string) (int64, error) {
	provider, err := newProvider(db, fsys, dir)
	if err != nil {
		return 0, err
	}

	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("適用済みバージョンの取得に失敗: %w", err)
	}
	return v, nil
}

func newProvider(db *sql.DB, fsys fs.FS, dir string) (*goose.Provider, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("マイグレーションディレクトリの参照に失敗: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return nil, fmt.Errorf("マイグレーションの読み込みに失敗: %w", err)
	}
	return provider, nil
}
