// ムードボードサービスのエントリポイント。
// 認証、ピンの投稿とフィード、いいね・コメント・フォローのREST APIと、
// それらの操作を接続中のユーザーへ即時に知らせるWebSocket通知を提供する。
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/moodboard/internal/config"
	"github.com/nao1215/moodboard/internal/moodboard"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("ムードボードサービスが異常終了しました", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run はシグナルを受けるまでサーバーを動かす。
func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := moodboard.NewServer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("ムードボードサーバーの初期化に失敗: %w", err)
	}
	defer server.Close()

	return server.Run(ctx)
}

// newLogger はログレベルに応じたzapロガーを生成する。
// debugの場合は開発向けの読みやすい形式で出力する。
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
