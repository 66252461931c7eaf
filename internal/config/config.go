// Package config は環境変数からムードボードサーバーの設定を読み込む。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config はサーバー全体の設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// DatabasePath はSQLiteデータベースファイルのパス。
	DatabasePath string
	// JWTSecret はJWTの署名に使う秘密鍵。
	JWTSecret string
	// AllowedOrigins はCORSとWebSocketで許可するオリジン。"*"で全許可。
	AllowedOrigins []string
	// UploadDir はアップロード画像の保存先ディレクトリ。
	UploadDir string
	// PublicURL は外部から見たサーバーのベースURL。キャプション生成に渡す画像URLの組み立てに使う。
	PublicURL string
	// CaptionServiceURL はキャプション生成サービスのURL。空なら無効。
	CaptionServiceURL string
	// LogLevel はログ出力レベル。
	LogLevel zapcore.Level
}

// Load は環境変数から設定を読み込む。
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	getEnvOr := func(key, defaultValue string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return defaultValue
	}

	port := getEnvOr("PORT", "5000")
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return Config{}, fmt.Errorf("PORTが不正です: %q", port)
	}

	level, err := zapcore.ParseLevel(getEnvOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVELが不正です: %w", err)
	}

	return Config{
		Port:              port,
		DatabasePath:      getEnvOr("DATABASE_PATH", "moodboard.db"),
		JWTSecret:         getEnvOr("JWT_SECRET", "dev-secret-key"),
		AllowedOrigins:    splitList(getEnvOr("FRONTEND_URL", "http://localhost:5173")),
		UploadDir:         getEnvOr("UPLOAD_DIR", "uploads"),
		PublicURL:         strings.TrimRight(getEnvOr("PUBLIC_URL", "http://localhost:"+port), "/"),
		CaptionServiceURL: getEnvOr("CAPTION_SERVICE_URL", ""),
		LogLevel:          level,
	}, nil
}

// splitList はカンマ区切りの値を空要素を除いて分割する。
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
