package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// headerKeyRequestID はリクエストIDを運ぶHTTPヘッダーキー。
	headerKeyRequestID = "X-Request-ID"
	// contextKeyLogger はリクエスト単位のロガーを格納するコンテキストキー。
	contextKeyLogger = "logger"
	// contextKeyTraceID はtrace_idを格納するコンテキストキー。
	contextKeyTraceID = "trace_id"
)

// RequestLogger はリクエストごとにtrace_id付きのロガーをコンテキストに設定するGinミドルウェアを返す。
// trace_idはX-Request-IDヘッダーの値を使い、無ければ新しいUUIDを振る。
// レスポンス完了時にステータスと処理時間を出力する。
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		traceID := c.GetHeader(headerKeyRequestID)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Header(headerKeyRequestID, traceID)

		logger := base.With(
			zap.String("trace_id", traceID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Set(contextKeyLogger, logger)
		c.Set(contextKeyTraceID, traceID)

		c.Next()

		logger.Info("HTTP request complete",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// Logger はGinコンテキストからリクエスト単位のロガーを取得する。
// RequestLoggerが適用されていない場合は何も出力しないロガーを返す。
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(contextKeyLogger); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}

// TraceID はGinコンテキストからtrace_idを取得する。
func TraceID(c *gin.Context) string {
	return c.GetString(contextKeyTraceID)
}
