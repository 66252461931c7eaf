package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantHandler bool
	}{
		{
			name:        "許可されたオリジンにCORSヘッダーが設定されること",
			allowed:     []string{"http://localhost:5173", "https://example.com"},
			method:      http.MethodGet,
			origin:      "https://example.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://example.com",
			wantHandler: true,
		},
		{
			name:        "許可されていないオリジンにはCORSヘッダーが設定されないこと",
			allowed:     []string{"http://localhost:5173"},
			method:      http.MethodGet,
			origin:      "https://evil.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "",
			wantHandler: true,
		},
		{
			name:        "ワイルドカード指定では任意のオリジンが許可されること",
			allowed:     []string{AllowAllOrigins},
			method:      http.MethodGet,
			origin:      "https://anywhere.example",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://anywhere.example",
			wantHandler: true,
		},
		{
			name:        "Originヘッダーが無い場合はCORSヘッダーが設定されないこと",
			allowed:     []string{AllowAllOrigins},
			method:      http.MethodGet,
			origin:      "",
			wantStatus:  http.StatusOK,
			wantOrigin:  "",
			wantHandler: true,
		},
		{
			name:        "OPTIONSリクエストは204で中断されること",
			allowed:     []string{"http://localhost:5173"},
			method:      http.MethodOptions,
			origin:      "http://localhost:5173",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "http://localhost:5173",
			wantHandler: false,
		},
		{
			name:        "許可されていないオリジンのOPTIONSも204で中断されること",
			allowed:     []string{"http://localhost:5173"},
			method:      http.MethodOptions,
			origin:      "https://evil.com",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "",
			wantHandler: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handlerCalled := false
			router := gin.New()
			router.Use(CORS(tt.allowed))
			router.Handle(tt.method, "/test", func(c *gin.Context) {
				handlerCalled = true
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if handlerCalled != tt.wantHandler {
				t.Errorf("ハンドラー呼び出し = %v, want %v", handlerCalled, tt.wantHandler)
			}
		})
	}

	t.Run("許可ヘッダーにAuthorizationとX-Request-IDが含まれること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(CORS([]string{"http://localhost:5173"}))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type, X-Request-ID" {
			t.Errorf("Access-Control-Allow-Headers = %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS" {
			t.Errorf("Access-Control-Allow-Methods = %q", got)
		}
	})
}
