package caption

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/moodboard/pkg/httpclient"
	"go.uber.org/zap/zaptest"
)

// newCaptionServer はキャプション生成サービスのモックを生成する。
func newCaptionServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL, zaptest.NewLogger(t))
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("正常系: 画像URLを送りキャプションを受け取る", func(t *testing.T) {
		t.Parallel()

		var gotURL, gotRequestID string
		client := newCaptionServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/captions" || r.Method != http.MethodPost {
				http.NotFound(w, r)
				return
			}
			var req generateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gotURL = req.ImageURL
			gotRequestID = r.Header.Get("X-Request-ID")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(generateResponse{Caption: "  a calm beach at dusk  "})
		})

		ctx := httpclient.WithRequestID(context.Background(), "trace-1")
		got, err := client.Generate(ctx, "http://localhost:5000/uploads/a.png")
		if err != nil {
			t.Fatalf("キャプション生成に失敗: %v", err)
		}
		if got != "a calm beach at dusk" {
			t.Errorf("キャプション = %q, want %q", got, "a calm beach at dusk")
		}
		if gotURL != "http://localhost:5000/uploads/a.png" {
			t.Errorf("送信した画像URL = %q", gotURL)
		}
		if gotRequestID != "trace-1" {
			t.Errorf("X-Request-ID = %q, want trace-1", gotRequestID)
		}
	})

	t.Run("異常系: 空のキャプションはErrEmptyCaption", func(t *testing.T) {
		t.Parallel()

		client := newCaptionServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(generateResponse{Caption: "   "})
		})
		if _, err := client.Generate(context.Background(), "x"); !errors.Is(err, ErrEmptyCaption) {
			t.Errorf("ErrEmptyCaptionを期待したが %v が返った", err)
		}
	})

	t.Run("異常系: サービスのエラーはStatusErrorとして返る", func(t *testing.T) {
		t.Parallel()

		client := newCaptionServer(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		})
		_, err := client.Generate(context.Background(), "x")
		var statusErr *httpclient.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("StatusErrorを期待したが %v が返った", err)
		}
		if statusErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusServiceUnavailable)
		}
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("正常系: /healthが200ならnil", func(t *testing.T) {
		t.Parallel()

		client := newCaptionServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if err := client.Health(context.Background()); err != nil {
			t.Errorf("Health()でエラーが発生: %v", err)
		}
	})

	t.Run("異常系: /healthが500ならエラー", func(t *testing.T) {
		t.Parallel()

		client := newCaptionServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		if err := client.Health(context.Background()); err == nil {
			t.Error("Health()がエラーを返すべき")
		}
	})
}
