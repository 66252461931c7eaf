package moodboard

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/moodboard/internal/social"
)

func TestCreatePin(t *testing.T) {
	t.Parallel()

	t.Run("正常系: 画像が保存され、説明文付きのピンが返る", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)

		pin := createPin(t, s, alice.Token, "golden hour")
		if pin.Description != "golden hour" {
			t.Errorf("description = %q, want %q", pin.Description, "golden hour")
		}
		if pin.User.ID != alice.ID || pin.User.Username != alice.Username {
			t.Errorf("user = %+v", pin.User)
		}
		if !strings.HasPrefix(pin.ImageURL, "/uploads/") || !strings.HasSuffix(pin.ImageURL, ".png") {
			t.Errorf("imageUrl = %q", pin.ImageURL)
		}
		if len(pin.Likes) != 0 || len(pin.Comments) != 0 {
			t.Errorf("新規ピンにいいねかコメントがある: %+v", pin)
		}

		saved, err := os.ReadFile(filepath.Join(s.cfg.UploadDir, filepath.Base(pin.ImageURL)))
		if err != nil {
			t.Fatalf("保存された画像が読めない: %v", err)
		}
		if !bytes.Equal(saved, pngHeader) {
			t.Error("保存された画像の内容が異なる")
		}

		// 静的配信されている
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, pin.ImageURL, nil))
		if w.Code != http.StatusOK {
			t.Errorf("画像配信のステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("正常系: JPEGも受け付ける", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)

		w := uploadPin(t, s, alice.Token, []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01"), "jpeg")
		if w.Code != http.StatusCreated {
			t.Fatalf("ステータスコード = %d, want %d (body=%s)", w.Code, http.StatusCreated, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), ".jpg") {
			t.Errorf("拡張子が.jpgでない: %s", w.Body.String())
		}
	})

	t.Run("正常系: 説明文が無くキャプション生成も無効ならデフォルトの説明文", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)

		pin := createPin(t, s, alice.Token, "")
		if pin.Description != defaultDescription {
			t.Errorf("description = %q, want %q", pin.Description, defaultDescription)
		}
	})

	t.Run("正常系: 説明文が無ければ公開URLの画像でキャプションを生成する", func(t *testing.T) {
		t.Parallel()

		captioner := &fakeCaptioner{caption: "a quiet forest"}
		s := setupTestServer(t, captioner)
		alice := registerUser(t, s)

		pin := createPin(t, s, alice.Token, "")
		if pin.Description != "a quiet forest" {
			t.Errorf("description = %q, want %q", pin.Description, "a quiet forest")
		}
		if len(captioner.gotURLs) != 1 || captioner.gotURLs[0] != "http://moodboard.test"+pin.ImageURL {
			t.Errorf("キャプション生成に渡したURL = %v", captioner.gotURLs)
		}
	})

	t.Run("正常系: 説明文があればキャプション生成を呼ばない", func(t *testing.T) {
		t.Parallel()

		captioner := &fakeCaptioner{caption: "unused"}
		s := setupTestServer(t, captioner)
		alice := registerUser(t, s)

		createPin(t, s, alice.Token, "mine")
		if len(captioner.gotURLs) != 0 {
			t.Errorf("キャプション生成が呼ばれた: %v", captioner.gotURLs)
		}
	})

	t.Run("正常系: キャプション生成に失敗してもデフォルトの説明文で作成する", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, &fakeCaptioner{err: errors.New("timeout")})
		alice := registerUser(t, s)

		pin := createPin(t, s, alice.Token, "")
		if pin.Description != defaultDescription {
			t.Errorf("description = %q, want %q", pin.Description, defaultDescription)
		}
	})

	t.Run("異常系: 不正なアップロードは拒否される", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)

		tests := []struct {
			name       string
			image      []byte
			wantStatus int
		}{
			{name: "画像無し", image: nil, wantStatus: http.StatusBadRequest},
			{name: "GIF画像", image: []byte("GIF89a\x01\x00\x01\x00"), wantStatus: http.StatusBadRequest},
			{name: "テキスト", image: []byte("hello"), wantStatus: http.StatusBadRequest},
			{name: "10MiB超", image: append(append([]byte{}, pngHeader...), make([]byte, maxUploadBytes)...), wantStatus: http.StatusRequestEntityTooLarge},
			{name: "リクエスト上限超(12MiB)", image: append(append([]byte{}, pngHeader...), make([]byte, 12<<20)...), wantStatus: http.StatusRequestEntityTooLarge},
		}
		for _, tt := range tests {
			w := uploadPin(t, s, alice.Token, tt.image, "x")
			if w.Code != tt.wantStatus {
				t.Errorf("%s: ステータスコード = %d, want %d", tt.name, w.Code, tt.wantStatus)
			}
		}

		entries, err := os.ReadDir(s.cfg.UploadDir)
		if err != nil {
			t.Fatalf("アップロードディレクトリが読めない: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("拒否された画像が保存されている: %d件", len(entries))
		}
	})

	t.Run("異常系: ピンの登録に失敗したら保存した画像を削除する", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)

		if _, err := s.store.DB().Exec(
			`CREATE TRIGGER reject_pins BEFORE INSERT ON pins BEGIN SELECT RAISE(ABORT, 'rejected'); END`,
		); err != nil {
			t.Fatalf("トリガーの作成に失敗: %v", err)
		}

		w := uploadPin(t, s, alice.Token, pngHeader, "x")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		entries, err := os.ReadDir(s.cfg.UploadDir)
		if err != nil {
			t.Fatalf("アップロードディレクトリが読めない: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("登録に失敗した画像が残っている: %d件", len(entries))
		}
	})

	t.Run("異常系: トークンが無いと401", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		w := uploadPin(t, s, "", pngHeader, "x")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestListPins(t *testing.T) {
	t.Parallel()

	t.Run("正常系: ピンがなければ空配列", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		w := doJSON(t, s, http.MethodGet, "/api/pins", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if got := strings.TrimSpace(w.Body.String()); got != "[]" {
			t.Errorf("body = %s, want []", got)
		}
	})

	t.Run("正常系: 新着順で、いいねとコメントを含む", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)
		bob := registerUser(t, s)

		first := createPin(t, s, alice.Token, "first")
		second := createPin(t, s, bob.Token, "second")

		if w := doJSON(t, s, http.MethodPut, "/api/pins/like/"+first.ID, bob.Token, nil); w.Code != http.StatusOK {
			t.Fatalf("いいねに失敗: status=%d", w.Code)
		}
		if w := doJSON(t, s, http.MethodPost, "/api/pins/comment/"+first.ID, bob.Token, gin.H{"text": "wow"}); w.Code != http.StatusCreated {
			t.Fatalf("コメントに失敗: status=%d", w.Code)
		}

		w := doJSON(t, s, http.MethodGet, "/api/pins", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		var pins []pinResponse
		decodeBody(t, w, &pins)
		if len(pins) != 2 {
			t.Fatalf("ピン数 = %d, want 2", len(pins))
		}
		if pins[0].ID != second.ID || pins[1].ID != first.ID {
			t.Errorf("並び順が新着順でない: [%s %s]", pins[0].ID, pins[1].ID)
		}
		if pins[1].User.Username != alice.Username || pins[1].User.Email != alice.Email {
			t.Errorf("投稿者が期待値と異なる: %+v", pins[1].User)
		}
		if len(pins[1].Likes) != 1 || pins[1].Likes[0] != bob.ID {
			t.Errorf("likes = %v, want [%s]", pins[1].Likes, bob.ID)
		}
		if len(pins[1].Comments) != 1 || pins[1].Comments[0].Text != "wow" || pins[1].Comments[0].Username != bob.Username {
			t.Errorf("comments = %+v", pins[1].Comments)
		}
	})
}

func TestLikeHandler(t *testing.T) {
	t.Parallel()

	t.Run("正常系: 2回でいいねが元に戻る", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)
		bob := registerUser(t, s)
		pin := createPin(t, s, bob.Token, "pin")

		want := []bool{true, false}
		for i, wantLiked := range want {
			w := doJSON(t, s, http.MethodPut, "/api/pins/like/"+pin.ID, alice.Token, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("%d回目: ステータスコード = %d, want %d", i+1, w.Code, http.StatusOK)
			}
			var resp likeResponse
			decodeBody(t, w, &resp)
			if resp.Liked != wantLiked {
				t.Errorf("%d回目: liked = %v, want %v", i+1, resp.Liked, wantLiked)
			}
			if wantLiked && (len(resp.Likes) != 1 || resp.Likes[0] != alice.ID) {
				t.Errorf("%d回目: likes = %v", i+1, resp.Likes)
			}
			if !wantLiked && len(resp.Likes) != 0 {
				t.Errorf("%d回目: likes = %v, want []", i+1, resp.Likes)
			}
		}
	})

	t.Run("異常系: 存在しないピンは404", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)

		w := doJSON(t, s, http.MethodPut, "/api/pins/like/missing", alice.Token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNotFound)
		}
		if got := errorMessage(t, w); got != social.ErrPinNotFound.Error() {
			t.Errorf("error = %q", got)
		}
	})
}

func TestCommentHandler(t *testing.T) {
	t.Parallel()

	t.Run("正常系: コメントが投稿順で返る", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)
		bob := registerUser(t, s)
		pin := createPin(t, s, bob.Token, "pin")

		for _, text := range []string{"one", "two"} {
			if w := doJSON(t, s, http.MethodPost, "/api/pins/comment/"+pin.ID, alice.Token, gin.H{"text": text}); w.Code != http.StatusCreated {
				t.Fatalf("コメントに失敗: status=%d body=%s", w.Code, w.Body.String())
			}
		}
		w := doJSON(t, s, http.MethodPost, "/api/pins/comment/"+pin.ID, bob.Token, gin.H{"text": "three"})
		if w.Code != http.StatusCreated {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusCreated)
		}

		var comments []commentResponse
		decodeBody(t, w, &comments)
		if len(comments) != 3 {
			t.Fatalf("コメント数 = %d, want 3", len(comments))
		}
		for i, want := range []string{"one", "two", "three"} {
			if comments[i].Text != want {
				t.Errorf("comments[%d] = %q, want %q", i, comments[i].Text, want)
			}
		}
		if comments[2].UserID != bob.ID {
			t.Errorf("comments[2].userId = %q, want %q", comments[2].UserID, bob.ID)
		}
	})

	t.Run("異常系: エラーはステータスコードに変換される", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t, nil)
		alice := registerUser(t, s)
		pin := createPin(t, s, alice.Token, "pin")

		tests := []struct {
			name       string
			pinID      string
			body       any
			wantStatus int
		}{
			{name: "空のコメント", pinID: pin.ID, body: gin.H{"text": "  "}, wantStatus: http.StatusBadRequest},
			{name: "textが無い", pinID: pin.ID, body: gin.H{}, wantStatus: http.StatusBadRequest},
			{name: "JSONでないボディ", pinID: pin.ID, body: "oops", wantStatus: http.StatusBadRequest},
			{name: "存在しないピン", pinID: "missing", body: gin.H{"text": "hi"}, wantStatus: http.StatusNotFound},
		}
		for _, tt := range tests {
			w := doJSON(t, s, http.MethodPost, "/api/pins/comment/"+tt.pinID, alice.Token, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("%s: ステータスコード = %d, want %d", tt.name, w.Code, tt.wantStatus)
			}
		}
	})
}
