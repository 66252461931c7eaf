// Package caption は外部のキャプション生成サービスを呼び出すクライアントを提供する。
//
// ピン作成時に説明文が無い場合、画像URLからキャプションを生成して補う。
package caption

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/moodboard/pkg/httpclient"
	"go.uber.org/zap"
)

// requestTimeout はキャプション生成1回あたりのタイムアウト。
const requestTimeout = 15 * time.Second

// ErrEmptyCaption はサービスが空のキャプションを返した場合のエラー。
var ErrEmptyCaption = errors.New("caption service returned an empty caption")

// generateRequest はキャプション生成リクエストのJSON構造。
type generateRequest struct {
	// ImageURL はキャプションを付ける画像のURL。
	ImageURL string `json:"image_url"`
}

// generateResponse はキャプション生成レスポンスのJSON構造。
type generateResponse struct {
	// Caption は生成されたキャプション。
	Caption string `json:"caption"`
}

// Client はキャプション生成サービスのクライアント。
type Client struct {
	http   *httpclient.Client
	logger *zap.Logger
}

// New は新しいキャプション生成クライアントを生成する。
func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		http:   httpclient.New(baseURL, httpclient.WithTimeout(requestTimeout)),
		logger: logger,
	}
}

// Generate は画像URLからキャプションを生成する。
func (c *Client) Generate(ctx context.Context, imageURL string) (string, error) {
	var resp generateResponse
	if err := c.http.PostJSON(ctx, "/api/v1/captions", generateRequest{ImageURL: imageURL}, &resp); err != nil {
		return "", fmt.Errorf("キャプション生成に失敗: %w", err)
	}

	caption := strings.TrimSpace(resp.Caption)
	if caption == "" {
		return "", ErrEmptyCaption
	}
	c.logger.Debug("キャプションを生成しました",
		zap.String("image_url", imageURL),
		zap.Int("length", len(caption)),
	)
	return caption, nil
}

// Health はキャプション生成サービスの死活を確認する。
func (c *Client) Health(ctx context.Context) error {
	if err := c.http.GetJSON(ctx, "/health", nil); err != nil {
		return fmt.Errorf("キャプション生成サービスに接続できません: %w", err)
	}
	return nil
}
