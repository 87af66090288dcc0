package openai

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"time"
)

// validateTimeout は到達性チェック専用の短いタイムアウトです。
// ValidateAPIKey は安価な生存確認であり、完全な操作ではありません。
const validateTimeout = 5 * time.Second

// apiKeyPattern は公開APIキーの既知の形式（"sk-" + 32文字以上の英数字）です。
var apiKeyPattern = regexp.MustCompile(`^sk-[A-Za-z0-9]{32,}$`)

// ValidateAPIKey はキーの形式と到達性を軽量に確認します。
// 形式が不正な場合は通信せずに false を返します。形式が正しい場合は
// models 一覧へ認証付きGETを1回行い、通信エラーや非成功ステータスは
// すべて false として扱います。失敗の理由は返しません。
func (c *Client) ValidateAPIKey(ctx context.Context, key string) bool {
	if !apiKeyPattern.MatchString(key) {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	cred := APIKey(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cred.RequestURL(OperationModels), nil)
	if err != nil {
		return false
	}
	cred.Apply(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "APIキーの到達性チェックに失敗しました", "error", err)
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
