package domain

import (
	"context"
	"encoding/base64"
	"log/slog"
)

// HTTPClient は URL からバイト列を取得する能力です。go-http-kit のクライアントが満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Result はプロバイダが返した1枚の画像です。成功した呼び出しが返す Result は
// URL とインラインデータのどちらか一方を必ず持ちます。両方空のものは
// 呼び出し側が組み立てたプレースホルダに過ぎません。
// RevisedPrompt はプロバイダが返した文字列をそのまま保持します。
// 入力プロンプトと同一であっても抑制しません。差分の判定は Prompt.IsRevised が担います。
type Result struct {
	URL           string
	Base64Data    string
	RevisedPrompt string
}

// Base64Bytes はインラインデータを復号して返します。
// データが無い、または復号できない場合は nil です。
func (r *Result) Base64Bytes() []byte {
	if r == nil || r.Base64Data == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(r.Base64Data)
	if err != nil {
		slog.Warn("インラインデータの復号に失敗しました", "error", err)
		return nil
	}
	return data
}

// FetchBytes はリモートURLから画像バイト列を取得します。
// URLが無い場合や通信に失敗した場合は nil を返し、エラーをこの境界の外へ出しません。
func (r *Result) FetchBytes(ctx context.Context, client HTTPClient) []byte {
	if r == nil || r.URL == "" || client == nil {
		return nil
	}
	data, err := client.FetchBytes(ctx, r.URL)
	if err != nil {
		slog.WarnContext(ctx, "画像のダウンロードに失敗しました", "url", r.URL, "error", err)
		return nil
	}
	return data
}

// Bytes は利用可能な最良の手段で画像バイト列を返します。
// インラインデータを優先し、無ければURLから取得します。どちらも無ければ nil です。
func (r *Result) Bytes(ctx context.Context, client HTTPClient) []byte {
	if data := r.Base64Bytes(); data != nil {
		return data
	}
	return r.FetchBytes(ctx, client)
}
