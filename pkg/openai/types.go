package openai

import (
	"fmt"
	"net/http"
)

// 画像APIの操作セグメントです。Credential が呼び出し先URLへ組み立てます。
const (
	OperationGenerations = "images/generations"
	OperationVariations  = "images/variations"
	OperationModels      = "models"
)

// ResponseFormat はプロバイダへ要求する結果の受け取り形式です。
type ResponseFormat string

const (
	// FormatURL は生成画像をリモートURLとして受け取ります。
	FormatURL ResponseFormat = "url"
	// FormatBase64 は生成画像を base64 エンコードのインラインデータとして受け取ります。
	FormatBase64 ResponseFormat = "b64_json"
)

// Doer は1つのHTTPリクエストを実行する能力です。*http.Client が満たします。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// imageRequest は images/generations へ送る JSON ボディです。
type imageRequest struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
	Style          string `json:"style"`
	Quality        string `json:"quality"`
}

// imageResponse は generations / variations 共通の応答エンベロープです。
type imageResponse struct {
	Created int64       `json:"created"`
	Data    []imageData `json:"data"`
}

type imageData struct {
	URL           string `json:"url"`
	B64JSON       string `json:"b64_json"`
	RevisedPrompt string `json:"revised_prompt"`
}

// errorResponse は非成功ステータス時のエラーボディです。
// error オブジェクトの欠落や不正な形はエラーにせず許容します。
type errorResponse struct {
	Error *errorDetail `json:"error"`
}

// Code は文字列と数値の両方の形で返ってくることがあるため any で受けます。
type errorDetail struct {
	Message string `json:"message"`
	Code    any    `json:"code"`
}

// APIError はプロバイダによる拒否（HTTP非成功ステータス）を表します。
// Message はエラーボディから best-effort で抽出されるため、空のこともあります。
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai: リクエストが拒否されました (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("openai: %s (status %d)", e.Message, e.StatusCode)
}
