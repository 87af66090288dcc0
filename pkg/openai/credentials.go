package openai

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// PublicBaseURL は OpenAI 公開APIのベースURLです。末尾の区切りを含みます。
const PublicBaseURL = "https://api.openai.com/v1/"

// DefaultAPIVersion は Azure エンドポイントの既定 api-version です。
const DefaultAPIVersion = "2024-02-01"

// Credential は認証モードを表します。構築時に1つ選択され、そのクライアントを
// 通るすべての呼び出しの URL 構築規則と認証ヘッダを決定します。
type Credential interface {
	// RequestURL は操作セグメント（例: "images/generations"）から呼び出し先URLを組み立てます。
	RequestURL(operation string) string
	// Apply は認証ヘッダを設定します。
	Apply(h http.Header)
}

// APIKey は公開APIのキー認証モードです。Authorization: Bearer で送ります。
type APIKey string

func (k APIKey) RequestURL(operation string) string {
	return PublicBaseURL + operation
}

func (k APIKey) Apply(h http.Header) {
	h.Set("Authorization", "Bearer "+string(k))
}

// AzureCredential はテナント固有エンドポイントの認証モードです。
// キーは Bearer 接頭辞なしの api-key ヘッダで送り、URL には api-version を付与します。
type AzureCredential struct {
	endpoint   string
	key        string
	apiVersion string
}

// NewAzureCredential は Azure エンドポイントの認証情報を作成します。
// endpoint は末尾の区切りを保証した形で保持するため、操作セグメントとの連結で
// 二重スラッシュや欠落は起きません。apiVersion が空なら既定値を使います。
func NewAzureCredential(endpoint, key, apiVersion string) (*AzureCredential, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return &AzureCredential{
		endpoint:   endpoint,
		key:        key,
		apiVersion: apiVersion,
	}, nil
}

func (c *AzureCredential) RequestURL(operation string) string {
	return c.endpoint + operation + "?api-version=" + url.QueryEscape(c.apiVersion)
}

func (c *AzureCredential) Apply(h http.Header) {
	h.Set("api-key", c.key)
}
