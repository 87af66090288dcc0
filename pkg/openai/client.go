package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/openai-image-kit/pkg/domain"
	"github.com/shouni/openai-image-kit/pkg/storage"
)

// CallOptions は Generate / CreateVariation の呼び出しオプションです。
type CallOptions struct {
	// Format は結果の受け取り形式です。ゼロ値は FormatURL として扱います。
	Format ResponseFormat

	// SaveLocalFile が真の場合、成功した応答を即座にローカルファイル化します。
	// ファイル化に失敗すると呼び出し自体が失敗し、元のエラーテキストが伝播します。
	SaveLocalFile bool
}

// Client は DALL-E 画像生成APIの呼び出しを担当します。
// 1インスタンスは1つの認証モードを構築時に固定で保持します。
// lastErr は失敗した呼び出しごとに上書きされるため、1インスタンスを
// 複数ゴルーチンから同時に使うことは安全ではありません。呼び出しを直列化するか、
// 呼び出し元ごとにインスタンスを分けてください。
type Client struct {
	cred       Credential
	httpClient Doer
	reader     remoteio.InputReader
	store      *storage.ImageStore

	lastErr string
}

// NewClient は依存関係を注入してクライアントを初期化します。
// httpClient が nil の場合はトランスポート既定値の http.Client を使います。
func NewClient(cred Credential, httpClient Doer, reader remoteio.InputReader, store *storage.ImageStore) (*Client, error) {
	if cred == nil {
		return nil, fmt.Errorf("cred is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		cred:       cred,
		httpClient: httpClient,
		reader:     reader,
		store:      store,
	}, nil
}

// NewProxyHTTPClient は外向きプロキシを経由する http.Client を作成します。
func NewProxyHTTPClient(proxyURL string) (*http.Client, error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("プロキシURLのパースに失敗しました: %w", err)
	}
	return &http.Client{
		Transport: &http.Transport{Proxy: http.ProxyURL(u)},
	}, nil
}

// LastError は直近に失敗した呼び出しのエラーテキストを返します。
// エラーボディからメッセージを抽出できなかった失敗では空文字になります。
// 空であることは成功を意味しません。
func (c *Client) LastError() string { return c.lastErr }

// ClearError はエラーテキストを消去します。
func (c *Client) ClearError() { c.lastErr = "" }

// Generate は Prompt をプロバイダのリクエストへ変換して1回だけ同期的に呼び出し、
// 応答を Result 列として Prompt に書き戻します。結果列の差し替えは SetResults に
// よる一括置換です。プロバイダによる拒否は *APIError として返り、抽出できた
// メッセージが LastError に入ります。通信そのものの失敗はラップされたエラーで
// そのまま呼び出し元へ返ります。
func (c *Client) Generate(ctx context.Context, p *domain.Prompt, opts CallOptions) error {
	if p == nil {
		return c.failValidation("prompt is required")
	}

	body, err := json.Marshal(buildImageRequest(p, opts.Format))
	if err != nil {
		return fmt.Errorf("リクエストのシリアライズに失敗しました: %w", err)
	}

	respBody, err := c.post(ctx, OperationGenerations, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}

	results, err := decodeResults(respBody)
	if err != nil {
		c.lastErr = err.Error()
		return err
	}
	p.SetResults(results)

	slog.InfoContext(ctx, "画像生成が完了しました", "results", len(results))

	if opts.SaveLocalFile {
		return c.materialize(ctx, p, opts.Format)
	}
	return nil
}

// CreateVariation は種画像から画像のバリエーションを生成します。
// 種画像は呼び出し前に読み取れる必要があり、読めない場合は通信せずに失敗します。
// 既知のプロバイダ仕様として、この操作では model の指定は効きません。
// 何を要求しても常に旧モデル系列が使われるため、リクエストに model は含めません。
func (c *Client) CreateVariation(ctx context.Context, p *domain.Prompt, opts CallOptions) error {
	if p == nil {
		return c.failValidation("prompt is required")
	}
	if p.VariationImagePath == "" {
		return c.failValidation("バリエーションの種画像が指定されていません")
	}

	seed, err := c.readSeedImage(ctx, p.VariationImagePath)
	if err != nil {
		c.lastErr = err.Error()
		return err
	}

	size := p.Size
	if size == "" {
		size = domain.DefaultSize
	}

	form, contentType, err := buildVariationForm(seed, filepath.Base(p.VariationImagePath), size, normalizeFormat(opts.Format))
	if err != nil {
		c.lastErr = err.Error()
		return err
	}

	respBody, err := c.post(ctx, OperationVariations, contentType, bytes.NewReader(form))
	if err != nil {
		return err
	}

	results, err := decodeResults(respBody)
	if err != nil {
		c.lastErr = err.Error()
		return err
	}
	p.SetResults(results)

	if opts.SaveLocalFile {
		return c.materialize(ctx, p, opts.Format)
	}
	return nil
}

// post は1つの操作を同期的に呼び出してボディを返します。
// 非成功ステータスではエラーボディからメッセージを best-effort で抽出して
// lastErr に記録し、*APIError を返します。
func (c *Client) post(ctx context.Context, operation, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cred.RequestURL(operation), body)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	c.cred.Apply(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.lastErr = ""
		return nil, fmt.Errorf("%s の呼び出しに失敗しました: %w", operation, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("レスポンスボディのクローズに失敗しました", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.lastErr = ""
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := extractErrorMessage(respBody)
		c.lastErr = message
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}
	return respBody, nil
}

func (c *Client) readSeedImage(ctx context.Context, path string) ([]byte, error) {
	rc, err := c.reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("種画像 %s を開けません: %w", path, err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			slog.Warn("種画像のクローズに失敗しました", "path", path, "error", cerr)
		}
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("種画像 %s の読み取りに失敗しました: %w", path, err)
	}
	return data, nil
}

// materialize は成功した応答を要求された形式に応じてローカルファイル化します。
func (c *Client) materialize(ctx context.Context, p *domain.Prompt, format ResponseFormat) error {
	if normalizeFormat(format) == FormatBase64 {
		if _, err := c.store.SaveFromBase64(p, ""); err != nil {
			c.lastErr = err.Error()
			return fmt.Errorf("生成画像のローカル保存に失敗しました: %w", err)
		}
		return nil
	}
	if err := c.store.DownloadToFile(ctx, p, ""); err != nil {
		c.lastErr = err.Error()
		return fmt.Errorf("生成画像のローカル保存に失敗しました: %w", err)
	}
	return nil
}

func (c *Client) failValidation(msg string) error {
	c.lastErr = msg
	return fmt.Errorf("openai: %s", msg)
}
