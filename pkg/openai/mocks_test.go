package openai

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shouni/openai-image-kit/pkg/storage"
)

// --- Mocks ---

// mockDoer は Doer インターフェースのテスト用モックなのだ。
type mockDoer struct {
	fn       func(req *http.Request) (*http.Response, error)
	calls    int
	lastReq  *http.Request
	lastBody []byte
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	m.calls++
	m.lastReq = req
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		m.lastBody = body
	}
	if m.fn != nil {
		return m.fn(req)
	}
	return jsonResponse(http.StatusOK, `{"created":1,"data":[]}`), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// mockReader は remoteio.InputReader のテスト用モックなのだ。
type mockReader struct {
	data  []byte
	err   error
	calls int
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

// mockFetcher は httpkit.ClientInterface を実装します。
type mockFetcher struct {
	data  []byte
	err   error
	calls int
}

func (m *mockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

// インターフェースを満たすための空実装群なのだ
func (m *mockFetcher) DoRequest(req *http.Request) ([]byte, error) {
	return nil, nil
}

func (m *mockFetcher) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return nil
}

func (m *mockFetcher) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return nil, nil
}

func (m *mockFetcher) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	return nil, nil
}

func (m *mockFetcher) Do(req *http.Request) (*http.Response, error) {
	return nil, nil
}

func (m *mockFetcher) IsSafeURL(urlStr string) (bool, error) {
	return true, nil
}

func (m *mockFetcher) IsSecureServiceURL(serviceURL string) bool {
	return true
}

// PNGの最小構成バイナリ（シグネチャ含む）
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")

func newTestStore(t *testing.T, fetcher *mockFetcher) (*storage.ImageStore, error) {
	t.Helper()
	return storage.NewImageStore(t.TempDir(), fetcher)
}

// newTestClient はモック依存で組み立てたクライアントを返すヘルパーなのだ。
func newTestClient(t *testing.T, doer *mockDoer, reader *mockReader, fetcher *mockFetcher) (*Client, *storage.ImageStore) {
	t.Helper()
	if doer == nil {
		doer = &mockDoer{}
	}
	if reader == nil {
		reader = &mockReader{data: validPng}
	}
	if fetcher == nil {
		fetcher = &mockFetcher{data: validPng}
	}

	store, err := storage.NewImageStore(t.TempDir(), fetcher)
	require.NoError(t, err)

	client, err := NewClient(APIKey("sk-test"), doer, reader, store)
	require.NoError(t, err)
	return client, store
}
