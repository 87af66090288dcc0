package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/openai-image-kit/pkg/domain"
)

// DefaultFolderName は保存先フォルダ未指定時に os.TempDir() 配下へ作られるサブパスです。
const DefaultFolderName = "openai-image-kit"

// 生成画像は常にこの拡張子で保存します。
const imageExt = ".png"

// ImageStore は生成画像のローカル保存を担当します。
// 保存先フォルダは構築時に渡される明示的な設定値です。プロセス全体で
// 共有されるグローバルな既定値は持ちません。
type ImageStore struct {
	folder     string
	httpClient httpkit.ClientInterface
}

// NewImageStore は保存先フォルダと取得用HTTPクライアントを注入して初期化します。
// folder が空の場合は一時ディレクトリ配下の既定フォルダを使います。
func NewImageStore(folder string, httpClient httpkit.ClientInterface) (*ImageStore, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if folder == "" {
		folder = filepath.Join(os.TempDir(), DefaultFolderName)
	}
	return &ImageStore{folder: folder, httpClient: httpClient}, nil
}

// Folder は保存先フォルダを返します。
func (s *ImageStore) Folder() string { return s.folder }

// ImagePath はファイル名を保存先のフルパスへ解決します。
// 既にパス区切りを含む名前はそのまま返します。
// パスを組み立てる処理はすべてこのルールを共有します。
func (s *ImageStore) ImagePath(name string) string {
	if name == "" {
		return ""
	}
	if strings.ContainsAny(name, `/\`) {
		return name
	}
	return filepath.Join(s.folder, name)
}

// HasImageFile は Prompt のキャッシュ済みファイルがディスク上に存在するかを返します。
func (s *ImageStore) HasImageFile(p *domain.Prompt) bool {
	if p == nil || p.ImageFilename == "" {
		return false
	}
	info, err := os.Stat(s.ImagePath(p.ImageFilename))
	return err == nil && !info.IsDir()
}

// DownloadToFile は画像URLからバイト列を取得してローカルに保存し、
// Prompt のキャッシュ済みファイル名（ファイル名のみ）を更新します。
// url が空の場合は先頭結果のURLを使います。
// 取得・書き込みのどちらで失敗しても既存のキャッシュ状態は変更しません。
func (s *ImageStore) DownloadToFile(ctx context.Context, p *domain.Prompt, url string) error {
	if p == nil {
		return fmt.Errorf("prompt is required")
	}
	if url == "" {
		url = p.FirstImageURL()
	}
	if url == "" {
		return fmt.Errorf("ダウンロード対象のURLがありません")
	}

	data, err := s.httpClient.FetchBytes(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "画像のダウンロードに失敗しました", "url", url, "error", err)
		return fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}

	name := randomImageName()
	if err := s.writeFile(s.ImagePath(name), data); err != nil {
		return err
	}

	p.ImageFilename = name
	return nil
}

// SaveFromBase64 は先頭結果のインラインデータを復号してファイルに書き出します。
// filename が空ならランダム名で保存先フォルダに書き、Prompt のキャッシュ済み
// ファイル名を更新します。filename 指定時は ImagePath で解決したパスへ書き、
// キャッシュ済みファイル名には触れません。
// 戻り値は書き出したパスです。結果が無い・復号できない・書き込めない場合は
// 空文字とエラーを返します。
func (s *ImageStore) SaveFromBase64(p *domain.Prompt, filename string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("prompt is required")
	}
	result := p.FirstResult()
	if result == nil {
		return "", fmt.Errorf("保存対象の結果がありません")
	}
	data := result.Base64Bytes()
	if data == nil {
		return "", fmt.Errorf("復号可能なインラインデータがありません")
	}

	if filename == "" {
		name := randomImageName()
		path := s.ImagePath(name)
		if err := s.writeFile(path, data); err != nil {
			return "", err
		}
		p.ImageFilename = name
		return path, nil
	}

	path := s.ImagePath(filename)
	if err := s.writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (s *ImageStore) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("保存先フォルダの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("画像ファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}

// randomImageName は "_<8桁の識別子>.png" 形式のファイル名を生成します。
func randomImageName() string {
	return "_" + uuid.NewString()[:8] + imageExt
}
