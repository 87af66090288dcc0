package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/shouni/openai-image-kit/pkg/domain"
	"github.com/shouni/openai-image-kit/pkg/imgutil"
)

// buildImageRequest は Prompt からリクエストボディを組み立てます。
// 未設定のフィールドはプロバイダ既定値へフォールバックします。
func buildImageRequest(p *domain.Prompt, format ResponseFormat) imageRequest {
	req := imageRequest{
		Prompt:         strings.TrimSpace(p.Prompt),
		Model:          p.Model,
		N:              p.N,
		Size:           p.Size,
		Style:          p.Style,
		Quality:        p.Quality,
		ResponseFormat: string(normalizeFormat(format)),
	}
	if req.Model == "" {
		req.Model = domain.DefaultModel
	}
	if req.N <= 0 {
		req.N = domain.DefaultN
	}
	if req.Size == "" {
		req.Size = domain.DefaultSize
	}
	if req.Style == "" {
		req.Style = domain.DefaultStyle
	}
	if req.Quality == "" {
		req.Quality = domain.DefaultQuality
	}
	return req
}

func normalizeFormat(f ResponseFormat) ResponseFormat {
	if f == FormatBase64 {
		return FormatBase64
	}
	return FormatURL
}

// decodeResults は応答エンベロープを解釈して Result 列へ変換します。
// 応答順を保持します。data が空でも結果は空列であってエラーではありません。
func decodeResults(body []byte) ([]domain.Result, error) {
	var envelope imageResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("応答エンベロープの解釈に失敗しました: %w", err)
	}

	results := make([]domain.Result, 0, len(envelope.Data))
	for _, d := range envelope.Data {
		results = append(results, domain.Result{
			URL:           d.URL,
			Base64Data:    d.B64JSON,
			RevisedPrompt: d.RevisedPrompt,
		})
	}
	return results, nil
}

// extractErrorMessage はエラーボディからメッセージを best-effort で取り出します。
// JSONでない・error オブジェクトが無い・壊れている場合は空文字を返します。
func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return ""
	}
	return envelope.Error.Message
}

// buildVariationForm は variations 操作の multipart ボディを組み立てます。
// image パートの Content-Type には種画像から検出したバイナリ型を宣言します。
// プロバイダは variations で model フィールドを受け付けないため含めません。
func buildVariationForm(imageData []byte, imageName, size string, format ResponseFormat) ([]byte, string, error) {
	mediaType, err := imgutil.MediaType(imageData)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, imageName))
	header.Set("Content-Type", mediaType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("image パートの作成に失敗しました: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, "", fmt.Errorf("image パートの書き込みに失敗しました: %w", err)
	}

	if err := writer.WriteField("size", size); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("response_format", string(format)); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
