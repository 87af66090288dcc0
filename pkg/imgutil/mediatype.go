package imgutil

import (
	"fmt"
	"net/http"
	"strings"
)

// MediaType はバイト列の先頭から画像の Content-Type を判定します。
// image/* 以外のデータはエラーになります。
func MediaType(data []byte) (string, error) {
	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("画像データではありません: %s", mediaType)
	}
	return mediaType, nil
}
