package domain

import "net/url"

// DALL-E API の既定値です。未設定の Prompt でもそのまま有効なリクエストになります。
const (
	DefaultModel   = "dall-e-3"
	DefaultSize    = "1024x1024"
	DefaultQuality = "standard"
	DefaultStyle   = "vivid"
	DefaultN       = 1
)

// Prompt は1回の画像生成要求と、その結果を蓄積するエンティティです。
// 生成クライアントは参照で受け取り結果を書き込みます。ファクトリではなく
// 副作用を伴う操作である点に注意してください。内部ロックは持たないため、
// 複数ゴルーチンからの同時変更は呼び出し側で避ける必要があります。
type Prompt struct {
	Prompt             string
	VariationImagePath string
	Size               string
	Quality            string
	Style              string
	N                  int
	Model              string

	// Results はプロバイダの応答順を保持します。SetResults による全置換のみ行います。
	Results []Result

	// ImageFilename はローカル保存済み画像のファイル名です。ディレクトリは含みません。
	ImageFilename string
}

// NewPrompt はプロバイダ既定値を適用した Prompt を作成します。
func NewPrompt(text string) *Prompt {
	return &Prompt{
		Prompt:  text,
		Size:    DefaultSize,
		Quality: DefaultQuality,
		Style:   DefaultStyle,
		N:       DefaultN,
		Model:   DefaultModel,
	}
}

// SetResults は結果列を丸ごと置き換えます。派生値はすべて現在の結果列から
// 都度計算されるため、置換と派生値の更新は常に一体です。新しい結果列と
// 古い先頭URLのような不整合な読み取りは起きません。
func (p *Prompt) SetResults(results []Result) {
	p.Results = results
}

// FirstResult は先頭の結果を返します。結果が無ければ nil です。
func (p *Prompt) FirstResult() *Result {
	if len(p.Results) == 0 {
		return nil
	}
	return &p.Results[0]
}

// FirstImageURL は先頭結果のリモートURLを返します。結果が無ければ空文字です。
func (p *Prompt) FirstImageURL() string {
	if r := p.FirstResult(); r != nil {
		return r.URL
	}
	return ""
}

// ImageURI は先頭結果のURLを *url.URL として返します。
// URLが空、またはパースできない場合は nil です。
func (p *Prompt) ImageURI() *url.URL {
	raw := p.FirstImageURL()
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}

// RevisedPrompt は先頭結果のプロバイダ書き換え済みプロンプトを返します。
func (p *Prompt) RevisedPrompt() string {
	if r := p.FirstResult(); r != nil {
		return r.RevisedPrompt
	}
	return ""
}

// IsRevised はプロバイダがプロンプトを書き換えたかどうかを返します。
// 書き換え済みテキストが空、または入力と同一の場合は false です。
func (p *Prompt) IsRevised() bool {
	revised := p.RevisedPrompt()
	return revised != "" && revised != p.Prompt
}

// IsEmpty はテキストも書き換え済みプロンプトもキャッシュ済みファイル名も
// 結果も持たない、完全に空の Prompt かどうかを返します。
func (p *Prompt) IsEmpty() bool {
	return p.Prompt == "" &&
		p.RevisedPrompt() == "" &&
		p.ImageFilename == "" &&
		len(p.Results) == 0
}
