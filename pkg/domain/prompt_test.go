package domain

import (
	"testing"
)

func TestNewPrompt_Defaults(t *testing.T) {
	t.Run("未設定の Prompt はプロバイダ既定値を持つのだ", func(t *testing.T) {
		p := NewPrompt("a cat in the rain")

		if p.Size != "1024x1024" {
			t.Errorf("Size: want 1024x1024, got %s", p.Size)
		}
		if p.Quality != "standard" {
			t.Errorf("Quality: want standard, got %s", p.Quality)
		}
		if p.Style != "vivid" {
			t.Errorf("Style: want vivid, got %s", p.Style)
		}
		if p.Model != "dall-e-3" {
			t.Errorf("Model: want dall-e-3, got %s", p.Model)
		}
		if p.N != 1 {
			t.Errorf("N: want 1, got %d", p.N)
		}
	})
}

func TestPrompt_DerivedViews(t *testing.T) {
	t.Run("結果が無い場合はすべて空を返すのだ", func(t *testing.T) {
		p := NewPrompt("empty case")

		if p.FirstResult() != nil {
			t.Error("FirstResult should be nil")
		}
		if p.FirstImageURL() != "" {
			t.Error("FirstImageURL should be empty")
		}
		if p.ImageURI() != nil {
			t.Error("ImageURI should be nil")
		}
		if p.RevisedPrompt() != "" {
			t.Error("RevisedPrompt should be empty")
		}
	})

	t.Run("先頭結果のURLとURIが取得できるのだ", func(t *testing.T) {
		p := NewPrompt("two results")
		p.SetResults([]Result{
			{URL: "https://images.example.com/first.png"},
			{URL: "https://images.example.com/second.png"},
		})

		if p.FirstImageURL() != "https://images.example.com/first.png" {
			t.Errorf("unexpected first URL: %s", p.FirstImageURL())
		}

		uri := p.ImageURI()
		if uri == nil {
			t.Fatal("ImageURI should not be nil")
		}
		if uri.Host != "images.example.com" {
			t.Errorf("unexpected host: %s", uri.Host)
		}
	})

	t.Run("SetResults は結果列を丸ごと置き換えるのだ", func(t *testing.T) {
		p := NewPrompt("replace")
		p.SetResults([]Result{{URL: "https://example.com/old.png"}})
		p.SetResults([]Result{{URL: "https://example.com/new.png"}, {URL: "https://example.com/extra.png"}})

		if len(p.Results) != 2 {
			t.Fatalf("want 2 results, got %d", len(p.Results))
		}
		if p.FirstImageURL() != "https://example.com/new.png" {
			t.Errorf("derived view is stale: %s", p.FirstImageURL())
		}
	})
}

func TestPrompt_IsRevised(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		revised string
		want    bool
	}{
		{"書き換え済みテキストが異なる場合は true", "a cat", "a fluffy cat on a roof", true},
		{"入力と同一の場合は false", "a cat", "a cat", false},
		{"書き換え済みテキストが空の場合は false", "a cat", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompt(tt.prompt)
			p.SetResults([]Result{{URL: "https://example.com/img.png", RevisedPrompt: tt.revised}})
			if got := p.IsRevised(); got != tt.want {
				t.Errorf("IsRevised() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrompt_IsEmpty(t *testing.T) {
	t.Run("完全に空の Prompt だけが true なのだ", func(t *testing.T) {
		p := &Prompt{}
		if !p.IsEmpty() {
			t.Error("zero-value Prompt should be empty")
		}
	})

	t.Run("どれか1つでも設定されると false になるのだ", func(t *testing.T) {
		withText := &Prompt{Prompt: "hello"}
		if withText.IsEmpty() {
			t.Error("text should flip IsEmpty to false")
		}

		withFile := &Prompt{ImageFilename: "_a1b2c3d4.png"}
		if withFile.IsEmpty() {
			t.Error("cached filename should flip IsEmpty to false")
		}

		withResult := &Prompt{}
		withResult.SetResults([]Result{{URL: "https://example.com/img.png"}})
		if withResult.IsEmpty() {
			t.Error("results should flip IsEmpty to false")
		}

		withRevised := &Prompt{}
		withRevised.SetResults([]Result{{RevisedPrompt: "revised"}})
		if withRevised.IsEmpty() {
			t.Error("revised prompt should flip IsEmpty to false")
		}
	})
}
