package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("# Title\n\nSome **bold** text.\n\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script")

	out = string(RenderMarkdown(`[x](javascript:alert(1))`))
	assert.NotContains(t, out, "javascript:")
}

func TestRenderMarkdownImages(t *testing.T) {
	out := string(RenderMarkdown("![cover](https://example.com/a.png)"))
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Hello world", Excerpt("<p>Hello <b>world</b></p>", 50))
	assert.Equal(t, "Hello…", Excerpt("<p>Hello <b>world</b></p>", 5))
	assert.Equal(t, "你好…", Excerpt("<p>你好世界</p>", 2))
	assert.Equal(t, "bold text", MarkdownExcerpt("**bold**\n\ntext", 100))
	assert.Empty(t, EnhanceHTMLContent(""))
}

func TestRenderMarkdownCodeLanguage(t *testing.T) {
	out := string(RenderMarkdown("```go\nfmt.Println(1)\n```"))
	assert.Contains(t, out, `class="language-go"`)

	out = string(RenderMarkdown(`<code class="evil">x</code>`))
	assert.NotContains(t, out, "evil")
}
