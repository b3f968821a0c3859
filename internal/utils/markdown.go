package utils

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// storyMarkdown renders story bodies. Raw HTML in the source is dropped by
// goldmark before the sanitizer sees it.
var storyMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

var storyPolicy = newStoryPolicy()

// newStoryPolicy 用户内容白名单：图片、外链新窗口、代码块语言标记
func newStoryPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	return p
}

// RenderMarkdown converts story content to sanitized HTML.
func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := storyMarkdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return EnhanceHTMLContent(string(storyPolicy.SanitizeBytes(buf.Bytes())))
}

// MarkdownExcerpt renders source and returns a plain-text preview.
func MarkdownExcerpt(source string, maxRunes int) string {
	return Excerpt(string(RenderMarkdown(source)), maxRunes)
}
