// Package textutil converts CMS rich text into the two shapes the storefront serves: sanitized
// HTML for display and plain text for messages and JSON fields.
package textutil

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	initOnce     sync.Once
	markdown     goldmark.Markdown
	htmlPolicy   *bluemonday.Policy
	stripPolicy  *bluemonday.Policy
	spaceReplace = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ")
)

func setup() {
	initOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

		htmlPolicy = bluemonday.UGCPolicy()
		htmlPolicy.AllowAttrs("loading").OnElements("img")
		htmlPolicy.RequireNoFollowOnLinks(true)

		stripPolicy = bluemonday.StrictPolicy()
	})
}

// RenderHTML renders markdown to HTML and sanitizes the result. Empty input yields "".
func RenderHTML(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	setup()
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return htmlPolicy.Sanitize(html.EscapeString(source))
	}
	return strings.TrimSpace(htmlPolicy.Sanitize(buf.String()))
}

// PlainText removes every tag from s, decodes entities and collapses whitespace.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	setup()
	stripped := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(spaceReplace.Replace(stripped)), " ")
}
