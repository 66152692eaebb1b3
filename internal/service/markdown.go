// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlSanitizer allows the safe subset of HTML produced by markdown.
var htmlSanitizer = bluemonday.UGCPolicy()

// textSanitizer strips every tag from untrusted plain text.
var textSanitizer = bluemonday.StrictPolicy()

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts markdown to sanitized HTML. On conversion failure
// the escaped source is returned.
func renderMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return textSanitizer.Sanitize(src)
	}
	return htmlSanitizer.Sanitize(buf.String())
}

// plainText removes markup from user-submitted text and returns it
// unescaped, ready to be stored as text.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textSanitizer.Sanitize(s)))
}
