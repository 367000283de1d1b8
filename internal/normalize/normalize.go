// Package normalize turns submitted content into the plain text the
// pipeline analyzes. HTML is reduced to its main content and converted
// to Markdown; plain text passes through untouched.
package normalize

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"content-optimizer-service/internal/entity"
)

// noiseSelectors carry no readable content.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "header", "aside",
	"img", "picture", "figure", "svg", "canvas",
	"iframe", "video", "audio",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// Content returns the text to analyze for content submitted in format.
func Content(content string, format entity.ContentFormat) (string, error) {
	if format != entity.FormatHTML {
		return content, nil
	}
	return HTML(content)
}

// HTML extracts the main content of an HTML document or fragment as Markdown.
func HTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var main *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		return "", fmt.Errorf("no content container in html")
	}

	fragment, err := goquery.OuterHtml(main)
	if err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
