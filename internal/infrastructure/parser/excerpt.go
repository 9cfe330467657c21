package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultExcerptLength is the rune budget of listing excerpts.
const DefaultExcerptLength = 180

const ellipsis = "..."

const blockSelector = "p, div, li, blockquote, pre, h1, h2, h3, h4, h5, h6, tr"

// PlainText strips markup from story HTML, decodes entities and collapses whitespace.
func PlainText(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse story html: %w", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find(blockSelector).AfterHtml(" ")

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// Excerpt returns at most limit runes of plain text, ending in "..." when cut.
// Unparseable content yields an empty excerpt.
func Excerpt(content string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLength
	}

	text, err := PlainText(content)
	if err != nil {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	cut := strings.TrimRight(string(runes[:limit]), " ")
	return cut + ellipsis
}

// FirstParagraph returns the text of the first non-empty paragraph, or the
// whole plain text when the content has no paragraphs.
func FirstParagraph(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var first string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.Join(strings.Fields(p.Text()), " ")
		if text == "" {
			return true
		}
		first = text
		return false
	})
	if first != "" {
		return first
	}

	text, _ := PlainText(content)
	return text
}
