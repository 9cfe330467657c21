package parser

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	html := `<p>Hello&nbsp;<strong>world</strong> &amp; friends</p><p>Second<br>line</p>
	<script>alert("x")</script><ul><li>one</li><li>two</li></ul>`

	got, err := PlainText(html)
	if err != nil {
		t.Fatalf("PlainText returned error: %v", err)
	}

	want := "Hello world & friends Second line one two"
	if got != want {
		t.Fatalf("unexpected text:\n got %q\nwant %q", got, want)
	}
}

func TestExcerptShortContentUnchanged(t *testing.T) {
	t.Parallel()

	got := Excerpt("<p>Short   story.</p>", 0)
	if got != "Short story." {
		t.Fatalf("expected untouched text, got %q", got)
	}
}

func TestExcerptTruncates(t *testing.T) {
	t.Parallel()

	content := "<p>" + strings.Repeat("é", 300) + "</p>"
	got := Excerpt(content, 180)

	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != 180 {
		t.Fatalf("expected 180 runes before ellipsis, got %d", n)
	}
}

func TestFirstParagraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"skips empty", "<p> </p><p>First <em>real</em> one</p><p>Second</p>", "First real one"},
		{"no paragraphs", "<div>Just a <b>div</b></div>", "Just a div"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FirstParagraph(tt.content); got != tt.want {
				t.Fatalf("FirstParagraph() = %q, want %q", got, tt.want)
			}
		})
	}
}
