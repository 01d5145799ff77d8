package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
)

func TestPlainText_Empty(t *testing.T) {
	if got := htmlsanitize.PlainText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_Unchanged(t *testing.T) {
	in := "Loving this oversized denim look!"
	if got := htmlsanitize.PlainText(in); got != in {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestPlainText_KeepsAmpersand(t *testing.T) {
	if got := htmlsanitize.PlainText("Tom & Jerry"); got != "Tom & Jerry" {
		t.Errorf("got %q", got)
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	if got := htmlsanitize.PlainText("<b>bold</b> move"); got != "bold move" {
		t.Errorf("got %q", got)
	}
}

func TestPlainText_DropsScript(t *testing.T) {
	got := htmlsanitize.PlainText("nice fit<script>alert('xss')</script>")
	if got != "nice fit" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestPlainText_Trims(t *testing.T) {
	if got := htmlsanitize.PlainText("   hello  \n"); got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestPlainText_EncodedMarkupStaysInert(t *testing.T) {
	cases := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;",
		"look &lt;img src=x onerror=alert(1)&gt;",
	}
	for _, in := range cases {
		got := htmlsanitize.PlainText(in)
		if strings.Contains(got, "<script") || strings.Contains(got, "<img") {
			t.Errorf("PlainText(%q) = %q, markup survived", in, got)
		}
	}
}

func TestPlainText_KeepsComparison(t *testing.T) {
	if got := htmlsanitize.PlainText("a < b"); got != "a < b" {
		t.Errorf("got %q", got)
	}
}
